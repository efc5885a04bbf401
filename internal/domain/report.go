package domain

import (
	"fmt"
	"strings"
)

// BuildReport renders the plain-text chart report offered as the PDF download.
func BuildReport(rec BirthRecord, data ParsedChartData) string {
	var b strings.Builder

	b.WriteString("\nRELATÓRIO DE MAPA ASTRAL\n\n")
	fmt.Fprintf(&b, "Nome: %s\n", rec.Name)
	fmt.Fprintf(&b, "Data de Nascimento: %s\n", rec.BirthDate)
	fmt.Fprintf(&b, "Hora: %s\n", rec.BirthTime)
	fmt.Fprintf(&b, "Local: %s\n", rec.BirthCity)
	fmt.Fprintf(&b, "Fuso horário: %s\n\n", rec.Timezone)

	b.WriteString("SIGNOS PRINCIPAIS:\n")
	fmt.Fprintf(&b, "☉ Sol: %s\n", data.SunSign)
	fmt.Fprintf(&b, "☽ Lua: %s\n", data.MoonSign)
	fmt.Fprintf(&b, "↗ Ascendente: %s\n\n", data.RisingSign)

	b.WriteString("POSIÇÕES PLANETÁRIAS:\n")
	for _, p := range data.Planets {
		fmt.Fprintf(&b, "%s: %s - %.2f° (Casa %d)\n", p.Name, p.Sign, p.Degree, p.House)
	}

	b.WriteString("\nCASAS ASTROLÓGICAS:\n")
	for _, h := range data.Houses {
		fmt.Fprintf(&b, "Casa %d: %s - %.2f°\n", h.Number, h.Sign, h.Degree)
	}

	b.WriteString("\nASPECTOS PRINCIPAIS:\n")
	for _, a := range data.Aspects {
		fmt.Fprintf(&b, "%s %s %s (Orbe: %.1f°)\n", a.Planet1, a.Symbol, a.Planet2, a.Orb)
	}

	b.WriteString("\n---\nRelatório gerado por Psicóloga Em Outra Dimensão\nwww.psicologaemoutradimensao.com\n")
	return b.String()
}
