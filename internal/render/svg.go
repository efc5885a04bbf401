// Package render draws natal charts as standalone SVG documents.
package render

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/prof-ramos/astromap/internal/domain"
)

// Canvas geometry. All radii are measured from the centre.
const (
	Width        = 500
	Height       = 500
	CenterX      = Width / 2
	CenterY      = Height / 2
	OuterRadius  = 200 // zodiac boundary
	InnerRadius  = 150 // house boundary
	PlanetRadius = 125 // planet baseline

	// MaxPlanets is how many planets are drawn; later entries are ignored.
	MaxPlanets = 10
)

// SVG renders chart data as a self-contained SVG document. It is pure and
// deterministic: equal input yields byte-identical output.
//
// Planets are spaced evenly around the wheel by list position (36° apart,
// alternating 15px inside and outside the baseline) rather than placed at
// their ecliptic degree.
func SVG(data domain.ParsedChartData) string {
	var b strings.Builder
	b.Grow(16 * 1024)

	writeHeader(&b)
	writeZodiac(&b)
	writeHouses(&b)
	writePlanets(&b, data.Planets)
	writeFooter(&b)

	return b.String()
}

func writeHeader(b *strings.Builder) {
	fmt.Fprintf(b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, Width, Height, Width, Height)
	b.WriteString(`
  <defs>
    <radialGradient id="chartGradient" cx="50%" cy="50%" r="60%">
      <stop offset="0%" style="stop-color:#E9F9FF;stop-opacity:0.3"/>
      <stop offset="50%" style="stop-color:#3FCFF9;stop-opacity:0.1"/>
      <stop offset="100%" style="stop-color:#88ff47;stop-opacity:0.05"/>
    </radialGradient>
    <linearGradient id="borderGradient" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" style="stop-color:#3FCFF9;stop-opacity:0.8"/>
      <stop offset="100%" style="stop-color:#88ff47;stop-opacity:0.6"/>
    </linearGradient>
    <filter id="glow" x="-50%" y="-50%" width="200%" height="200%">
      <feGaussianBlur stdDeviation="3" result="coloredBlur"/>
      <feMerge>
        <feMergeNode in="coloredBlur"/>
        <feMergeNode in="SourceGraphic"/>
      </feMerge>
    </filter>
    <filter id="shadow" x="-50%" y="-50%" width="200%" height="200%">
      <feDropShadow dx="2" dy="2" stdDeviation="2" flood-opacity="0.3"/>
    </filter>
  </defs>
  <rect width="100%" height="100%" fill="url(#chartGradient)"/>
`)
	fmt.Fprintf(b, `  <circle cx="%d" cy="%d" r="%d" fill="none" stroke="url(#borderGradient)" stroke-width="1" opacity="0.4"/>`+"\n", CenterX, CenterY, OuterRadius+15)
	fmt.Fprintf(b, `  <circle cx="%d" cy="%d" r="%d" fill="none" stroke="#3FCFF9" stroke-width="2.5" filter="url(#glow)"/>`+"\n", CenterX, CenterY, OuterRadius)
	fmt.Fprintf(b, `  <circle cx="%d" cy="%d" r="%d" fill="none" stroke="#88ff47" stroke-width="1.5" opacity="0.7"/>`+"\n", CenterX, CenterY, InnerRadius)
	fmt.Fprintf(b, `  <circle cx="%d" cy="%d" r="%d" fill="none" stroke="#3FCFF9" stroke-width="1" stroke-dasharray="8,4" opacity="0.5"/>`+"\n", CenterX, CenterY, PlanetRadius)
	fmt.Fprintf(b, `  <circle cx="%d" cy="%d" r="4" fill="#3FCFF9" filter="url(#glow)"/>`+"\n", CenterX, CenterY)
}

// writeZodiac places the twelve sign glyphs clockwise from the top.
func writeZodiac(b *strings.Builder) {
	for i, sign := range domain.Signs {
		x, y := polar(float64(i*30-90), OuterRadius+35)
		color := domain.SignColor(sign.Name)
		fmt.Fprintf(b, `  <g class="zodiac-sign" data-sign="%s">`+"\n", esc(sign.Name))
		fmt.Fprintf(b, `    <circle cx="%s" cy="%s" r="16" fill="%s" opacity="0.2" filter="url(#shadow)"/>`+"\n", num(x), num(y), color)
		fmt.Fprintf(b, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" fill="%s" font-size="22" font-family="serif" font-weight="bold" filter="url(#glow)">%s</text>`+"\n",
			num(x), num(y), color, sign.Symbol)
		b.WriteString("  </g>\n")
	}
}

// writeHouses draws the cusp lines and numbers each house at its midpoint.
func writeHouses(b *strings.Builder) {
	for i := range 12 {
		angle := float64(i*30 - 90)
		x1, y1 := polar(angle, PlanetRadius)
		x2, y2 := polar(angle, OuterRadius)
		nx, ny := polar(float64(i*30+15-90), PlanetRadius-20)

		fmt.Fprintf(b, `  <g class="house" data-house="%d">`+"\n", i+1)
		fmt.Fprintf(b, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#88ff47" stroke-width="1.5" opacity="0.6"/>`+"\n", num(x1), num(y1), num(x2), num(y2))
		fmt.Fprintf(b, `    <circle cx="%s" cy="%s" r="12" fill="rgba(136, 255, 71, 0.3)" stroke="#88ff47" stroke-width="1"/>`+"\n", num(nx), num(ny))
		fmt.Fprintf(b, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" fill="#88ff47" font-size="12" font-weight="bold">%d</text>`+"\n", num(nx), num(ny), i+1)
		b.WriteString("  </g>\n")
	}
}

func writePlanets(b *strings.Builder, planets []domain.PlanetPosition) {
	if len(planets) > MaxPlanets {
		planets = planets[:MaxPlanets]
	}
	for i, p := range planets {
		radius := float64(PlanetRadius + 15)
		if i%2 == 0 {
			radius = PlanetRadius - 15
		}
		x, y := polar(float64(i*36-90), radius)

		glyph := p.Symbol
		if i < len(domain.PlanetGlyphs) {
			glyph = domain.PlanetGlyphs[i]
		}

		labelX, anchor := x-20, "end"
		if x > CenterX {
			labelX, anchor = x+20, "start"
		}

		deg := domain.NormalizeDegree(p.Degree)
		fmt.Fprintf(b, `  <g class="planet" data-planet="%s">`+"\n", esc(p.Name))
		fmt.Fprintf(b, `    <title>%s %s %s</title>`+"\n", esc(p.Name), domain.FormatDegree(deg), esc(p.Sign))
		fmt.Fprintf(b, `    <circle cx="%s" cy="%s" r="14" fill="rgba(63, 207, 249, 0.2)" filter="url(#glow)"/>`+"\n", num(x), num(y))
		fmt.Fprintf(b, `    <circle cx="%s" cy="%s" r="12" fill="#3FCFF9" opacity="0.9" filter="url(#shadow)"/>`+"\n", num(x), num(y))
		fmt.Fprintf(b, `    <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" fill="white" font-size="16" font-weight="bold" font-family="serif">%s</text>`+"\n",
			num(x), num(y), esc(glyph))
		fmt.Fprintf(b, `    <text x="%s" y="%s" text-anchor="%s" fill="#222222" font-size="10" font-weight="500" opacity="0.8">%s</text>`+"\n",
			num(labelX), num(y-20), anchor, esc(p.Name))
		b.WriteString("  </g>\n")
	}
}

func writeFooter(b *strings.Builder) {
	b.WriteString(`  <text x="50" y="50" fill="#3FCFF9" font-size="16" opacity="0.4">✦</text>` + "\n")
	fmt.Fprintf(b, `  <text x="%d" y="50" fill="#88ff47" font-size="12" opacity="0.4">✧</text>`+"\n", Width-50)
	fmt.Fprintf(b, `  <text x="50" y="%d" fill="#88ff47" font-size="14" opacity="0.4">✦</text>`+"\n", Height-50)
	fmt.Fprintf(b, `  <text x="%d" y="%d" fill="#3FCFF9" font-size="10" opacity="0.4">✧</text>`+"\n", Width-50, Height-50)
	fmt.Fprintf(b, `  <text x="%d" y="30" text-anchor="middle" fill="#222222" font-size="18" font-weight="bold" font-family="serif">Mapa Astral</text>`+"\n", CenterX)
	fmt.Fprintf(b, `  <text x="%d" y="50" text-anchor="middle" fill="#666666" font-size="12">Carta Natal Personalizada</text>`+"\n", CenterX)
	b.WriteString("</svg>\n")
}

// polar converts an angle in degrees (0° = east, clockwise in screen space)
// and radius into canvas coordinates.
func polar(angleDeg, radius float64) (float64, float64) {
	rad := angleDeg * math.Pi / 180
	return CenterX + math.Cos(rad)*radius, CenterY + math.Sin(rad)*radius
}

// esc escapes s for use in text and attribute values. Runes XML cannot
// carry, such as control characters and invalid UTF-8, become U+FFFD.
func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s)) // strings.Builder writes never fail
	return b.String()
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
