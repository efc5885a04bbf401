package domain

import (
	"fmt"
	"math"
	"strings"
)

// Element is the classical element of a zodiac sign.
type Element string

const (
	Fire  Element = "Fogo"
	Earth Element = "Terra"
	Air   Element = "Ar"
	Water Element = "Água"
)

// Sign is one of the twelve zodiac signs.
type Sign struct {
	Name    string
	Symbol  string
	Element Element
	abbrev  string // three-letter upstream abbreviation
	english string
}

// Signs lists the zodiac in order, starting at Áries.
var Signs = [12]Sign{
	{Name: "Áries", Symbol: "♈", Element: Fire, abbrev: "Ari", english: "Aries"},
	{Name: "Touro", Symbol: "♉", Element: Earth, abbrev: "Tau", english: "Taurus"},
	{Name: "Gêmeos", Symbol: "♊", Element: Air, abbrev: "Gem", english: "Gemini"},
	{Name: "Câncer", Symbol: "♋", Element: Water, abbrev: "Can", english: "Cancer"},
	{Name: "Leão", Symbol: "♌", Element: Fire, abbrev: "Leo", english: "Leo"},
	{Name: "Virgem", Symbol: "♍", Element: Earth, abbrev: "Vir", english: "Virgo"},
	{Name: "Libra", Symbol: "♎", Element: Air, abbrev: "Lib", english: "Libra"},
	{Name: "Escorpião", Symbol: "♏", Element: Water, abbrev: "Sco", english: "Scorpio"},
	{Name: "Sagitário", Symbol: "♐", Element: Fire, abbrev: "Sag", english: "Sagittarius"},
	{Name: "Capricórnio", Symbol: "♑", Element: Earth, abbrev: "Cap", english: "Capricorn"},
	{Name: "Aquário", Symbol: "♒", Element: Air, abbrev: "Aqu", english: "Aquarius"},
	{Name: "Peixes", Symbol: "♓", Element: Water, abbrev: "Pis", english: "Pisces"},
}

// Fallback signs used when the upstream payload omits a headline placement.
const (
	FallbackSunSign    = "Áries"
	FallbackMoonSign   = "Touro"
	FallbackRisingSign = "Gêmeos"
)

// PlanetGlyphs are the planet symbols in traditional order (Sol through Plutão).
var PlanetGlyphs = [10]string{"☉", "☽", "☿", "♀", "♂", "♃", "♄", "♅", "♆", "♇"}

var elementColors = map[Element]string{
	Fire:  "#FF6B6B",
	Earth: "#4ECDC4",
	Air:   "#45B7D1",
	Water: "#96CEB4",
}

// aspectSymbols is keyed by lower-case aspect name, Portuguese and English.
var aspectSymbols = map[string]string{
	"conjunção":   "☌",
	"oposição":    "☍",
	"trígono":     "△",
	"quadratura":  "□",
	"sextil":      "⚹",
	"quincúncio":  "⚻",
	"conjunction": "☌",
	"opposition":  "☍",
	"trine":       "△",
	"square":      "□",
	"sextile":     "⚹",
	"quincunx":    "⚻",
}

var signLookup = buildSignLookup()

func buildSignLookup() map[string]int {
	m := make(map[string]int, len(Signs)*3)
	for i, s := range Signs {
		m[strings.ToLower(s.Name)] = i
		m[strings.ToLower(s.abbrev)] = i
		m[strings.ToLower(s.english)] = i
	}
	return m
}

// NormalizeSign maps a Portuguese, English or abbreviated sign name to the
// Portuguese vocabulary. It reports false when the name is not a zodiac sign.
func NormalizeSign(raw string) (string, bool) {
	i, ok := signLookup[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", false
	}
	return Signs[i].Name, true
}

// ZodiacSymbol returns the glyph for a sign name, or ♈ when unknown.
func ZodiacSymbol(sign string) string {
	if i, ok := signLookup[strings.ToLower(strings.TrimSpace(sign))]; ok {
		return Signs[i].Symbol
	}
	return Signs[0].Symbol
}

// AspectSymbol returns the glyph for an aspect name, or ☌ when unknown.
func AspectSymbol(aspect string) string {
	if s, ok := aspectSymbols[strings.ToLower(strings.TrimSpace(aspect))]; ok {
		return s
	}
	return "☌"
}

// SignColor returns the element colour of a sign, defaulting to the fire colour.
func SignColor(sign string) string {
	if i, ok := signLookup[strings.ToLower(strings.TrimSpace(sign))]; ok {
		return elementColors[Signs[i].Element]
	}
	return elementColors[Fire]
}

// NormalizeDegree folds a degree into [0, 360). Non-finite input yields 0.
func NormalizeDegree(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// FormatDegree renders a degree as D°MM', e.g. 12.5 -> 12°30'.
func FormatDegree(deg float64) string {
	d := math.Floor(deg)
	m := math.Floor((deg - d) * 60)
	return fmt.Sprintf("%d°%02d'", int(d), int(m))
}
