package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// houseOrdinals maps the upstream's named houses ("First_House") to numbers.
var houseOrdinals = map[string]int{
	"first_house": 1, "second_house": 2, "third_house": 3, "fourth_house": 4,
	"fifth_house": 5, "sixth_house": 6, "seventh_house": 7, "eighth_house": 8,
	"ninth_house": 9, "tenth_house": 10, "eleventh_house": 11, "twelfth_house": 12,
}

// ParseUpstreamResponse converts the upstream chart payload into
// ParsedChartData. Missing or malformed fields are replaced one by one with
// fallbacks: empty lists, zero degrees, house 1, and the fixed headline signs.
// Only a body that is not a JSON object is an error.
func ParseUpstreamResponse(body []byte) (ParsedChartData, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ParsedChartData{}, fmt.Errorf("parse upstream response: %w", err)
	}
	if payload == nil {
		return ParsedChartData{}, errors.New("parse upstream response: empty payload")
	}

	// Some API versions nest the chart under "data" with aspects alongside it.
	if data, ok := payload["data"].(map[string]any); ok {
		for k, v := range payload {
			if _, exists := data[k]; !exists && k != "data" {
				data[k] = v
			}
		}
		payload = data
	}

	return ParsedChartData{
		Planets:    parsePlanets(payload["planets"]),
		Houses:     parseHouses(payload["houses"]),
		Aspects:    parseAspects(payload["aspects"]),
		SunSign:    headlineSign(payload["sun"], FallbackSunSign),
		MoonSign:   headlineSign(payload["moon"], FallbackMoonSign),
		RisingSign: headlineSign(payload["ascendant"], FallbackRisingSign),
	}, nil
}

func parsePlanets(v any) []PlanetPosition {
	items, _ := v.([]any)
	out := make([]PlanetPosition, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sign := signOrFallback(stringField(m, "sign"), Signs[0].Name)
		out = append(out, PlanetPosition{
			Name:   stringField(m, "name"),
			Sign:   sign,
			Degree: floatField(m, "degree", "position"),
			House:  houseNumber(m["house"]),
			Symbol: ZodiacSymbol(sign),
		})
	}
	return out
}

func parseHouses(v any) []HouseData {
	items, _ := v.([]any)
	out := make([]HouseData, 0, len(items))
	for i, item := range items {
		if i >= 12 {
			break
		}
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, HouseData{
			Number: i + 1,
			Sign:   signOrFallback(stringField(m, "sign"), Signs[0].Name),
			Degree: floatField(m, "degree", "position"),
			Ruler:  stringField(m, "ruler"),
		})
	}
	return out
}

func parseAspects(v any) []AspectData {
	items, _ := v.([]any)
	out := make([]AspectData, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		aspect := stringField(m, "aspect")
		out = append(out, AspectData{
			Planet1: stringField(m, "planet1", "p1_name"),
			Planet2: stringField(m, "planet2", "p2_name"),
			Aspect:  aspect,
			Orb:     floatField(m, "orb", "orbit"),
			Symbol:  AspectSymbol(aspect),
		})
	}
	return out
}

func headlineSign(v any, fallback string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return fallback
	}
	return signOrFallback(stringField(m, "sign"), fallback)
}

func signOrFallback(raw, fallback string) string {
	if name, ok := NormalizeSign(raw); ok {
		return name
	}
	return fallback
}

// stringField returns the first string value found under keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

// floatField returns the first finite number found under keys. Numeric
// strings are accepted; anything else yields 0.
func floatField(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := toFloat(m[k]); ok {
			return f
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// houseNumber accepts 1-12 as a number, numeric string, or ordinal name.
// Anything else is placed in house 1.
func houseNumber(v any) int {
	if s, ok := v.(string); ok {
		if n, ok := houseOrdinals[strings.ToLower(strings.TrimSpace(s))]; ok {
			return n
		}
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || f < 1 || f > 12 {
		return 1
	}
	return int(f)
}
