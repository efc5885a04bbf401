package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// cityTable holds the supported cities keyed by NFC-normalised name.
var cityTable = map[string]Coordinates{
	norm.NFC.String("São Paulo"):      {Lat: -23.5505, Lng: -46.6333},
	norm.NFC.String("Rio de Janeiro"): {Lat: -22.9068, Lng: -43.1729},
	norm.NFC.String("Belo Horizonte"): {Lat: -19.9208, Lng: -43.9378},
	norm.NFC.String("Brasília"):       {Lat: -15.8267, Lng: -47.9218},
	norm.NFC.String("Salvador"):       {Lat: -12.9714, Lng: -38.5014},
	norm.NFC.String("Fortaleza"):      {Lat: -3.7319, Lng: -38.5267},
	norm.NFC.String("Recife"):         {Lat: -8.0476, Lng: -34.8770},
}

// LookupCity resolves a city against the static table. Anything after the
// first comma is ignored ("São Paulo, SP" matches "São Paulo"); the rest must
// match exactly, up to Unicode canonical equivalence.
func LookupCity(city string) (Coordinates, bool) {
	if i := strings.IndexByte(city, ','); i >= 0 {
		city = city[:i]
	}
	c, ok := cityTable[norm.NFC.String(strings.TrimSpace(city))]
	return c, ok
}

// KnownCities returns the table's city names in alphabetical order.
func KnownCities() []string {
	names := make([]string, 0, len(cityTable))
	for name := range cityTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnrichWithCity overwrites the input coordinates with the table entry for its
// city. Inputs with an unknown city are returned unchanged.
func EnrichWithCity(in BirthInput) BirthInput {
	c, ok := LookupCity(in.BirthCity)
	if !ok {
		return in
	}
	lat, lng := c.Lat, c.Lng
	in.Latitude = &lat
	in.Longitude = &lng
	return in
}
