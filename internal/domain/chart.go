package domain

import (
	"context"
	"time"
)

// DefaultTimezone is applied to birth records submitted without a timezone.
const DefaultTimezone = "America/Sao_Paulo"

// BirthInput is the birth data submitted by a user.
type BirthInput struct {
	Name      string   `json:"name" validate:"required,min=2"`
	BirthDate string   `json:"birthDate" validate:"required,isodate"`
	BirthTime string   `json:"birthTime" validate:"required,hhmm"`
	BirthCity string   `json:"birthCity" validate:"required,min=2"`
	Timezone  string   `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// BirthRecord is a stored BirthInput. It is never modified after creation.
type BirthRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birthDate"`
	BirthTime string    `json:"birthTime"`
	BirthCity string    `json:"birthCity"`
	Timezone  string    `json:"timezone"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChartArtifactInput holds the fields of a ChartArtifact before the store
// assigns its identity.
type ChartArtifactInput struct {
	BirthRecordID string
	SVG           string
	ChartData     string
	SunSign       string
	MoonSign      string
	RisingSign    string
}

// ChartArtifact is a rendered chart linked to the BirthRecord that produced it.
// BirthRecordID is a lookup reference only; it is not checked on insert.
type ChartArtifact struct {
	ID            string    `json:"id"`
	BirthRecordID string    `json:"birthDataId"`
	SVG           string    `json:"svgData"`
	ChartData     string    `json:"chartData"` // JSON-encoded ParsedChartData
	SunSign       string    `json:"sunSign"`
	MoonSign      string    `json:"moonSign"`
	RisingSign    string    `json:"risingSign"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PlanetPosition places a celestial body in a sign and house.
type PlanetPosition struct {
	Name   string  `json:"name"`
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"`
	House  int     `json:"house"`
	Symbol string  `json:"symbol"`
}

// HouseData describes one of the twelve house cusps.
type HouseData struct {
	Number int     `json:"number"`
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"`
	Ruler  string  `json:"ruler"`
}

// AspectData is a named angular relationship between two bodies.
type AspectData struct {
	Planet1 string  `json:"planet1"`
	Planet2 string  `json:"planet2"`
	Aspect  string  `json:"aspect"`
	Orb     float64 `json:"orb"`
	Symbol  string  `json:"symbol"`
}

// ParsedChartData is the normalised chart computed for a birth moment.
type ParsedChartData struct {
	Planets    []PlanetPosition `json:"planets"`
	Houses     []HouseData      `json:"houses"`
	Aspects    []AspectData     `json:"aspects"`
	SunSign    string           `json:"sunSign"`
	MoonSign   string           `json:"moonSign"`
	RisingSign string           `json:"risingSign"`
}

// ChartRequest is what the upstream computation service needs for one chart.
type ChartRequest struct {
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Coordinates used for the upstream call when a record has none (São Paulo).
const (
	DefaultLatitude  = -23.5505
	DefaultLongitude = -46.6333
)

// NewChartRequest builds the upstream request for a stored birth record,
// substituting the default coordinates and timezone where the record has none.
func NewChartRequest(rec BirthRecord) ChartRequest {
	req := ChartRequest{
		Date:      rec.BirthDate,
		Time:      rec.BirthTime,
		Latitude:  DefaultLatitude,
		Longitude: DefaultLongitude,
		Timezone:  rec.Timezone,
	}
	if rec.Latitude != nil {
		req.Latitude = *rec.Latitude
	}
	if rec.Longitude != nil {
		req.Longitude = *rec.Longitude
	}
	if req.Timezone == "" {
		req.Timezone = DefaultTimezone
	}
	return req
}

// ChartComputer computes natal chart data for a birth moment.
type ChartComputer interface {
	ComputeChart(ctx context.Context, req ChartRequest) (ParsedChartData, error)
}
