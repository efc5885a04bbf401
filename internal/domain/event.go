package domain

import "time"

// ChartEvent announces a generated chart to downstream consumers.
// It carries identifiers and headline signs only, never the SVG or birth data.
type ChartEvent struct {
	ChartID       string    `json:"chart_id"`
	BirthRecordID string    `json:"birth_record_id"`
	SunSign       string    `json:"sun_sign"`
	MoonSign      string    `json:"moon_sign"`
	RisingSign    string    `json:"rising_sign"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewChartEvent summarises an artifact for publication.
func NewChartEvent(a ChartArtifact) ChartEvent {
	return ChartEvent{
		ChartID:       a.ID,
		BirthRecordID: a.BirthRecordID,
		SunSign:       a.SunSign,
		MoonSign:      a.MoonSign,
		RisingSign:    a.RisingSign,
		CreatedAt:     a.CreatedAt,
	}
}
