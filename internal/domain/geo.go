package domain

import "context"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder resolves a free-text location. Unknown places return ErrLocationNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (Coordinates, error)
}

// GeoSentimentRow is one uploaded row after scoring. Coords is nil when the location did not resolve.
type GeoSentimentRow struct {
	Location string       `json:"location"`
	Text     string       `json:"text"`
	Coords   *Coordinates `json:"coords,omitempty"`
	Score    float64      `json:"score"`
}
