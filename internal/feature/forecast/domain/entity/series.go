// Package entity defines the domain models for the forecast feature.
package entity

// PointType distinguishes recorded prices from projected ones.
type PointType string

const (
	// TypeHistory marks a point taken from (or standing in for) the stored series.
	TypeHistory PointType = "history"
	// TypeForecast marks a projected point with confidence bounds.
	TypeForecast PointType = "forecast"
)

// Confidence labels on forecast points. History points carry no label.
const (
	// ConfidenceHigh is attached to points produced by the fitted seasonal model.
	ConfidenceHigh = "High"
	// ConfidenceSimulated is attached to synthetic stand-in points so callers
	// can detect degraded mode from the payload alone.
	ConfidenceSimulated = "Simulated"
)

// SeriesPoint is one element of the combined history+forecast series returned
// per request. It is never persisted. YhatLower/YhatUpper/Confidence are only
// meaningful when Type is TypeForecast.
type SeriesPoint struct {
	Date       string
	Price      float64
	Type       PointType
	YhatLower  float64
	YhatUpper  float64
	Confidence string
}
