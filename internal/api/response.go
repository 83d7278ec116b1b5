// Package api defines transport-level DTOs shared by HTTP handlers.
package api

// ErrorResponse is the JSON body for non-200 responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SeriesPointResponse is one element of the /api/predict payload. The bound
// and confidence fields are present only on forecast points; history points
// serialize as {date, price, type} alone.
type SeriesPointResponse struct {
	Date       string   `json:"date"`
	Price      float64  `json:"price"`
	Type       string   `json:"type"`
	YhatLower  *float64 `json:"yhat_lower,omitempty"`
	YhatUpper  *float64 `json:"yhat_upper,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
}
