// Package entity defines the domain models for the prices feature.
package entity

// PriceObservation is a single recorded mandi price for a commodity.
// Date is kept as a string because external exports occasionally carry
// dates no known layout can parse; those are stored raw rather than lost.
// The normal form is "2006-01-02", which sorts chronologically as text.
type PriceObservation struct {
	Date          string  // Observation date, normally "YYYY-MM-DD"
	Market        string  // Mandi (trading venue) or state the price was recorded in
	Commodity     string  // Free-text commodity name (e.g., "Onion")
	Price         float64 // Modal price in rupees per quintal
	TransportCost float64 // Always 0 for CSV-sourced rows
}
