package usecase

import (
	"fmt"
	"math"
	"testing"
	"time"

	"agripivot_backend/internal/feature/forecast/domain/entity"
	pricesentity "agripivot_backend/internal/feature/prices/domain/entity"
)

// trendingHistory builds n daily observations following a known linear trend
// with a mild yearly cycle, starting at 2023-01-01.
func trendingHistory(n int) []pricesentity.PriceObservation {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]pricesentity.PriceObservation, 0, n)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		price := 1000 + 2*float64(i) + 40*math.Sin(2*math.Pi*float64(d.YearDay())/365.25)
		out = append(out, pricesentity.PriceObservation{
			Date:      d.Format("2006-01-02"),
			Commodity: "Onion",
			Price:     math.Round(price*100) / 100,
		})
	}
	return out
}

func TestSeasonalForecaster_Forecast(t *testing.T) {
	f := NewSeasonalForecaster()
	history := trendingHistory(180)

	pts, err := f.Forecast(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pts) != len(history)+14 {
		t.Fatalf("expected %d points, got %d", len(history)+14, len(pts))
	}

	// History is echoed exactly, in order.
	for i, obs := range history {
		p := pts[i]
		if p.Type != entity.TypeHistory || p.Date != obs.Date || p.Price != obs.Price {
			t.Fatalf("history point %d altered: got %+v, want %+v", i, p, obs)
		}
	}

	// Forecast tail: daily dates after the last observation, model bounds,
	// High confidence.
	last, _ := time.Parse("2006-01-02", history[len(history)-1].Date)
	for i := 0; i < 14; i++ {
		p := pts[len(history)+i]
		wantDate := last.AddDate(0, 0, i+1).Format("2006-01-02")
		if p.Date != wantDate {
			t.Errorf("forecast point %d date = %s, want %s", i, p.Date, wantDate)
		}
		if p.Type != entity.TypeForecast || p.Confidence != entity.ConfidenceHigh {
			t.Errorf("forecast point %d labels wrong: %+v", i, p)
		}
		if !(p.YhatLower <= p.Price && p.Price <= p.YhatUpper) {
			t.Errorf("forecast point %d bounds do not bracket price: %+v", i, p)
		}
	}

	// On clean trending data the projection should continue the trend rather
	// than collapse: the two-week endpoint must exceed the last observation.
	endpoint := pts[len(pts)-1]
	if endpoint.Price <= history[len(history)-1].Price {
		t.Errorf("projection endpoint %.2f did not continue upward trend from %.2f",
			endpoint.Price, history[len(history)-1].Price)
	}
}

func TestSeasonalForecaster_Forecast_TooFewRows(t *testing.T) {
	f := NewSeasonalForecaster()

	tests := []struct {
		name    string
		history []pricesentity.PriceObservation
	}{
		{name: "empty history", history: nil},
		{name: "below minimum", history: trendingHistory(minFitRows - 1)},
		{
			name: "enough rows but dates unparseable",
			history: func() []pricesentity.PriceObservation {
				h := trendingHistory(minFitRows + 5)
				for i := range h {
					h[i].Date = fmt.Sprintf("raw-%d", i)
				}
				return h
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Forecast(tt.history); err == nil {
				t.Error("expected an error for unusable history")
			}
		})
	}
}

// TestSeasonalForecaster_Forecast_RawDateRowsEchoed verifies that rows with
// unparseable dates are excluded from the fit but still appear in the output.
func TestSeasonalForecaster_Forecast_RawDateRowsEchoed(t *testing.T) {
	f := NewSeasonalForecaster()
	history := trendingHistory(60)
	history = append(history, pricesentity.PriceObservation{
		Date: "not-a-date", Commodity: "Onion", Price: 777,
	})

	pts, err := f.Forecast(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != len(history)+14 {
		t.Fatalf("expected %d points, got %d", len(history)+14, len(pts))
	}

	raw := pts[len(history)-1]
	if raw.Date != "not-a-date" || raw.Price != 777 || raw.Type != entity.TypeHistory {
		t.Errorf("raw-date row not echoed: %+v", raw)
	}
}

func TestDefaultSeasonalConfig(t *testing.T) {
	cfg := DefaultSeasonalConfig()
	if cfg.Horizon != 14 {
		t.Errorf("horizon = %d, want 14", cfg.Horizon)
	}
	if cfg.ChangepointPriorScale != 0.5 {
		t.Errorf("changepoint prior scale = %v, want 0.5", cfg.ChangepointPriorScale)
	}
}
