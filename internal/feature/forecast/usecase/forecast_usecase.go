// Package usecase implements the forecast orchestration and fallback engine.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"agripivot_backend/internal/feature/forecast/domain/entity"
	pricesentity "agripivot_backend/internal/feature/prices/domain/entity"
)

// PriceReader abstracts the read side of the historical price store.
// Following Go convention, the interface is defined by the consumer (usecase).
type PriceReader interface {
	// FindSeries returns all observations matching the commodity fragment,
	// ascending by date. Empty result is not an error.
	FindSeries(ctx context.Context, commodity string) ([]pricesentity.PriceObservation, error)
	// FindLatest returns the most recent matching observation, or nil.
	FindLatest(ctx context.Context, commodity string) (*pricesentity.PriceObservation, error)
}

// Forecaster turns a historical series into a combined history+forecast
// series. The orchestrator depends only on this capability so a fitted model
// and a fake can be substituted freely.
type Forecaster interface {
	Forecast(history []pricesentity.PriceObservation) ([]entity.SeriesPoint, error)
}

// ForecastUsecase picks between the fitted seasonal model and the synthetic
// generator. Whether the model is available is decided once at process start
// and injected here; it is never re-checked per request.
type ForecastUsecase struct {
	prices PriceReader
	model  Forecaster // nil when the seasonal engine is disabled
	synth  *SyntheticForecaster
}

// NewForecastUsecase creates the orchestrator. Pass a nil model to run in
// synthetic-only mode.
func NewForecastUsecase(prices PriceReader, model Forecaster) *ForecastUsecase {
	return &ForecastUsecase{prices: prices, model: model, synth: NewSyntheticForecaster()}
}

// Predict returns the two-week outlook series for a commodity. The only error
// it can return is a store read failure; every model-side failure is
// downgraded to a synthetic series so the endpoint never breaks for a missing
// or misbehaving model.
func (u *ForecastUsecase) Predict(ctx context.Context, commodity string) ([]entity.SeriesPoint, error) {
	history, err := u.prices.FindSeries(ctx, commodity)
	if err != nil {
		return nil, fmt.Errorf("load series for %q: %w", commodity, err)
	}

	if u.model == nil || len(history) == 0 {
		return u.synthetic(ctx, commodity, history), nil
	}

	pts, err := u.model.Forecast(history)
	if err != nil {
		slog.Error("seasonal model failed, serving synthetic fallback",
			"commodity", commodity, "rows", len(history), "error", err)
		return u.synthetic(ctx, commodity, history), nil
	}
	return pts, nil
}

// synthetic builds the fallback series. Real history is kept when it exists;
// only with an empty series does the generator fabricate the history leg too.
func (u *ForecastUsecase) synthetic(ctx context.Context, commodity string, history []pricesentity.PriceObservation) []entity.SeriesPoint {
	if len(history) > 0 {
		return u.synth.WithHistory(history)
	}
	seed, err := u.prices.FindLatest(ctx, commodity)
	if err != nil {
		// Last-resort path must not fail; fall back to the default seed.
		slog.Warn("seed lookup failed, using default seed", "commodity", commodity, "error", err)
		seed = nil
	}
	return u.synth.FromSeed(seed)
}
