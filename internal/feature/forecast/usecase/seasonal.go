package usecase

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"agripivot_backend/internal/feature/forecast/domain/entity"
	pricesentity "agripivot_backend/internal/feature/prices/domain/entity"
)

const (
	// minFitRows is the smallest history the regression will accept.
	minFitRows = 10
	// confidenceZ is the normal quantile for the ~95% band around projections.
	confidenceZ = 1.96
)

// SeasonalConfig tunes the additive seasonal regression.
type SeasonalConfig struct {
	Horizon               int     // days to project past the last observation
	FourierOrder          int     // yearly seasonality harmonics
	Changepoints          int     // trend changepoints over the first 80% of history
	ChangepointPriorScale float64 // trend flexibility; larger means bendier trends
}

// DefaultSeasonalConfig mirrors the production tuning: two-week horizon,
// yearly seasonality, flexible trend.
func DefaultSeasonalConfig() SeasonalConfig {
	return SeasonalConfig{
		Horizon:               forecastHorizonDays,
		FourierOrder:          3,
		Changepoints:          25,
		ChangepointPriorScale: 0.5,
	}
}

// SeasonalForecaster fits an additive regression (piecewise-linear trend +
// yearly Fourier seasonality + national holiday indicator) to the stored
// history and projects it forward. Fit and predict errors are returned to the
// caller; the orchestrator downgrades them to a synthetic result.
type SeasonalForecaster struct {
	cfg SeasonalConfig
}

func NewSeasonalForecaster() *SeasonalForecaster {
	return &SeasonalForecaster{cfg: DefaultSeasonalConfig()}
}

func NewSeasonalForecasterWithConfig(cfg SeasonalConfig) *SeasonalForecaster {
	if cfg.Horizon <= 0 {
		cfg.Horizon = forecastHorizonDays
	}
	if cfg.FourierOrder <= 0 {
		cfg.FourierOrder = 3
	}
	if cfg.ChangepointPriorScale <= 0 {
		cfg.ChangepointPriorScale = 0.5
	}
	return &SeasonalForecaster{cfg: cfg}
}

// Forecast echoes the history as-is and appends Horizon projected points with
// model confidence bounds, starting the day after the last parseable date.
func (f *SeasonalForecaster) Forecast(history []pricesentity.PriceObservation) ([]entity.SeriesPoint, error) {
	dates, prices := parseableObservations(history)
	if len(dates) < minFitRows {
		return nil, fmt.Errorf("seasonal fit: %d usable rows, need at least %d", len(dates), minFitRows)
	}

	origin := dates[0]
	ts := make([]float64, len(dates))
	for i, d := range dates {
		ts[i] = d.Sub(origin).Hours() / 24
	}

	model, err := f.fit(ts, prices, dates)
	if err != nil {
		return nil, err
	}

	out := make([]entity.SeriesPoint, 0, len(history)+f.cfg.Horizon)
	for _, obs := range history {
		out = append(out, entity.SeriesPoint{
			Date:  obs.Date,
			Price: obs.Price,
			Type:  entity.TypeHistory,
		})
	}

	last := dates[len(dates)-1]
	for i := 1; i <= f.cfg.Horizon; i++ {
		d := last.AddDate(0, 0, i)
		t := d.Sub(origin).Hours() / 24
		yhat := model.predict(t, d)
		out = append(out, entity.SeriesPoint{
			Date:       d.Format(dateLayout),
			Price:      round2(yhat),
			Type:       entity.TypeForecast,
			YhatLower:  round2(yhat - confidenceZ*model.sigma),
			YhatUpper:  round2(yhat + confidenceZ*model.sigma),
			Confidence: entity.ConfidenceHigh,
		})
	}
	return out, nil
}

// parseableObservations keeps rows whose date parses; raw-date rows still
// appear in the echoed history but cannot participate in the fit.
func parseableObservations(history []pricesentity.PriceObservation) ([]time.Time, []float64) {
	dates := make([]time.Time, 0, len(history))
	prices := make([]float64, 0, len(history))
	for _, obs := range history {
		d, err := time.Parse(dateLayout, obs.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
		prices = append(prices, obs.Price)
	}
	return dates, prices
}

// fittedModel holds the regression coefficients and residual spread.
type fittedModel struct {
	cfg          SeasonalConfig
	beta         []float64
	changepoints []float64
	sigma        float64
}

// fit solves the ridge-regularized least squares system via QR. The trend
// changepoint deltas carry a penalty of 1/ChangepointPriorScale, so a larger
// scale lets the trend bend more freely.
func (f *SeasonalForecaster) fit(ts, prices []float64, dates []time.Time) (*fittedModel, error) {
	n := len(ts)

	cps := changepointGrid(ts, f.cfg.Changepoints)
	cols := 2 + len(cps) + 2*f.cfg.FourierOrder + 1
	ridge := math.Sqrt(1 / f.cfg.ChangepointPriorScale)

	rows := n + len(cps)
	x := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)

	for i := 0; i < n; i++ {
		x.SetRow(i, featureRow(ts[i], dates[i], cps, f.cfg.FourierOrder))
		y.Set(i, 0, prices[i])
	}
	// Penalty rows: pull each changepoint delta toward zero.
	for j := range cps {
		x.Set(n+j, 2+j, ridge)
	}

	var qr mat.QR
	qr.Factorize(x)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, y); err != nil {
		return nil, fmt.Errorf("seasonal fit: %w", err)
	}

	beta := make([]float64, cols)
	for c := range beta {
		beta[c] = sol.At(c, 0)
	}

	m := &fittedModel{cfg: f.cfg, beta: beta, changepoints: cps}

	var sse float64
	for i := 0; i < n; i++ {
		r := prices[i] - m.predict(ts[i], dates[i])
		sse += r * r
	}
	m.sigma = math.Sqrt(sse / float64(n-1))
	if math.IsNaN(m.sigma) || math.IsInf(m.sigma, 0) {
		return nil, fmt.Errorf("seasonal fit: residual variance did not converge")
	}
	return m, nil
}

func (m *fittedModel) predict(t float64, d time.Time) float64 {
	row := featureRow(t, d, m.changepoints, m.cfg.FourierOrder)
	var yhat float64
	for c, v := range row {
		yhat += m.beta[c] * v
	}
	return yhat
}

// featureRow builds one design-matrix row: intercept, linear trend, hinge
// terms per changepoint, yearly Fourier pairs, holiday indicator.
func featureRow(t float64, d time.Time, cps []float64, order int) []float64 {
	row := make([]float64, 0, 2+len(cps)+2*order+1)
	row = append(row, 1, t)
	for _, c := range cps {
		row = append(row, math.Max(0, t-c))
	}
	for k := 1; k <= order; k++ {
		phase := 2 * math.Pi * float64(k) * float64(d.YearDay()) / 365.25
		row = append(row, math.Sin(phase), math.Cos(phase))
	}
	if isNationalHoliday(d) {
		row = append(row, 1)
	} else {
		row = append(row, 0)
	}
	return row
}

// changepointGrid places candidate trend changepoints evenly over the first
// 80% of the observed range, capped so short histories stay identifiable.
func changepointGrid(ts []float64, want int) []float64 {
	if want <= 0 {
		return nil
	}
	if limit := len(ts) / 4; want > limit {
		want = limit
	}
	if want <= 0 {
		return nil
	}
	span := ts[len(ts)-1] * 0.8
	cps := make([]float64, 0, want)
	for j := 1; j <= want; j++ {
		cps = append(cps, span*float64(j)/float64(want+1))
	}
	return cps
}

// isNationalHoliday reports the fixed-date Indian national holidays. Mandi
// arrivals collapse on these days, which shows up in prices.
func isNationalHoliday(d time.Time) bool {
	switch {
	case d.Month() == time.January && d.Day() == 26: // Republic Day
		return true
	case d.Month() == time.August && d.Day() == 15: // Independence Day
		return true
	case d.Month() == time.October && d.Day() == 2: // Gandhi Jayanti
		return true
	}
	return false
}
