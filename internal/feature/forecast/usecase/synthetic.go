package usecase

import (
	"math"
	"math/rand/v2"
	"time"

	"agripivot_backend/internal/feature/forecast/domain/entity"
	pricesentity "agripivot_backend/internal/feature/prices/domain/entity"
)

const (
	// syntheticHistoryDays is the length of the generated history leg.
	syntheticHistoryDays = 30
	// forecastHorizonDays is the projection length shared with the seasonal model.
	forecastHorizonDays = 14
	// defaultSeedPrice stands in when the store has no observation at all.
	defaultSeedPrice = 2000.0
	// syntheticBandRatio is the single confidence band used on synthetic points.
	syntheticBandRatio = 0.05

	dateLayout = "2006-01-02"
)

// SyntheticForecaster produces a plausible-looking random-walk series when no
// fitted model is usable. It is the fallback of last resort: every input path
// has a defined substitute value and no method returns an error.
type SyntheticForecaster struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSyntheticForecaster creates a generator with a time-derived random source.
func NewSyntheticForecaster() *SyntheticForecaster {
	return &SyntheticForecaster{
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now: time.Now,
	}
}

// FromSeed generates a full synthetic series: 30 history points ending at the
// seed date followed by a 14-day forecast tail. A nil seed falls back to
// (today, defaultSeedPrice); an unparseable seed date falls back to today.
func (s *SyntheticForecaster) FromSeed(seed *pricesentity.PriceObservation) []entity.SeriesPoint {
	seedDate, seedPrice := s.resolveSeed(seed)

	out := make([]entity.SeriesPoint, 0, syntheticHistoryDays+forecastHorizonDays)

	// Random-walk history, one point per day ending at the seed date, whose
	// endpoint approximates the seed price. The unrounded walk value is
	// carried forward so rounding never compounds.
	walk := seedPrice
	for i := syntheticHistoryDays - 1; i >= 0; i-- {
		d := seedDate.AddDate(0, 0, -i)
		walk += s.uniform(-50, 50)
		out = append(out, entity.SeriesPoint{
			Date:  d.Format(dateLayout),
			Price: round2(walk),
			Type:  entity.TypeHistory,
		})
	}

	return append(out, s.tail(seedDate, walk)...)
}

// WithHistory echoes the real stored history unperturbed and synthesizes only
// the forecast tail from its last point. Used when the seasonal model fails or
// is disabled but real data exists, so callers still see true prices.
func (s *SyntheticForecaster) WithHistory(history []pricesentity.PriceObservation) []entity.SeriesPoint {
	if len(history) == 0 {
		return s.FromSeed(nil)
	}

	out := make([]entity.SeriesPoint, 0, len(history)+forecastHorizonDays)
	for _, obs := range history {
		out = append(out, entity.SeriesPoint{
			Date:  obs.Date,
			Price: obs.Price,
			Type:  entity.TypeHistory,
		})
	}

	last := history[len(history)-1]
	seedDate, _ := s.resolveSeed(&last)
	return append(out, s.tail(seedDate, last.Price)...)
}

// tail continues the walk for forecastHorizonDays starting the day after
// start. Steps are biased slightly upward; bounds are a fixed ±5% band.
func (s *SyntheticForecaster) tail(start time.Time, from float64) []entity.SeriesPoint {
	out := make([]entity.SeriesPoint, 0, forecastHorizonDays)
	walk := from
	for i := 1; i <= forecastHorizonDays; i++ {
		d := start.AddDate(0, 0, i)
		walk += s.uniform(-10, 60)
		out = append(out, entity.SeriesPoint{
			Date:       d.Format(dateLayout),
			Price:      round2(walk),
			Type:       entity.TypeForecast,
			YhatLower:  round2(walk * (1 - syntheticBandRatio)),
			YhatUpper:  round2(walk * (1 + syntheticBandRatio)),
			Confidence: entity.ConfidenceSimulated,
		})
	}
	return out
}

// resolveSeed derives the walk anchor from the latest observation.
// Missing observation and unparseable date both have fixed substitutes.
func (s *SyntheticForecaster) resolveSeed(seed *pricesentity.PriceObservation) (time.Time, float64) {
	today := s.now().Truncate(24 * time.Hour)
	if seed == nil {
		return today, defaultSeedPrice
	}
	d, err := time.Parse(dateLayout, seed.Date)
	if err != nil {
		d = today
	}
	return d, seed.Price
}

func (s *SyntheticForecaster) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
