package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	forecastusecase "agripivot_backend/internal/feature/forecast/usecase"
	ingestusecase "agripivot_backend/internal/feature/ingest/usecase"
	"agripivot_backend/internal/feature/prices/domain/entity"
)

type priceSQL struct {
	db *gorm.DB
}

var (
	_ forecastusecase.PriceReader = (*priceSQL)(nil)
	_ ingestusecase.PriceWriter   = (*priceSQL)(nil)
)

func NewPriceRepository(db *gorm.DB) *priceSQL {
	return &priceSQL{db: db}
}

// PriceModel is the persistence model for the historical_prices table.
// Date is TEXT so that rows with unparseable source dates survive ingestion;
// the serving path sorts on the column as-is.
type PriceModel struct {
	ID            uint    `gorm:"primaryKey"`
	Date          string  `gorm:"column:date;index:idx_date"`
	Mandi         string  `gorm:"column:mandi"`
	Commodity     string  `gorm:"column:commodity"`
	Price         float64 `gorm:"column:price"`
	TransportCost float64 `gorm:"column:transport_cost;default:0"`
}

func (PriceModel) TableName() string {
	return "historical_prices"
}

func toModel(e entity.PriceObservation) PriceModel {
	return PriceModel{
		Date:          e.Date,
		Mandi:         e.Market,
		Commodity:     e.Commodity,
		Price:         e.Price,
		TransportCost: e.TransportCost,
	}
}

func toEntity(m PriceModel) entity.PriceObservation {
	return entity.PriceObservation{
		Date:          m.Date,
		Market:        m.Mandi,
		Commodity:     m.Commodity,
		Price:         m.Price,
		TransportCost: m.TransportCost,
	}
}

// FindSeries returns all observations whose commodity contains the given
// fragment, ascending by date. An empty result is not an error.
func (r *priceSQL) FindSeries(ctx context.Context, commodity string) ([]entity.PriceObservation, error) {
	var rows []PriceModel
	err := r.db.WithContext(ctx).
		Where("commodity LIKE ?", "%"+commodity+"%").
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.PriceObservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// FindLatest returns the most recent observation for the commodity fragment,
// or nil when no row matches.
func (r *priceSQL) FindLatest(ctx context.Context, commodity string) (*entity.PriceObservation, error) {
	var m PriceModel
	err := r.db.WithContext(ctx).
		Where("commodity LIKE ?", "%"+commodity+"%").
		Order("date DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

// InsertBatch appends observations in one batch. Duplicate (date, mandi,
// commodity) rows are legal and retained; there is no upsert.
func (r *priceSQL) InsertBatch(ctx context.Context, obs []entity.PriceObservation) error {
	if len(obs) == 0 {
		return nil
	}
	ms := make([]PriceModel, 0, len(obs))
	for _, e := range obs {
		ms = append(ms, toModel(e))
	}
	return r.db.WithContext(ctx).Create(&ms).Error
}
