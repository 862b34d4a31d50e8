package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.StockSummaryRepository = (*StockSummaryRepo)(nil)

// StockSummaryRepo proyector del agregado stock_summary sobre PostgreSQL
// (usable con pool o tx; las mutaciones siempre llegan dentro de una tx).
type StockSummaryRepo struct {
	q Querier
}

// NewStockSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockSummaryRepository(q Querier) *StockSummaryRepo {
	return &StockSummaryRepo{q: q}
}

// Get obtiene el resumen del par, nil si aún no tiene fila.
func (r *StockSummaryRepo) Get(productID, locationID string) (*entity.StockSummary, error) {
	return r.get(productID, locationID, false)
}

// GetForUpdate obtiene el resumen bloqueando la fila (SELECT FOR UPDATE).
func (r *StockSummaryRepo) GetForUpdate(productID, locationID string) (*entity.StockSummary, error) {
	return r.get(productID, locationID, true)
}

func (r *StockSummaryRepo) get(productID, locationID string, forUpdate bool) (*entity.StockSummary, error) {
	query := `
		SELECT product_id, location_id, available_quantity, updated_at
		FROM stock_summary WHERE product_id = $1 AND location_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.StockSummary
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.AvailableQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock summary: %w", err)
	}
	return &s, nil
}

// Apply ajusta el agregado por delta, creando la fila si el par no existía.
func (r *StockSummaryRepo) Apply(productID, locationID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO stock_summary (product_id, location_id, available_quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET available_quantity = stock_summary.available_quantity + EXCLUDED.available_quantity,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, productID, locationID, delta)
	if err != nil {
		return fmt.Errorf("apply stock summary delta: %w", err)
	}
	return nil
}

// Set fija el agregado a un valor recalculado (reparación de descuadre).
func (r *StockSummaryRepo) Set(productID, locationID string, quantity decimal.Decimal) error {
	query := `
		INSERT INTO stock_summary (product_id, location_id, available_quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET available_quantity = EXCLUDED.available_quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, productID, locationID, quantity)
	if err != nil {
		return fmt.Errorf("set stock summary: %w", err)
	}
	return nil
}
