package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// StockSummaryRepository es el puerto del proyector de resumen de stock.
// Apply y Set solo se invocan dentro de la transacción del caller: el agregado
// jamás se commitea por separado de los lotes que lo respaldan.
type StockSummaryRepository interface {
	Get(productID, locationID string) (*entity.StockSummary, error)
	// GetForUpdate bloquea la fila del resumen (SELECT FOR UPDATE).
	GetForUpdate(productID, locationID string) (*entity.StockSummary, error)
	// Apply ajusta el agregado por delta (upsert si el par aún no tiene fila).
	Apply(productID, locationID string, delta decimal.Decimal) error
	// Set fija el agregado a un valor recalculado (solo reparación).
	Set(productID, locationID string, quantity decimal.Decimal) error
}
