package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationReport registra una anomalía detectada entre el resumen de stock
// y la suma recalculada de sus lotes. El descuadre nunca se corrige en silencio:
// reparar implica dejar constancia.
type ReconciliationReport struct {
	ID         string
	ProductID  string
	LocationID string
	Expected   decimal.Decimal // valor recalculado desde los lotes
	Actual     decimal.Decimal // valor que tenía el resumen
	Drift      decimal.Decimal // Actual - Expected
	Repaired   bool
	CreatedAt  time.Time
}
