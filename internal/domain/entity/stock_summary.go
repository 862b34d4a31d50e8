package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary es el agregado desnormalizado por (producto, ubicación).
// Invariante: AvailableQuantity == sum(QuantityAvailable de los lotes del par).
// Solo se ajusta dentro de la misma transacción que mutó los lotes; una
// divergencia observable fuera de una transacción es un descuadre (drift).
type StockSummary struct {
	ProductID         string
	LocationID        string
	AvailableQuantity decimal.Decimal
	UpdatedAt         time.Time
}
