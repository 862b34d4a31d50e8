package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote discreto de stock: una recepción fechada de un producto
// en una ubicación, con su propia fecha de vencimiento y costo unitario.
// QuantityReceived es inmutable una vez creado el lote; QuantityAvailable solo baja
// por asignación/consumo y solo sube por abono de un traslado compatible (merge).
// Un lote agotado nunca se borra: queda en 0 para auditoría.
type Batch struct {
	ID                string
	ProductID         string
	LocationID        string
	QuantityReceived  decimal.Decimal
	QuantityAvailable decimal.Decimal
	ExpirationDate    time.Time
	EntryDate         time.Time
	UnitCost          decimal.Decimal
	SRP               decimal.Decimal
	SourceBatchID     string // lote origen si fue creado por traslado; solo informativo
	TransferID        string // traslado que lo creó, vacío en recepciones directas
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasStock indica si el lote tiene cantidad disponible.
func (b *Batch) HasStock() bool {
	return b.QuantityAvailable.GreaterThan(decimal.Zero)
}

// IsExpired indica si el lote está vencido respecto a ref.
func (b *Batch) IsExpired(ref time.Time) bool {
	return b.ExpirationDate.Before(ref)
}

// Before define el orden FIFO canónico entre lotes de un mismo (producto, ubicación):
// vencimiento ascendente, luego fecha de entrada, luego ID como desempate total.
func (b *Batch) Before(other *Batch) bool {
	if !b.ExpirationDate.Equal(other.ExpirationDate) {
		return b.ExpirationDate.Before(other.ExpirationDate)
	}
	if !b.EntryDate.Equal(other.EntryDate) {
		return b.EntryDate.Before(other.EntryDate)
	}
	return b.ID < other.ID
}

// Mergeable indica si un abono de traslado puede acreditarse sobre este lote:
// misma fecha de vencimiento y mismo costo unitario (el traslado nunca altera
// vida útil ni base de costo).
func (b *Batch) Mergeable(expiration time.Time, unitCost decimal.Decimal) bool {
	return b.ExpirationDate.Equal(expiration) && b.UnitCost.Equal(unitCost)
}
