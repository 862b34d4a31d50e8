package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

// Product representa un producto o SKU del inventario.
// La cantidad agregada por ubicación vive en StockSummary y es derivada de los
// lotes, nunca autoritativa; aquí solo hay metadatos descriptivos.
// CategoryID es una referencia opaca: el nombre se resuelve vía CategoryRepository,
// jamás se duplica texto de categoría en la lógica de asignación.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	CategoryID  string // vacío si no tiene categoría asignada
	Price       decimal.Decimal
	Status      string // active, archived
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el producto admite operaciones de stock.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
