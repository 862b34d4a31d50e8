package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// BatchRepository es el puerto del ledger de lotes: lectura y mutación de los
// lotes por (producto, ubicación). Las listas devuelven snapshots finitos en el
// orden FIFO canónico (vencimiento ASC, entrada ASC, id ASC); la variante
// ForUpdate bloquea las filas (SELECT FOR UPDATE) para que el snapshot y la
// mutación posterior ocurran sobre el mismo estado.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)

	// ListAvailable devuelve los lotes con cantidad disponible > 0 en orden FIFO.
	ListAvailable(productID, locationID string) ([]*entity.Batch, error)
	// ListAvailableForUpdate igual que ListAvailable pero bloqueando las filas.
	ListAvailableForUpdate(productID, locationID string) ([]*entity.Batch, error)

	// GetOldest devuelve el primer lote disponible en orden FIFO, o ErrNotFound.
	GetOldest(productID, locationID string) (*entity.Batch, error)

	// ApplyDelta ajusta quantity_available. Falla con ErrInvalidState si el
	// resultado quedaría fuera de [0, quantity_received].
	ApplyDelta(batchID string, delta decimal.Decimal) error

	// FindMergeableForUpdate busca (y bloquea) un lote destino compatible para
	// abonar un traslado: mismo producto/ubicación, mismo vencimiento y costo.
	// Devuelve nil si no hay candidato.
	FindMergeableForUpdate(productID, locationID string, expiration time.Time, unitCost decimal.Decimal) (*entity.Batch, error)

	// MergeCredit abona cantidad a un lote existente subiendo a la vez
	// quantity_available y quantity_received (única excepción a la monotonía).
	MergeCredit(batchID string, amount decimal.Decimal) error

	// SumAvailable recalcula la suma de disponibles del par, base del proyector
	// y de la reconciliación.
	SumAvailable(productID, locationID string) (decimal.Decimal, error)
}
