package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado. Máquina de estados:
// Initiated → Allocated → Committed, o Initiated → Failed (stock insuficiente
// detectado durante la asignación, antes de cualquier mutación del ledger).
// No existen otras transiciones: no hay estado parcial a mitad de commit.
const (
	TransferStatusInitiated = "initiated"
	TransferStatusAllocated = "allocated"
	TransferStatusCommitted = "committed"
	TransferStatusFailed    = "failed"
)

// Transfer representa un traslado de cantidad entre dos ubicaciones.
type Transfer struct {
	ID                    string
	SourceLocationID      string
	DestinationLocationID string
	Date                  time.Time
	EmployeeID            string
	Status                string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TransferDetail es el registro de auditoría por par (lote origen, cantidad):
// qué lote aportó cada unidad y qué lote destino la recibió. Append-only.
type TransferDetail struct {
	ID                 string
	TransferID         string
	ProductID          string
	SourceBatchID      string
	Quantity           decimal.Decimal
	DestinationBatchID string
	CreatedAt          time.Time
}
