package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocateStockRequest body para POST /api/inventory/allocations.
type AllocateStockRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// PlanLineDTO una línea del plan de asignación: qué lote aporta cuánto.
type PlanLineDTO struct {
	BatchID        string          `json:"batch_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate string          `json:"expiration_date"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
}

// AllocationPlanResponse plan FIFO calculado, en orden de consumo.
type AllocationPlanResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Requested  decimal.Decimal `json:"requested"`
	Lines      []PlanLineDTO   `json:"lines"`
}

// ExecuteTransferRequest body para POST /api/inventory/transfers.
type ExecuteTransferRequest struct {
	ProductID             string          `json:"product_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      string          `json:"source_location_id"`
	DestinationLocationID string          `json:"destination_location_id"`
	EmployeeID            string          `json:"employee_id"`
}

// TransferResponse resultado de un traslado.
type TransferResponse struct {
	TransferID            string `json:"transfer_id"`
	Status                string `json:"status"`
	SourceLocationID      string `json:"source_location_id"`
	DestinationLocationID string `json:"destination_location_id"`
	Date                  string `json:"date"`
}

// ReceiveStockRequest body para POST /api/inventory/receipts.
// ExpirationDate en formato YYYY-MM-DD.
type ReceiveStockRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate string          `json:"expiration_date"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	SRP            decimal.Decimal `json:"srp"`
	EmployeeID     string          `json:"employee_id"`
}

// ConsumeStockRequest body para POST /api/inventory/consumptions.
type ConsumeStockRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	EmployeeID string          `json:"employee_id"`
}

// ReconcileRequest body para POST /api/inventory/reconciliations.
type ReconcileRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
}

// DriftReportResponse resultado de una reconciliación.
type DriftReportResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Drift      decimal.Decimal `json:"drift"`
	Repaired   bool            `json:"repaired"`
}

// BatchResponse representación de un lote para la API.
type BatchResponse struct {
	BatchID           string          `json:"batch_id"`
	ProductID         string          `json:"product_id"`
	LocationID        string          `json:"location_id"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	ExpirationDate    string          `json:"expiration_date"`
	EntryDate         time.Time       `json:"entry_date"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	SRP               decimal.Decimal `json:"srp"`
	SourceBatchID     string          `json:"source_batch_id,omitempty"`
	TransferID        string          `json:"transfer_id,omitempty"`
}
