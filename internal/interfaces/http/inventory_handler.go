package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// InventoryHandler maneja las peticiones HTTP del motor de inventario:
// asignación, recepción, consumo, traslados y reconciliación.
type InventoryHandler struct {
	allocate  *inventory.AllocateStockUseCase
	receive   *inventory.ReceiveStockUseCase
	consume   *inventory.ConsumeStockUseCase
	transfer  *inventory.ExecuteTransferUseCase
	reconcile *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	allocate *inventory.AllocateStockUseCase,
	receive *inventory.ReceiveStockUseCase,
	consume *inventory.ConsumeStockUseCase,
	transfer *inventory.ExecuteTransferUseCase,
	reconcile *inventory.ReconcileUseCase,
) *InventoryHandler {
	return &InventoryHandler{allocate: allocate, receive: receive, consume: consume, transfer: transfer, reconcile: reconcile}
}

// AllocateStock POST /api/inventory/allocations — calcula el plan FIFO sin mutar nada.
func (h *InventoryHandler) AllocateStock(c *fiber.Ctx) error {
	var in dto.AllocateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.allocate.Allocate(c.Context(), in.ProductID, in.LocationID, in.Quantity)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(planResponse(result))
}

// ExecuteTransfer POST /api/inventory/transfers — ejecuta el traslado completo.
func (h *InventoryHandler) ExecuteTransfer(c *fiber.Ctx) error {
	var in dto.ExecuteTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	transfer, err := h.transfer.Execute(c.Context(), inventory.TransferInput{
		ProductID:             in.ProductID,
		Quantity:              in.Quantity,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		EmployeeID:            in.EmployeeID,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		TransferID:            transfer.ID,
		Status:                transfer.Status,
		SourceLocationID:      transfer.SourceLocationID,
		DestinationLocationID: transfer.DestinationLocationID,
		Date:                  transfer.Date.Format(time.RFC3339),
	})
}

// ReceiveStock POST /api/inventory/receipts — registra la recepción inicial de un lote.
func (h *InventoryHandler) ReceiveStock(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	expiration, err := time.Parse(dateLayout, in.ExpirationDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiration_date debe ser YYYY-MM-DD"})
	}
	batch, err := h.receive.Receive(c.Context(), inventory.ReceiveInput{
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		Quantity:       in.Quantity,
		ExpirationDate: expiration,
		UnitCost:       in.UnitCost,
		SRP:            in.SRP,
		EmployeeID:     in.EmployeeID,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batchResponse(batch))
}

// ConsumeStock POST /api/inventory/consumptions — consume stock vía plan FIFO (ruta de venta).
func (h *InventoryHandler) ConsumeStock(c *fiber.Ctx) error {
	var in dto.ConsumeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.consume.Consume(c.Context(), inventory.ConsumeInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		EmployeeID: in.EmployeeID,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(planResponse(result))
}

// OldestBatch GET /api/inventory/batches/oldest?product_id=&location_id= — primer lote FIFO.
func (h *InventoryHandler) OldestBatch(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	locationID := c.Query("location_id")
	batch, err := h.allocate.OldestBatch(c.Context(), productID, locationID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(batchResponse(batch))
}

// Reconcile POST /api/inventory/reconciliations — valida y repara descuadres del par.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	report, err := h.reconcile.Reconcile(c.Context(), in.ProductID, in.LocationID)
	if err != nil && !errors.Is(err, domain.ErrDriftDetected) {
		return mapDomainError(c, err)
	}
	// DriftDetected tras reparación no es un fallo: el agregado ya quedó
	// corregido, pero el reporte llega con drift y repaired=true.
	return c.JSON(dto.DriftReportResponse{
		ProductID:  report.ProductID,
		LocationID: report.LocationID,
		Expected:   report.Expected,
		Actual:     report.Actual,
		Drift:      report.Drift,
		Repaired:   report.Repaired,
	})
}

func batchResponse(batch *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		BatchID:           batch.ID,
		ProductID:         batch.ProductID,
		LocationID:        batch.LocationID,
		QuantityReceived:  batch.QuantityReceived,
		QuantityAvailable: batch.QuantityAvailable,
		ExpirationDate:    batch.ExpirationDate.Format(dateLayout),
		EntryDate:         batch.EntryDate,
		UnitCost:          batch.UnitCost,
		SRP:               batch.SRP,
		SourceBatchID:     batch.SourceBatchID,
		TransferID:        batch.TransferID,
	}
}

func planResponse(result *inventory.AllocationResult) dto.AllocationPlanResponse {
	out := dto.AllocationPlanResponse{
		ProductID:  result.ProductID,
		LocationID: result.LocationID,
		Requested:  result.Requested,
	}
	for _, line := range result.Lines {
		out.Lines = append(out.Lines, dto.PlanLineDTO{
			BatchID:        line.BatchID,
			Quantity:       line.Quantity,
			ExpirationDate: line.ExpirationDate.Format(dateLayout),
			UnitCost:       line.UnitCost,
		})
	}
	return out
}
