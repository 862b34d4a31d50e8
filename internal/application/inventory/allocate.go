package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/allocation"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// AllocateStockUseCase calcula planes de asignación FIFO sin mutar el ledger
// (dry-run) y resuelve consultas de lote más antiguo.
type AllocateStockUseCase struct {
	txRunner  TxRunner
	batchRepo repository.BatchRepository
	product   repository.ProductRepository
	location  repository.LocationRepository
}

// NewAllocateStockUseCase construye el caso de uso. batchRepo va atado al pool
// (solo lecturas puntuales); las lecturas de snapshot pasan por txRunner.
func NewAllocateStockUseCase(
	txRunner TxRunner,
	batchRepo repository.BatchRepository,
	product repository.ProductRepository,
	location repository.LocationRepository,
) *AllocateStockUseCase {
	return &AllocateStockUseCase{txRunner: txRunner, batchRepo: batchRepo, product: product, location: location}
}

// PlannedLine es una línea del plan enriquecida con los datos del lote que la
// respalda, para que el caller pueda auditar vencimiento y costo por unidad.
type PlannedLine struct {
	BatchID        string
	Quantity       decimal.Decimal
	ExpirationDate time.Time
	UnitCost       decimal.Decimal
}

// AllocationResult es el plan FIFO calculado sobre un snapshot consistente.
type AllocationResult struct {
	ProductID  string
	LocationID string
	Requested  decimal.Decimal
	Lines      []PlannedLine
}

// Allocate calcula el plan FIFO para (producto, ubicación, cantidad) sobre un
// snapshot consistente. Cómputo puro: ningún lote cambia. Con cantidad mayor
// al total disponible retorna ErrInsufficientStock.
func (uc *AllocateStockUseCase) Allocate(ctx context.Context, productID, locationID string, quantity decimal.Decimal) (*AllocationResult, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := checkPairRefs(uc.product, uc.location, productID, locationID); err != nil {
		return nil, err
	}

	var result *AllocationResult
	err := uc.txRunner.RunSnapshot(ctx, func(
		batchRepo repository.BatchRepository,
		_ repository.StockSummaryRepository,
	) error {
		batches, err := batchRepo.ListAvailable(productID, locationID)
		if err != nil {
			return err
		}
		plan, err := allocation.Build(productID, locationID, batches, quantity)
		if err != nil {
			return err
		}
		result = resultFromPlan(plan, batches)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OldestBatch devuelve el primer lote disponible en orden FIFO, o ErrNotFound
// si el par no tiene stock.
func (uc *AllocateStockUseCase) OldestBatch(ctx context.Context, productID, locationID string) (*entity.Batch, error) {
	if _, err := checkPairRefs(uc.product, uc.location, productID, locationID); err != nil {
		return nil, err
	}
	return uc.batchRepo.GetOldest(productID, locationID)
}

// resultFromPlan cruza las líneas del plan con el snapshot para exponer
// vencimiento y costo de cada lote asignado.
func resultFromPlan(plan *allocation.Plan, batches []*entity.Batch) *AllocationResult {
	byID := make(map[string]*entity.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}
	result := &AllocationResult{
		ProductID:  plan.ProductID,
		LocationID: plan.LocationID,
		Requested:  plan.Requested,
	}
	for _, line := range plan.Lines {
		pl := PlannedLine{BatchID: line.BatchID, Quantity: line.Quantity}
		if b, ok := byID[line.BatchID]; ok {
			pl.ExpirationDate = b.ExpirationDate
			pl.UnitCost = b.UnitCost
		}
		result.Lines = append(result.Lines, pl)
	}
	return result
}

// checkPairRefs valida que producto y ubicación existan y devuelve el producto
// leído, para que el caller no tenga que volver a consultarlo. Referencias
// desconocidas se reportan como ErrInvalidReference, sin reintento.
func checkPairRefs(products repository.ProductRepository, locations repository.LocationRepository, productID, locationID string) (*entity.Product, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrInvalidReference
	}
	location, err := locations.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrInvalidReference
	}
	return product, nil
}
