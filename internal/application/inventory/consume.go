package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/allocation"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// ConsumeStockUseCase es la ruta de consumo por venta: arma el mismo plan FIFO
// que un traslado y lo aplica debitando lotes y resumen, sin crear lotes destino.
type ConsumeStockUseCase struct {
	txRunner   TxRunner
	product    repository.ProductRepository
	location   repository.LocationRepository
	employees  EmployeeDirectory
	maxRetries int
	log        *logger.Logger
}

// NewConsumeStockUseCase construye el caso de uso.
func NewConsumeStockUseCase(
	txRunner TxRunner,
	product repository.ProductRepository,
	location repository.LocationRepository,
	employees EmployeeDirectory,
	maxRetries int,
	log *logger.Logger,
) *ConsumeStockUseCase {
	return &ConsumeStockUseCase{
		txRunner:   txRunner,
		product:    product,
		location:   location,
		employees:  employees,
		maxRetries: maxRetries,
		log:        log,
	}
}

// ConsumeInput entrada para consumir stock de una ubicación.
type ConsumeInput struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	EmployeeID string
}

// Consume bloquea el snapshot FIFO (SELECT FOR UPDATE), arma el plan y debita
// cada lote y el resumen en una unidad atómica. Todo-o-nada: con stock
// insuficiente no muta nada. Ante conflicto de concurrencia reintenta la
// operación completa con un snapshot fresco.
func (uc *ConsumeStockUseCase) Consume(ctx context.Context, input ConsumeInput) (*AllocationResult, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := checkPairRefs(uc.product, uc.location, input.ProductID, input.LocationID); err != nil {
		return nil, err
	}
	if err := checkEmployee(ctx, uc.employees, input.EmployeeID); err != nil {
		return nil, err
	}

	var result *AllocationResult
	err := runWithRetry(ctx, uc.maxRetries, func() error {
		return uc.txRunner.Run(ctx, func(
			batchRepo repository.BatchRepository,
			summaryRepo repository.StockSummaryRepository,
			_ repository.TransferRepository,
		) error {
			batches, err := batchRepo.ListAvailableForUpdate(input.ProductID, input.LocationID)
			if err != nil {
				return err
			}
			plan, err := allocation.Build(input.ProductID, input.LocationID, batches, input.Quantity)
			if err != nil {
				return err
			}
			for _, line := range plan.Lines {
				if err := batchRepo.ApplyDelta(line.BatchID, line.Quantity.Neg()); err != nil {
					return err
				}
			}
			if err := summaryRepo.Apply(input.ProductID, input.LocationID, input.Quantity.Neg()); err != nil {
				return err
			}
			result = resultFromPlan(plan, batches)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", input.ProductID).
		Str("location_id", input.LocationID).
		Str("quantity", input.Quantity.String()).
		Int("batches", len(result.Lines)).
		Msg("consumo de stock aplicado")
	return result, nil
}
