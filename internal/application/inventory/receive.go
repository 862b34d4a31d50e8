package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// ReceiveStockUseCase registra la recepción inicial de stock: crea el lote
// (quantity_received = quantity_available) y proyecta el resumen en la misma
// transacción.
type ReceiveStockUseCase struct {
	txRunner  TxRunner
	product   repository.ProductRepository
	location  repository.LocationRepository
	employees EmployeeDirectory
	log       *logger.Logger
}

// NewReceiveStockUseCase construye el caso de uso.
func NewReceiveStockUseCase(
	txRunner TxRunner,
	product repository.ProductRepository,
	location repository.LocationRepository,
	employees EmployeeDirectory,
	log *logger.Logger,
) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{txRunner: txRunner, product: product, location: location, employees: employees, log: log}
}

// ReceiveInput entrada para registrar una recepción de stock.
type ReceiveInput struct {
	ProductID      string
	LocationID     string
	Quantity       decimal.Decimal
	ExpirationDate time.Time
	UnitCost       decimal.Decimal
	SRP            decimal.Decimal
	EmployeeID     string
}

// Receive valida referencias, crea el lote y suma al resumen, todo en una
// unidad atómica. Devuelve el lote creado.
func (uc *ReceiveStockUseCase) Receive(ctx context.Context, input ReceiveInput) (*entity.Batch, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) || input.UnitCost.LessThan(decimal.Zero) || input.ExpirationDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	product, err := checkPairRefs(uc.product, uc.location, input.ProductID, input.LocationID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, domain.ErrInvalidState
	}
	if err := checkEmployee(ctx, uc.employees, input.EmployeeID); err != nil {
		return nil, err
	}

	now := time.Now()
	batch := &entity.Batch{
		ID:                uuid.New().String(),
		ProductID:         input.ProductID,
		LocationID:        input.LocationID,
		QuantityReceived:  input.Quantity,
		QuantityAvailable: input.Quantity,
		ExpirationDate:    input.ExpirationDate,
		EntryDate:         now,
		UnitCost:          input.UnitCost,
		SRP:               input.SRP,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		summaryRepo repository.StockSummaryRepository,
		_ repository.TransferRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		return summaryRepo.Apply(input.ProductID, input.LocationID, input.Quantity)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("batch_id", batch.ID).
		Str("product_id", input.ProductID).
		Str("location_id", input.LocationID).
		Str("quantity", input.Quantity.String()).
		Msg("recepción de stock registrada")
	return batch, nil
}

// checkEmployee valida la atribución contra el directorio de empleados.
func checkEmployee(ctx context.Context, employees EmployeeDirectory, employeeID string) error {
	if employeeID == "" {
		return domain.ErrInvalidInput
	}
	ok, err := employees.Exists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidReference
	}
	return nil
}
