package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/allocation"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// ExecuteTransferUseCase orquesta el traslado de una cantidad asignada entre
// ubicaciones: debita los lotes origen según el plan FIFO, acredita o crea
// lotes destino preservando vencimiento y costo, proyecta ambos resúmenes y
// deja el detalle de auditoría, todo en una unidad atómica.
type ExecuteTransferUseCase struct {
	txRunner   TxRunner
	transfers  repository.TransferRepository // atado al pool: cabecera y marca Failed viven fuera de la unidad abortada
	product    repository.ProductRepository
	location   repository.LocationRepository
	employees  EmployeeDirectory
	maxRetries int
	log        *logger.Logger
}

// NewExecuteTransferUseCase construye el caso de uso.
func NewExecuteTransferUseCase(
	txRunner TxRunner,
	transfers repository.TransferRepository,
	product repository.ProductRepository,
	location repository.LocationRepository,
	employees EmployeeDirectory,
	maxRetries int,
	log *logger.Logger,
) *ExecuteTransferUseCase {
	return &ExecuteTransferUseCase{
		txRunner:   txRunner,
		transfers:  transfers,
		product:    product,
		location:   location,
		employees:  employees,
		maxRetries: maxRetries,
		log:        log,
	}
}

// TransferInput entrada para ejecutar un traslado.
type TransferInput struct {
	ProductID             string
	Quantity              decimal.Decimal
	SourceLocationID      string
	DestinationLocationID string
	EmployeeID            string
}

// Execute ejecuta el traslado completo. Máquina de estados:
// Initiated → Allocated → Committed, o Initiated → Failed si la asignación
// encuentra stock insuficiente (sin ninguna mutación del ledger). Ante
// conflicto de concurrencia se reintenta la unidad entera con snapshot fresco.
func (uc *ExecuteTransferUseCase) Execute(ctx context.Context, input TransferInput) (*entity.Transfer, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) || input.SourceLocationID == input.DestinationLocationID {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.product.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrInvalidReference
	}
	if !product.IsActive() {
		return nil, domain.ErrInvalidState
	}
	for _, locID := range []string{input.SourceLocationID, input.DestinationLocationID} {
		loc, err := uc.location.GetByID(locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrInvalidReference
		}
	}
	if err := checkEmployee(ctx, uc.employees, input.EmployeeID); err != nil {
		return nil, err
	}

	// La cabecera se crea en su propia transacción corta: un traslado fallido
	// debe quedar registrado aunque la unidad mutadora haga rollback.
	now := time.Now()
	transfer := &entity.Transfer{
		ID:                    uuid.New().String(),
		SourceLocationID:      input.SourceLocationID,
		DestinationLocationID: input.DestinationLocationID,
		Date:                  now,
		EmployeeID:            input.EmployeeID,
		Status:                entity.TransferStatusInitiated,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.transfers.Create(transfer); err != nil {
		return nil, err
	}

	err = runWithRetry(ctx, uc.maxRetries, func() error {
		return uc.txRunner.Run(ctx, func(
			batchRepo repository.BatchRepository,
			summaryRepo repository.StockSummaryRepository,
			transferRepo repository.TransferRepository,
		) error {
			return uc.applyTransfer(batchRepo, summaryRepo, transferRepo, transfer, input)
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			transfer.Status = entity.TransferStatusFailed
			if markErr := uc.transfers.UpdateStatus(transfer.ID, entity.TransferStatusFailed); markErr != nil {
				uc.log.Error().Err(markErr).Str("transfer_id", transfer.ID).Msg("marcar traslado fallido")
			}
			uc.log.Warn().
				Str("transfer_id", transfer.ID).
				Str("product_id", input.ProductID).
				Str("source", input.SourceLocationID).
				Str("quantity", input.Quantity.String()).
				Msg("traslado rechazado por stock insuficiente")
		}
		return transfer, err
	}

	transfer.Status = entity.TransferStatusCommitted
	uc.log.Info().
		Str("transfer_id", transfer.ID).
		Str("product_id", input.ProductID).
		Str("source", input.SourceLocationID).
		Str("destination", input.DestinationLocationID).
		Str("quantity", input.Quantity.String()).
		Msg("traslado confirmado")
	return transfer, nil
}

// applyTransfer es la unidad atómica: snapshot bloqueado → plan → débito origen,
// abono/creación destino, detalle, resúmenes y Committed. Cualquier error
// aborta la transacción completa.
func (uc *ExecuteTransferUseCase) applyTransfer(
	batchRepo repository.BatchRepository,
	summaryRepo repository.StockSummaryRepository,
	transferRepo repository.TransferRepository,
	transfer *entity.Transfer,
	input TransferInput,
) error {
	batches, err := batchRepo.ListAvailableForUpdate(input.ProductID, input.SourceLocationID)
	if err != nil {
		return err
	}
	plan, err := allocation.Build(input.ProductID, input.SourceLocationID, batches, input.Quantity)
	if err != nil {
		return err
	}
	if err := transferRepo.UpdateStatus(transfer.ID, entity.TransferStatusAllocated); err != nil {
		return err
	}

	byID := make(map[string]*entity.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}

	now := time.Now()
	for _, line := range plan.Lines {
		source, ok := byID[line.BatchID]
		if !ok {
			return domain.ErrInvalidReference
		}
		if err := batchRepo.ApplyDelta(source.ID, line.Quantity.Neg()); err != nil {
			return err
		}

		// Abonar sobre un lote destino compatible (mismo vencimiento y costo)
		// acota el número de filas de lote en destino; si no hay candidato se
		// crea un lote nuevo con el linaje del origen.
		destinationID := ""
		mergeable, err := batchRepo.FindMergeableForUpdate(input.ProductID, input.DestinationLocationID, source.ExpirationDate, source.UnitCost)
		if err != nil {
			return err
		}
		if mergeable != nil {
			if err := batchRepo.MergeCredit(mergeable.ID, line.Quantity); err != nil {
				return err
			}
			destinationID = mergeable.ID
		} else {
			destination := &entity.Batch{
				ID:                uuid.New().String(),
				ProductID:         input.ProductID,
				LocationID:        input.DestinationLocationID,
				QuantityReceived:  line.Quantity,
				QuantityAvailable: line.Quantity,
				ExpirationDate:    source.ExpirationDate,
				EntryDate:         now,
				UnitCost:          source.UnitCost,
				SRP:               source.SRP,
				SourceBatchID:     source.ID,
				TransferID:        transfer.ID,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := batchRepo.Create(destination); err != nil {
				return err
			}
			destinationID = destination.ID
		}

		detail := &entity.TransferDetail{
			ID:                 uuid.New().String(),
			TransferID:         transfer.ID,
			ProductID:          input.ProductID,
			SourceBatchID:      source.ID,
			Quantity:           line.Quantity,
			DestinationBatchID: destinationID,
			CreatedAt:          now,
		}
		if err := transferRepo.AddDetail(detail); err != nil {
			return err
		}
	}

	if err := summaryRepo.Apply(input.ProductID, input.SourceLocationID, input.Quantity.Neg()); err != nil {
		return err
	}
	if err := summaryRepo.Apply(input.ProductID, input.DestinationLocationID, input.Quantity); err != nil {
		return err
	}
	return transferRepo.UpdateStatus(transfer.ID, entity.TransferStatusCommitted)
}
