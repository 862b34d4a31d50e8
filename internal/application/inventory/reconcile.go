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

// ReconcileUseCase detecta y repara descuadres entre el resumen de stock y la
// suma real de sus lotes. La validación es solo lectura sobre un snapshot
// consistente; la reparación fija el agregado al valor recalculado y deja
// constancia de la anomalía, nunca adivina qué lote estaba mal.
type ReconcileUseCase struct {
	txRunner TxRunner
	product  repository.ProductRepository
	location repository.LocationRepository
	log      *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(
	txRunner TxRunner,
	product repository.ProductRepository,
	location repository.LocationRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner, product: product, location: location, log: log}
}

// Validate calcula drift = resumen − recomputado bajo un mismo snapshot.
// Puro: no muta nada, puede correr concurrente con mutaciones.
func (uc *ReconcileUseCase) Validate(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	if _, err := checkPairRefs(uc.product, uc.location, productID, locationID); err != nil {
		return decimal.Zero, err
	}
	var drift decimal.Decimal
	err := uc.txRunner.RunSnapshot(ctx, func(
		batchRepo repository.BatchRepository,
		summaryRepo repository.StockSummaryRepository,
	) error {
		summary, err := summaryRepo.Get(productID, locationID)
		if err != nil {
			return err
		}
		actual := decimal.Zero
		if summary != nil {
			actual = summary.AvailableQuantity
		}
		expected, err := batchRepo.SumAvailable(productID, locationID)
		if err != nil {
			return err
		}
		drift = actual.Sub(expected)
		return nil
	})
	return drift, err
}

// Reconcile valida el par y, si hay descuadre, lo repara: bloquea la fila del
// resumen, recalcula bajo el candado, fija el agregado y registra el reporte
// de anomalía antes de devolverlo. Un descuadre reparado se devuelve junto con
// ErrDriftDetected: el sistema se autocorrigió, pero el caller debe saberlo.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, productID, locationID string) (*entity.ReconciliationReport, error) {
	drift, err := uc.Validate(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if drift.IsZero() {
		return &entity.ReconciliationReport{
			ID:         uuid.New().String(),
			ProductID:  productID,
			LocationID: locationID,
			Drift:      decimal.Zero,
			CreatedAt:  time.Now(),
		}, nil
	}

	var report *entity.ReconciliationReport
	err = uc.txRunner.RunReconciliation(ctx, func(
		batchRepo repository.BatchRepository,
		summaryRepo repository.StockSummaryRepository,
		reportRepo repository.ReconciliationRepository,
	) error {
		// Recalcular bajo el candado: el drift observado sin bloqueo pudo
		// haber sido corregido por una mutación intermedia.
		summary, err := summaryRepo.GetForUpdate(productID, locationID)
		if err != nil {
			return err
		}
		actual := decimal.Zero
		if summary != nil {
			actual = summary.AvailableQuantity
		}
		expected, err := batchRepo.SumAvailable(productID, locationID)
		if err != nil {
			return err
		}
		locked := actual.Sub(expected)
		report = &entity.ReconciliationReport{
			ID:         uuid.New().String(),
			ProductID:  productID,
			LocationID: locationID,
			Expected:   expected,
			Actual:     actual,
			Drift:      locked,
			CreatedAt:  time.Now(),
		}
		if locked.IsZero() {
			return nil
		}
		report.Repaired = true
		if err := reportRepo.Create(report); err != nil {
			return err
		}
		return summaryRepo.Set(productID, locationID, expected)
	})
	if err != nil {
		return nil, err
	}
	if !report.Repaired {
		return report, nil
	}

	uc.log.Warn().
		Str("product_id", productID).
		Str("location_id", locationID).
		Str("expected", report.Expected.String()).
		Str("actual", report.Actual.String()).
		Str("drift", report.Drift.String()).
		Msg("descuadre de resumen de stock reparado")
	return report, domain.ErrDriftDetected
}
