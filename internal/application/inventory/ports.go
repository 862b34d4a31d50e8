package inventory

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del motor: ninguna
// mutación de lotes, resumen o detalle es observable si la unidad no commitea.
type TxRunner interface {
	// Run unidad mutadora estándar (asignar, consumir, trasladar).
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		summaryRepo repository.StockSummaryRepository,
		transferRepo repository.TransferRepository,
	) error) error

	// RunReconciliation unidad de reparación: lotes + resumen + reportes de anomalía.
	RunReconciliation(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		summaryRepo repository.StockSummaryRepository,
		reportRepo repository.ReconciliationRepository,
	) error) error

	// RunSnapshot lectura consistente (REPEATABLE READ, read-only): todas las
	// filas leídas pertenecen al mismo snapshot, sin falsos positivos de drift.
	RunSnapshot(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		summaryRepo repository.StockSummaryRepository,
	) error) error
}

// EmployeeDirectory es la capacidad externa de identidad de empleados,
// usada solo para validar la atribución de operaciones.
type EmployeeDirectory interface {
	Exists(ctx context.Context, employeeID string) (bool, error)
}
