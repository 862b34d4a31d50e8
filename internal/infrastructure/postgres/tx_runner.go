package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los fallos de serialización y deadlocks se traducen a ErrConcurrencyConflict.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	summaryRepo repository.StockSummaryRepository,
	transferRepo repository.TransferRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx), NewStockSummaryRepository(tx), NewTransferRepository(tx)); err != nil {
		return translateConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrency(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunReconciliation igual que Run pero con el repositorio de reportes de
// anomalía en lugar del de traslados (reparación de descuadres).
func (r *TxRunner) RunReconciliation(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	summaryRepo repository.StockSummaryRepository,
	reportRepo repository.ReconciliationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx), NewStockSummaryRepository(tx), NewReconciliationRepository(tx)); err != nil {
		return translateConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrency(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunSnapshot transacción de solo lectura en REPEATABLE READ: todas las filas
// leídas por fn pertenecen al mismo snapshot.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	summaryRepo repository.StockSummaryRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBatchRepository(tx), NewStockSummaryRepository(tx)); err != nil {
		return translateConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrency(fmt.Errorf("commit snapshot transaction: %w", err))
	}
	return nil
}
