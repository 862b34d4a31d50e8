package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `batch_id, product_id, location_id, quantity_received, quantity_available,
	expiration_date, entry_date, unit_cost, srp, source_batch_id, transfer_id, created_at, updated_at`

// Orden FIFO canónico; batch_id desempata para que el plan sea determinista.
const batchFIFOOrder = `ORDER BY expiration_date ASC, entry_date ASC, batch_id ASC`

// BatchRepo implementación del ledger de lotes sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo (recepción o destino de traslado).
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.LocationID, batch.QuantityReceived, batch.QuantityAvailable,
		batch.ExpirationDate, batch.EntryDate, batch.UnitCost, batch.SRP,
		nullable(batch.SourceBatchID), nullable(batch.TransferID), batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID, nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE batch_id = $1`
	batch, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return batch, nil
}

// ListAvailable snapshot de lotes disponibles del par en orden FIFO.
func (r *BatchRepo) ListAvailable(productID, locationID string) ([]*entity.Batch, error) {
	return r.listAvailable(productID, locationID, false)
}

// ListAvailableForUpdate igual que ListAvailable pero bloqueando las filas
// (SELECT FOR UPDATE): el snapshot y la mutación posterior ven el mismo estado.
func (r *BatchRepo) ListAvailableForUpdate(productID, locationID string) ([]*entity.Batch, error) {
	return r.listAvailable(productID, locationID, true)
}

func (r *BatchRepo) listAvailable(productID, locationID string, forUpdate bool) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND location_id = $2 AND quantity_available > 0
		` + batchFIFOOrder
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(context.Background(), query, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, batch)
	}
	return list, rows.Err()
}

// GetOldest devuelve el primer lote disponible en orden FIFO, o ErrNotFound.
func (r *BatchRepo) GetOldest(productID, locationID string) (*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND location_id = $2 AND quantity_available > 0
		` + batchFIFOOrder + `
		LIMIT 1`
	batch, err := scanBatch(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get oldest batch: %w", err)
	}
	return batch, nil
}

// ApplyDelta ajusta quantity_available con la guarda del invariante
// 0 <= quantity_available <= quantity_received en el propio UPDATE: si la
// guarda no matchea y el lote existe, la mutación es inválida.
func (r *BatchRepo) ApplyDelta(batchID string, delta decimal.Decimal) error {
	query := `
		UPDATE batches
		SET quantity_available = quantity_available + $2, updated_at = now()
		WHERE batch_id = $1
		  AND quantity_available + $2 >= 0
		  AND quantity_available + $2 <= quantity_received`
	tag, err := r.q.Exec(context.Background(), query, batchID, delta)
	if err != nil {
		return fmt.Errorf("apply batch delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(batchID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrInvalidReference
		}
		return domain.ErrInvalidState
	}
	return nil
}

// FindMergeableForUpdate busca y bloquea un lote destino compatible para el
// abono de un traslado: mismo par, mismo vencimiento y costo, no agotado.
// El más antiguo en orden FIFO si hay varios. Devuelve nil si no hay candidato.
func (r *BatchRepo) FindMergeableForUpdate(productID, locationID string, expiration time.Time, unitCost decimal.Decimal) (*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND location_id = $2
		  AND expiration_date = $3 AND unit_cost = $4
		  AND quantity_available > 0
		` + batchFIFOOrder + `
		LIMIT 1
		FOR UPDATE`
	batch, err := scanBatch(r.q.QueryRow(context.Background(), query, productID, locationID, expiration, unitCost))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find mergeable batch: %w", err)
	}
	return batch, nil
}

// MergeCredit abona cantidad a un lote existente: sube quantity_available y
// quantity_received a la vez, manteniendo el invariante available <= received.
func (r *BatchRepo) MergeCredit(batchID string, amount decimal.Decimal) error {
	if !amount.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	query := `
		UPDATE batches
		SET quantity_available = quantity_available + $2,
		    quantity_received  = quantity_received + $2,
		    updated_at = now()
		WHERE batch_id = $1`
	tag, err := r.q.Exec(context.Background(), query, batchID, amount)
	if err != nil {
		return fmt.Errorf("merge credit batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidReference
	}
	return nil
}

// SumAvailable recalcula la suma de disponibles del par directamente del ledger.
func (r *BatchRepo) SumAvailable(productID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_available), 0)
		FROM batches
		WHERE product_id = $1 AND location_id = $2`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum available: %w", err)
	}
	return sum, nil
}

// scanBatch lee un lote desde una fila (pgx.Row o pgx.Rows).
func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var sourceBatchID, transferID *string
	err := row.Scan(
		&b.ID, &b.ProductID, &b.LocationID, &b.QuantityReceived, &b.QuantityAvailable,
		&b.ExpirationDate, &b.EntryDate, &b.UnitCost, &b.SRP,
		&sourceBatchID, &transferID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sourceBatchID != nil {
		b.SourceBatchID = *sourceBatchID
	}
	if transferID != nil {
		b.TransferID = *transferID
	}
	return &b, nil
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
