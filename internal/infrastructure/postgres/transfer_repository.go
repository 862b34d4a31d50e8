package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste la cabecera de un traslado.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (transfer_id, source_location_id, destination_location_id, date, employee_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.SourceLocationID, transfer.DestinationLocationID,
		transfer.Date, transfer.EmployeeID, transfer.Status, transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID, nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `
		SELECT transfer_id, source_location_id, destination_location_id, date, employee_id, status, created_at, updated_at
		FROM transfers WHERE transfer_id = $1`
	var t entity.Transfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.SourceLocationID, &t.DestinationLocationID, &t.Date,
		&t.EmployeeID, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// UpdateStatus avanza el estado del traslado.
func (r *TransferRepo) UpdateStatus(id, status string) error {
	query := `UPDATE transfers SET status = $2, updated_at = now() WHERE transfer_id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidReference
	}
	return nil
}

// AddDetail agrega una fila de auditoría del traslado (append-only).
func (r *TransferRepo) AddDetail(detail *entity.TransferDetail) error {
	query := `
		INSERT INTO transfer_details (detail_id, transfer_id, product_id, source_batch_id, quantity, destination_batch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.TransferID, detail.ProductID, detail.SourceBatchID,
		detail.Quantity, detail.DestinationBatchID, detail.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer detail: %w", err)
	}
	return nil
}

// ListDetails lista el detalle de un traslado en orden de inserción.
func (r *TransferRepo) ListDetails(transferID string) ([]*entity.TransferDetail, error) {
	query := `
		SELECT detail_id, transfer_id, product_id, source_batch_id, quantity, destination_batch_id, created_at
		FROM transfer_details WHERE transfer_id = $1
		ORDER BY created_at ASC, detail_id ASC`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer details: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransferDetail
	for rows.Next() {
		var d entity.TransferDetail
		if err := rows.Scan(&d.ID, &d.TransferID, &d.ProductID, &d.SourceBatchID, &d.Quantity, &d.DestinationBatchID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
