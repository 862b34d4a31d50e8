package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.ReconciliationRepository = (*ReconciliationRepo)(nil)

// ReconciliationRepo persiste los reportes de anomalía de reconciliación
// (usable con pool o tx).
type ReconciliationRepo struct {
	q Querier
}

// NewReconciliationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReconciliationRepository(q Querier) *ReconciliationRepo {
	return &ReconciliationRepo{q: q}
}

// Create persiste un reporte de descuadre.
func (r *ReconciliationRepo) Create(report *entity.ReconciliationReport) error {
	query := `
		INSERT INTO reconciliation_reports (report_id, product_id, location_id, expected, actual, drift, repaired, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		report.ID, report.ProductID, report.LocationID,
		report.Expected, report.Actual, report.Drift, report.Repaired, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reconciliation report: %w", err)
	}
	return nil
}

// ListByPair lista los reportes de un par, más recientes primero.
func (r *ReconciliationRepo) ListByPair(productID, locationID string, limit, offset int) ([]*entity.ReconciliationReport, error) {
	query := `
		SELECT report_id, product_id, location_id, expected, actual, drift, repaired, created_at
		FROM reconciliation_reports
		WHERE product_id = $1 AND location_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, productID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reconciliation reports: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReconciliationReport
	for rows.Next() {
		var rep entity.ReconciliationReport
		if err := rows.Scan(&rep.ID, &rep.ProductID, &rep.LocationID, &rep.Expected, &rep.Actual, &rep.Drift, &rep.Repaired, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reconciliation report: %w", err)
		}
		list = append(list, &rep)
	}
	return list, rows.Err()
}
