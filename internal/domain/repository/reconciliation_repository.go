package repository

import "github.com/jhoicas/bodega-api/internal/domain/entity"

// ReconciliationRepository persiste las anomalías de reconciliación.
type ReconciliationRepository interface {
	Create(report *entity.ReconciliationReport) error
	ListByPair(productID, locationID string, limit, offset int) ([]*entity.ReconciliationReport, error)
}
