package repository

import "github.com/jhoicas/bodega-api/internal/domain/entity"

// TransferRepository define el puerto de persistencia para traslados y su detalle.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	UpdateStatus(id, status string) error
	// AddDetail agrega una fila de auditoría (lote origen, cantidad, lote destino).
	AddDetail(detail *entity.TransferDetail) error
	ListDetails(transferID string) ([]*entity.TransferDetail, error)
}
