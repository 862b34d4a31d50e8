package repository

import "github.com/jhoicas/bodega-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category.
// Es la única capacidad de resolución de nombre de categoría del sistema:
// nadie más duplica ni infiere texto de categoría.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(limit, offset int) ([]*entity.Category, error)
}
