package usecase

import (
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// ProductUseCase lecturas de producto con el nombre de categoría resuelto.
// La categoría es una referencia opaca: solo se resuelve aquí, vía el
// repositorio de categorías, y una referencia vacía o huérfana cae al nombre
// configurado (política explícita, no se adivina).
type ProductUseCase struct {
	products          repository.ProductRepository
	categories        repository.CategoryRepository
	uncategorizedName string
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, categories repository.CategoryRepository, uncategorizedName string) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories, uncategorizedName: uncategorizedName}
}

// Get devuelve un producto con su nombre de categoría resuelto.
func (uc *ProductUseCase) Get(id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.ProductResponse{
		ID:           product.ID,
		SKU:          product.SKU,
		Name:         product.Name,
		Description:  product.Description,
		CategoryID:   product.CategoryID,
		CategoryName: uc.resolveCategoryName(product.CategoryID),
		Price:        product.Price,
		Status:       product.Status,
	}, nil
}

// List devuelve productos paginados con categorías resueltas.
func (uc *ProductUseCase) List(limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.products.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, &dto.ProductResponse{
			ID:           p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			Description:  p.Description,
			CategoryID:   p.CategoryID,
			CategoryName: uc.resolveCategoryName(p.CategoryID),
			Price:        p.Price,
			Status:       p.Status,
		})
	}
	return out, nil
}

// resolveCategoryName única capacidad de resolución de nombre de categoría.
func (uc *ProductUseCase) resolveCategoryName(categoryID string) string {
	if categoryID == "" {
		return uc.uncategorizedName
	}
	category, err := uc.categories.GetByID(categoryID)
	if err != nil || category == nil {
		return uc.uncategorizedName
	}
	return category.Name
}
