package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
)

// ProductHandler lecturas de producto con categoría resuelta.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// GetByID GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(product)
}

// List GET /api/products?limit=&offset=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	products, err := h.uc.List(limit, offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(products), "products": products})
}
