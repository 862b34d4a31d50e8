package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AllocateUC  *inventory.AllocateStockUseCase
	ReceiveUC   *inventory.ReceiveStockUseCase
	ConsumeUC   *inventory.ConsumeStockUseCase
	TransferUC  *inventory.ExecuteTransferUseCase
	ReconcileUC *inventory.ReconcileUseCase
	ProductUC   *usecase.ProductUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Motor de inventario
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AllocateUC, deps.ReceiveUC, deps.ConsumeUC, deps.TransferUC, deps.ReconcileUC)
	inv.Post("/allocations", inventoryHandler.AllocateStock)
	inv.Post("/transfers", inventoryHandler.ExecuteTransfer)
	inv.Post("/receipts", inventoryHandler.ReceiveStock)
	inv.Post("/consumptions", inventoryHandler.ConsumeStock)
	inv.Get("/batches/oldest", inventoryHandler.OldestBatch)
	inv.Post("/reconciliations", inventoryHandler.Reconcile)

	// Products (lecturas con categoría resuelta)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
}
