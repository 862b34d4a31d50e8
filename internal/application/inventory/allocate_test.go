package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
)

func newAllocateUC(f *fixture) *inventory.AllocateStockUseCase {
	return inventory.NewAllocateStockUseCase(
		f.runner,
		&fakeBatchRepo{f.store},
		&lockedProductRepo{f.store},
		&lockedLocationRepo{f.store},
	)
}

// El plan es un dry-run: expone líneas FIFO con vencimiento y costo del lote,
// sin tocar el ledger.
func TestAllocate_PlanFIFOSinMutar(t *testing.T) {
	f := newFixture()
	f.addBatch("B1", warehouse, 5, day(2024, 1, 1), 10)
	f.addBatch("B2", warehouse, 10, day(2024, 2, 1), 12)
	uc := newAllocateUC(f)

	result, err := uc.Allocate(ctxTODO(), productID, warehouse, decimal.NewFromInt(8))
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	assert.Equal(t, "B1", result.Lines[0].BatchID)
	assert.Equal(t, "5", result.Lines[0].Quantity.String())
	assert.True(t, result.Lines[0].ExpirationDate.Equal(day(2024, 1, 1)))
	assert.Equal(t, "10", result.Lines[0].UnitCost.String())

	assert.Equal(t, "B2", result.Lines[1].BatchID)
	assert.Equal(t, "3", result.Lines[1].Quantity.String())
	assert.Equal(t, "12", result.Lines[1].UnitCost.String())

	// Nada cambió
	assert.Equal(t, "5", f.batchAvailable("B1").String())
	assert.Equal(t, "10", f.batchAvailable("B2").String())
	assert.Equal(t, "15", f.summary(warehouse).String())
}

func TestAllocate_StockInsuficiente(t *testing.T) {
	f := newFixture()
	f.addBatch("B1", warehouse, 5, day(2024, 1, 1), 10)
	uc := newAllocateUC(f)

	_, err := uc.Allocate(ctxTODO(), productID, warehouse, decimal.NewFromInt(6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAllocate_ReferenciasDesconocidas(t *testing.T) {
	f := newFixture()
	uc := newAllocateUC(f)

	_, err := uc.Allocate(ctxTODO(), "P-NOPE", warehouse, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = uc.Allocate(ctxTODO(), productID, "LOC-NOPE", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestOldestBatch_OrdenFIFO(t *testing.T) {
	f := newFixture()
	f.addBatch("B2", warehouse, 10, day(2024, 2, 1), 12)
	f.addBatch("B1", warehouse, 5, day(2024, 1, 1), 10)
	uc := newAllocateUC(f)

	oldest, err := uc.OldestBatch(ctxTODO(), productID, warehouse)
	require.NoError(t, err)
	assert.Equal(t, "B1", oldest.ID)
}

func TestOldestBatch_SinStock(t *testing.T) {
	f := newFixture()
	uc := newAllocateUC(f)

	_, err := uc.OldestBatch(ctxTODO(), productID, warehouse)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
