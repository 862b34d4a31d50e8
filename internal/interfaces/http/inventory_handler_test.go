package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	apphttp "github.com/jhoicas/bodega-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "P-001"
	testLocationID = "LOC-BODEGA"
)

// stubBatchRepo sirve un snapshot fijo de lotes, solo lecturas.
type stubBatchRepo struct{ batches []*entity.Batch }

func (r *stubBatchRepo) Create(*entity.Batch) error            { return nil }
func (r *stubBatchRepo) GetByID(string) (*entity.Batch, error) { return nil, nil }

func (r *stubBatchRepo) ListAvailable(productID, locationID string) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for _, b := range r.batches {
		if b.ProductID == productID && b.LocationID == locationID && b.HasStock() {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
	return list, nil
}

func (r *stubBatchRepo) ListAvailableForUpdate(productID, locationID string) ([]*entity.Batch, error) {
	return r.ListAvailable(productID, locationID)
}

func (r *stubBatchRepo) GetOldest(productID, locationID string) (*entity.Batch, error) {
	list, _ := r.ListAvailable(productID, locationID)
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

func (r *stubBatchRepo) ApplyDelta(string, decimal.Decimal) error { return nil }
func (r *stubBatchRepo) FindMergeableForUpdate(string, string, time.Time, decimal.Decimal) (*entity.Batch, error) {
	return nil, nil
}
func (r *stubBatchRepo) MergeCredit(string, decimal.Decimal) error { return nil }
func (r *stubBatchRepo) SumAvailable(string, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubProductRepo struct{}

func (stubProductRepo) Create(*entity.Product) error { return nil }
func (stubProductRepo) GetByID(id string) (*entity.Product, error) {
	if id != testProductID {
		return nil, nil
	}
	return &entity.Product{ID: id, Name: "Café molido 500g", Status: entity.ProductStatusActive}, nil
}
func (stubProductRepo) Update(*entity.Product) error             { return nil }
func (stubProductRepo) List(int, int) ([]*entity.Product, error) { return nil, nil }

type stubLocationRepo struct{}

func (stubLocationRepo) Create(*entity.Location) error { return nil }
func (stubLocationRepo) GetByID(id string) (*entity.Location, error) {
	if id != testLocationID {
		return nil, nil
	}
	return &entity.Location{ID: id, Name: "Bodega central"}, nil
}
func (stubLocationRepo) List(int, int) ([]*entity.Location, error) { return nil, nil }

// stubRunner ejecuta los callbacks en línea sobre los stubs, sin transacción.
type stubRunner struct{ batches *stubBatchRepo }

func (r *stubRunner) Run(ctx context.Context, fn func(
	repository.BatchRepository, repository.StockSummaryRepository, repository.TransferRepository,
) error) error {
	return fn(r.batches, nil, nil)
}

func (r *stubRunner) RunReconciliation(ctx context.Context, fn func(
	repository.BatchRepository, repository.StockSummaryRepository, repository.ReconciliationRepository,
) error) error {
	return fn(r.batches, nil, nil)
}

func (r *stubRunner) RunSnapshot(ctx context.Context, fn func(
	repository.BatchRepository, repository.StockSummaryRepository,
) error) error {
	return fn(r.batches, nil)
}

// buildTestApp monta solo las rutas de consulta del motor sobre un snapshot
// fijo: dos lotes FIFO en bodega.
func buildTestApp() *fiber.App {
	batches := &stubBatchRepo{batches: []*entity.Batch{
		{
			ID: "B2", ProductID: testProductID, LocationID: testLocationID,
			QuantityReceived: decimal.NewFromInt(10), QuantityAvailable: decimal.NewFromInt(10),
			ExpirationDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			EntryDate:      time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
			UnitCost:       decimal.NewFromInt(12),
		},
		{
			ID: "B1", ProductID: testProductID, LocationID: testLocationID,
			QuantityReceived: decimal.NewFromInt(5), QuantityAvailable: decimal.NewFromInt(5),
			ExpirationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EntryDate:      time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
			UnitCost:       decimal.NewFromInt(10),
		},
	}}
	allocate := inventory.NewAllocateStockUseCase(&stubRunner{batches}, batches, stubProductRepo{}, stubLocationRepo{})
	h := apphttp.NewInventoryHandler(allocate, nil, nil, nil, nil)

	app := fiber.New()
	app.Post("/api/inventory/allocations", h.AllocateStock)
	app.Get("/api/inventory/batches/oldest", h.OldestBatch)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateStock_DevuelvePlanFIFO(t *testing.T) {
	app := buildTestApp()
	resp := doJSON(t, app, http.MethodPost, "/api/inventory/allocations",
		`{"product_id":"P-001","location_id":"LOC-BODEGA","quantity":"8"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ProductID string `json:"product_id"`
		Requested string `json:"requested"`
		Lines     []struct {
			BatchID        string `json:"batch_id"`
			Quantity       string `json:"quantity"`
			ExpirationDate string `json:"expiration_date"`
		} `json:"lines"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testProductID, body.ProductID)
	require.Len(t, body.Lines, 2)
	assert.Equal(t, "B1", body.Lines[0].BatchID, "el lote que vence antes va primero")
	assert.Equal(t, "5", body.Lines[0].Quantity)
	assert.Equal(t, "2024-01-01", body.Lines[0].ExpirationDate)
	assert.Equal(t, "B2", body.Lines[1].BatchID)
	assert.Equal(t, "3", body.Lines[1].Quantity)
}

func TestAllocateStock_StockInsuficiente_Retorna409(t *testing.T) {
	app := buildTestApp()
	resp := doJSON(t, app, http.MethodPost, "/api/inventory/allocations",
		`{"product_id":"P-001","location_id":"LOC-BODEGA","quantity":"100"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")
}

func TestAllocateStock_ProductoDesconocido_Retorna404(t *testing.T) {
	app := buildTestApp()
	resp := doJSON(t, app, http.MethodPost, "/api/inventory/allocations",
		`{"product_id":"P-NOPE","location_id":"LOC-BODEGA","quantity":"1"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_REFERENCE")
}

func TestAllocateStock_CantidadInvalida_Retorna400(t *testing.T) {
	app := buildTestApp()
	resp := doJSON(t, app, http.MethodPost, "/api/inventory/allocations",
		`{"product_id":"P-001","location_id":"LOC-BODEGA","quantity":"0"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestOldestBatch_DevuelveElPrimeroFIFO(t *testing.T) {
	app := buildTestApp()
	resp := doJSON(t, app, http.MethodGet,
		"/api/inventory/batches/oldest?product_id=P-001&location_id=LOC-BODEGA", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "B1", body["batch_id"])
	assert.Equal(t, "2024-01-01", body["expiration_date"])
}
