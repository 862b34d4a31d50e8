package inventory_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// fakeStore simula el almacén durable en memoria. El mutex del runner
// serializa las unidades mutadoras igual que el bloqueo de filas en Postgres;
// los repos "de pool" toman el mismo mutex por llamada.
type fakeStore struct {
	mu        sync.Mutex
	batches   map[string]*entity.Batch
	summaries map[string]decimal.Decimal
	transfers map[string]*entity.Transfer
	details   []*entity.TransferDetail
	reports   []*entity.ReconciliationReport
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	employees map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		batches:   map[string]*entity.Batch{},
		summaries: map[string]decimal.Decimal{},
		transfers: map[string]*entity.Transfer{},
		products:  map[string]*entity.Product{},
		locations: map[string]*entity.Location{},
		employees: map[string]bool{},
	}
}

func pairKey(productID, locationID string) string { return productID + "|" + locationID }

type storeSnapshot struct {
	batches    map[string]entity.Batch
	summaries  map[string]decimal.Decimal
	transfers  map[string]entity.Transfer
	detailsLen int
	reportsLen int
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		batches:    make(map[string]entity.Batch, len(s.batches)),
		summaries:  make(map[string]decimal.Decimal, len(s.summaries)),
		transfers:  make(map[string]entity.Transfer, len(s.transfers)),
		detailsLen: len(s.details),
		reportsLen: len(s.reports),
	}
	for id, b := range s.batches {
		snap.batches[id] = *b
	}
	for k, v := range s.summaries {
		snap.summaries[k] = v
	}
	for id, t := range s.transfers {
		snap.transfers[id] = *t
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.batches = make(map[string]*entity.Batch, len(snap.batches))
	for id, b := range snap.batches {
		copied := b
		s.batches[id] = &copied
	}
	s.summaries = make(map[string]decimal.Decimal, len(snap.summaries))
	for k, v := range snap.summaries {
		s.summaries[k] = v
	}
	s.transfers = make(map[string]*entity.Transfer, len(snap.transfers))
	for id, t := range snap.transfers {
		copied := t
		s.transfers[id] = &copied
	}
	s.details = s.details[:snap.detailsLen]
	s.reports = s.reports[:snap.reportsLen]
}

// ── repos atados a la "transacción" (sin lock propio: lo tiene el runner) ────

type fakeBatchRepo struct{ s *fakeStore }

func (r *fakeBatchRepo) Create(batch *entity.Batch) error {
	if _, ok := r.s.batches[batch.ID]; ok {
		return domain.ErrDuplicate
	}
	copied := *batch
	r.s.batches[batch.ID] = &copied
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBatchRepo) ListAvailable(productID, locationID string) ([]*entity.Batch, error) {
	var list []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.LocationID == locationID && b.HasStock() {
			copied := *b
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
	return list, nil
}

func (r *fakeBatchRepo) ListAvailableForUpdate(productID, locationID string) ([]*entity.Batch, error) {
	return r.ListAvailable(productID, locationID)
}

func (r *fakeBatchRepo) GetOldest(productID, locationID string) (*entity.Batch, error) {
	list, _ := r.ListAvailable(productID, locationID)
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

func (r *fakeBatchRepo) ApplyDelta(batchID string, delta decimal.Decimal) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrInvalidReference
	}
	next := b.QuantityAvailable.Add(delta)
	if next.LessThan(decimal.Zero) || next.GreaterThan(b.QuantityReceived) {
		return domain.ErrInvalidState
	}
	b.QuantityAvailable = next
	b.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBatchRepo) FindMergeableForUpdate(productID, locationID string, expiration time.Time, unitCost decimal.Decimal) (*entity.Batch, error) {
	list, _ := r.ListAvailable(productID, locationID)
	for _, b := range list {
		if b.Mergeable(expiration, unitCost) {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBatchRepo) MergeCredit(batchID string, amount decimal.Decimal) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrInvalidReference
	}
	b.QuantityAvailable = b.QuantityAvailable.Add(amount)
	b.QuantityReceived = b.QuantityReceived.Add(amount)
	b.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBatchRepo) SumAvailable(productID, locationID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.LocationID == locationID {
			sum = sum.Add(b.QuantityAvailable)
		}
	}
	return sum, nil
}

type fakeSummaryRepo struct{ s *fakeStore }

func (r *fakeSummaryRepo) Get(productID, locationID string) (*entity.StockSummary, error) {
	qty, ok := r.s.summaries[pairKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	return &entity.StockSummary{ProductID: productID, LocationID: locationID, AvailableQuantity: qty}, nil
}

func (r *fakeSummaryRepo) GetForUpdate(productID, locationID string) (*entity.StockSummary, error) {
	return r.Get(productID, locationID)
}

func (r *fakeSummaryRepo) Apply(productID, locationID string, delta decimal.Decimal) error {
	key := pairKey(productID, locationID)
	r.s.summaries[key] = r.s.summaries[key].Add(delta)
	return nil
}

func (r *fakeSummaryRepo) Set(productID, locationID string, quantity decimal.Decimal) error {
	r.s.summaries[pairKey(productID, locationID)] = quantity
	return nil
}

type fakeTransferRepo struct{ s *fakeStore }

func (r *fakeTransferRepo) Create(t *entity.Transfer) error {
	copied := *t
	r.s.transfers[t.ID] = &copied
	return nil
}

func (r *fakeTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTransferRepo) UpdateStatus(id, status string) error {
	t, ok := r.s.transfers[id]
	if !ok {
		return domain.ErrInvalidReference
	}
	t.Status = status
	return nil
}

func (r *fakeTransferRepo) AddDetail(d *entity.TransferDetail) error {
	copied := *d
	r.s.details = append(r.s.details, &copied)
	return nil
}

func (r *fakeTransferRepo) ListDetails(transferID string) ([]*entity.TransferDetail, error) {
	var list []*entity.TransferDetail
	for _, d := range r.s.details {
		if d.TransferID == transferID {
			copied := *d
			list = append(list, &copied)
		}
	}
	return list, nil
}

type fakeReportRepo struct{ s *fakeStore }

func (r *fakeReportRepo) Create(report *entity.ReconciliationReport) error {
	copied := *report
	r.s.reports = append(r.s.reports, &copied)
	return nil
}

func (r *fakeReportRepo) ListByPair(productID, locationID string, limit, offset int) ([]*entity.ReconciliationReport, error) {
	var list []*entity.ReconciliationReport
	for _, rep := range r.s.reports {
		if rep.ProductID == productID && rep.LocationID == locationID {
			copied := *rep
			list = append(list, &copied)
		}
	}
	return list, nil
}

// ── repos "de pool": toman el mutex por llamada ──────────────────────────────

type lockedProductRepo struct{ s *fakeStore }

func (r *lockedProductRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *p
	r.s.products[p.ID] = &copied
	return nil
}

func (r *lockedProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *lockedProductRepo) Update(p *entity.Product) error { return nil }
func (r *lockedProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type lockedLocationRepo struct{ s *fakeStore }

func (r *lockedLocationRepo) Create(l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *l
	r.s.locations[l.ID] = &copied
	return nil
}

func (r *lockedLocationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *lockedLocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	return nil, nil
}

type lockedTransferRepo struct{ s *fakeStore }

func (r *lockedTransferRepo) Create(t *entity.Transfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeTransferRepo{r.s}).Create(t)
}

func (r *lockedTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeTransferRepo{r.s}).GetByID(id)
}

func (r *lockedTransferRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeTransferRepo{r.s}).UpdateStatus(id, status)
}

func (r *lockedTransferRepo) AddDetail(d *entity.TransferDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeTransferRepo{r.s}).AddDetail(d)
}

func (r *lockedTransferRepo) ListDetails(transferID string) ([]*entity.TransferDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeTransferRepo{r.s}).ListDetails(transferID)
}

type fakeEmployeeDirectory struct{ s *fakeStore }

func (d *fakeEmployeeDirectory) Exists(ctx context.Context, employeeID string) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return d.s.employees[employeeID], nil
}

// ── runner: serializa las unidades y revierte el estado ante error ───────────

type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	summaryRepo repository.StockSummaryRepository,
	transferRepo repository.TransferRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(&fakeBatchRepo{r.s}, &fakeSummaryRepo{r.s}, &fakeTransferRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunReconciliation(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	summaryRepo repository.StockSummaryRepository,
	reportRepo repository.ReconciliationRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(&fakeBatchRepo{r.s}, &fakeSummaryRepo{r.s}, &fakeReportRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunSnapshot(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	summaryRepo repository.StockSummaryRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&fakeBatchRepo{r.s}, &fakeSummaryRepo{r.s})
}

// ── fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	store  *fakeStore
	runner *fakeTxRunner
}

const (
	productID  = "P-001"
	warehouse  = "LOC-BODEGA"
	storefront = "LOC-TIENDA"
	employeeID = "EMP-001"
)

func newFixture() *fixture {
	s := newFakeStore()
	s.products[productID] = &entity.Product{ID: productID, SKU: "SKU-1", Name: "Café molido 500g", Status: entity.ProductStatusActive}
	s.locations[warehouse] = &entity.Location{ID: warehouse, Name: "Bodega central"}
	s.locations[storefront] = &entity.Location{ID: storefront, Name: "Tienda norte"}
	s.employees[employeeID] = true
	return &fixture{store: s, runner: &fakeTxRunner{s}}
}

func (f *fixture) addBatch(id, locationID string, available int64, expiration time.Time, cost int64) *entity.Batch {
	qty := decimal.NewFromInt(available)
	b := &entity.Batch{
		ID:                id,
		ProductID:         productID,
		LocationID:        locationID,
		QuantityReceived:  qty,
		QuantityAvailable: qty,
		ExpirationDate:    expiration,
		EntryDate:         expiration.AddDate(0, -6, 0),
		UnitCost:          decimal.NewFromInt(cost),
	}
	f.store.batches[id] = b
	key := pairKey(productID, locationID)
	f.store.summaries[key] = f.store.summaries[key].Add(qty)
	return b
}

func (f *fixture) sumAvailable(locationID string) decimal.Decimal {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	sum := decimal.Zero
	for _, b := range f.store.batches {
		if b.ProductID == productID && b.LocationID == locationID {
			sum = sum.Add(b.QuantityAvailable)
		}
	}
	return sum
}

func (f *fixture) summary(locationID string) decimal.Decimal {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.summaries[pairKey(productID, locationID)]
}

func (f *fixture) batchAvailable(id string) decimal.Decimal {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.batches[id].QuantityAvailable
}

func ctxTODO() context.Context { return context.Background() }

var _ inventory.TxRunner = (*fakeTxRunner)(nil)
var _ repository.BatchRepository = (*fakeBatchRepo)(nil)
var _ repository.StockSummaryRepository = (*fakeSummaryRepo)(nil)
var _ repository.TransferRepository = (*fakeTransferRepo)(nil)
var _ repository.ReconciliationRepository = (*fakeReportRepo)(nil)
