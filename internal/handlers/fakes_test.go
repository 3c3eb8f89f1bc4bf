package handlers

import (
	"context"
	"errors"
	"time"

	"Cestas/internal/auth"
	"Cestas/internal/common"
	"Cestas/internal/models"
)

type fakeAuth struct {
	principal auth.Principal
	err       error
	gotID     string
}

func (f *fakeAuth) Login(_ context.Context, identifier, password string) (auth.Principal, error) {
	f.gotID = identifier
	if identifier == "" || password == "" {
		return auth.Principal{}, auth.ErrMissingCredentials
	}
	return f.principal, f.err
}

type fakeFamilies struct {
	list    []models.Family
	created *models.Family
	exists  bool
	gotQ    string
}

func (f *fakeFamilies) Create(_ context.Context, fam *models.Family) (int64, error) {
	f.created = fam
	return 11, nil
}

func (f *fakeFamilies) List(_ context.Context, q string) ([]models.Family, error) {
	f.gotQ = q
	return f.list, nil
}

func (f *fakeFamilies) Exists(context.Context, int64) (bool, error) { return f.exists, nil }

func (f *fakeFamilies) Totals(context.Context) (int, int, error) { return 0, 0, nil }

type fakeDeliveries struct {
	created   *models.Delivery
	gotFilter models.DeliveryFilter
	list      []models.Delivery
}

func (f *fakeDeliveries) Create(_ context.Context, d *models.Delivery) (int64, error) {
	f.created = d
	return 21, nil
}

func (f *fakeDeliveries) List(_ context.Context, filter models.DeliveryFilter) ([]models.Delivery, error) {
	f.gotFilter = filter
	return f.list, nil
}

func (f *fakeDeliveries) BasketsSince(context.Context, time.Time) (int, error) { return 0, nil }

type fakeStock struct {
	created   *models.StockEntry
	balance   int
	movements []models.StockMovement
}

func (f *fakeStock) CreateEntry(_ context.Context, e *models.StockEntry) (int64, error) {
	f.created = e
	return 4, nil
}

func (f *fakeStock) Balance(context.Context) (int, error) { return f.balance, nil }

func (f *fakeStock) Movements(context.Context) ([]models.StockMovement, error) {
	return f.movements, nil
}

type fakeCatalog struct {
	supplies []models.Supply
	items    map[int64][]models.KitItem
	upserted *models.KitItem
	deleted  []int64
}

func (f *fakeCatalog) ListSupplies(context.Context) ([]models.Supply, error) { return f.supplies, nil }

func (f *fakeCatalog) CreateSupply(_ context.Context, s *models.Supply) (int64, error) {
	for _, existing := range f.supplies {
		if existing.Name == s.Name {
			return 0, common.ErrAlreadyExists
		}
	}
	f.supplies = append(f.supplies, *s)
	return int64(len(f.supplies)), nil
}

func (f *fakeCatalog) ListKits(context.Context) ([]models.Kit, error) {
	return []models.Kit{{ID: 1, Name: "Básica", ItemCount: 2}}, nil
}

func (f *fakeCatalog) CreateKit(context.Context, *models.Kit) (int64, error) { return 2, nil }

func (f *fakeCatalog) KitItems(_ context.Context, kitID int64) ([]models.KitItem, error) {
	items, ok := f.items[kitID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return items, nil
}

func (f *fakeCatalog) UpsertKitItem(_ context.Context, item *models.KitItem) (int64, error) {
	if _, ok := f.items[item.KitID]; !ok {
		return 0, common.ErrReferenceNotFound
	}
	f.upserted = item
	return 9, nil
}

func (f *fakeCatalog) DeleteKitItem(_ context.Context, itemID int64) error {
	if itemID != 9 {
		return common.ErrNotFound
	}
	f.deleted = append(f.deleted, itemID)
	return nil
}

type fakeDashboard struct {
	d   *models.Dashboard
	err error
}

func (f fakeDashboard) Get(context.Context) (*models.Dashboard, error) { return f.d, f.err }

var errBoom = errors.New("boom")
