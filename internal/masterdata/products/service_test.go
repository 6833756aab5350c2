package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeRepo struct {
	nextID int64
	rows   map[int64]*Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, rows: map[int64]*Product{}}
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter) ([]Product, int, error) {
	var list []Product
	for _, p := range r.rows {
		list = append(list, *p)
	}
	return list, len(list), nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) Create(_ context.Context, product Product) (*Product, error) {
	product.ID = r.nextID
	r.nextID++
	r.rows[product.ID] = &product
	copied := product
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, patch Patch) (*Product, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func TestCreateRejectsUnknownUnit(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Product{Name: "Duck", Unit: "box", Price: 10})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Product{Name: "Duck", Unit: UnitPiece, Price: -1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestPricedByWeight(t *testing.T) {
	svc := NewService(newFakeRepo())

	byPiece, err := svc.Create(context.Background(), Product{Name: "Duck", Unit: UnitPiece, Price: 38})
	require.NoError(t, err)
	require.False(t, byPiece.PricedByWeight())

	byWeight, err := svc.Create(context.Background(), Product{Name: "Goose", Unit: UnitWeight, Price: 12.5})
	require.NoError(t, err)
	require.True(t, byWeight.PricedByWeight())
}

func TestUpdateValidatesUnit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Product{Name: "Duck", Unit: UnitPiece, Price: 38})
	require.NoError(t, err)

	bad := "crate"
	_, err = svc.Update(context.Background(), created.ID, Patch{Unit: &bad})
	require.ErrorIs(t, err, shared.ErrValidation)

	good := UnitWeight
	updated, err := svc.Update(context.Background(), created.ID, Patch{Unit: &good})
	require.NoError(t, err)
	require.Equal(t, UnitWeight, updated.Unit)
}
