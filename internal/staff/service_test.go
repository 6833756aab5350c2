package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

type fakeRepo struct {
	nextID int64
	rows   map[int64]*Staff
	hashes map[int64]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, rows: map[int64]*Staff{}, hashes: map[int64]string{}}
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]Staff, int, error) {
	var list []Staff
	for _, s := range r.rows {
		if filter.Role != "" && s.Role != filter.Role {
			continue
		}
		list = append(list, *s)
	}
	return list, len(list), nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*Staff, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) Create(_ context.Context, input NewStaff, passwordHash string) (*Staff, error) {
	id := r.nextID
	r.nextID++
	s := &Staff{ID: id, Username: input.Username, Name: input.Name, Phone: input.Phone, Role: input.Role, Status: input.Status}
	r.rows[id] = s
	r.hashes[id] = passwordHash
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, patch Patch, passwordHash string) (*Staff, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if patch.Username != nil {
		s.Username = *patch.Username
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Role != nil {
		s.Role = *patch.Role
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if passwordHash != "" {
		r.hashes[id] = passwordHash
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func TestCreateHashesDefaultPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), NewStaff{Username: "neo", Name: "Neo", Role: "cashier", Status: 1})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	hash := repo.hashes[created.ID]
	require.NotEmpty(t, hash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("123456")))
}

func TestUpdateRehashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), NewStaff{Username: "trin", Name: "Trinity", Password: "old-pass", Role: "manager", Status: 1})
	require.NoError(t, err)

	newPass := "new-pass-1"
	_, err = svc.Update(context.Background(), created.ID, Patch{Password: &newPass})
	require.NoError(t, err)

	hash := repo.hashes[created.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(newPass)))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("old-pass")))
}

func TestUpdateMissingStaff(t *testing.T) {
	svc := NewService(newFakeRepo())

	name := "ghost"
	_, err := svc.Update(context.Background(), 42, Patch{Name: &name})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteMissingStaff(t *testing.T) {
	svc := NewService(newFakeRepo())
	require.ErrorIs(t, svc.Delete(context.Background(), 42), shared.ErrNotFound)
}
