package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher-backend/internal/domains/author/model"
)

type fakeAuthorRepo struct {
	authors    map[uuid.UUID]*model.Author
	bookCounts map[uuid.UUID]int
	deletes    int
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{
		authors:    make(map[uuid.UUID]*model.Author),
		bookCounts: make(map[uuid.UUID]int),
	}
}

func (f *fakeAuthorRepo) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	created := *a
	created.ID = uuid.New()
	f.authors[created.ID] = &created
	return &created, nil
}

func (f *fakeAuthorRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	a, ok := f.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAuthorRepo) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	var out []model.Author
	for _, a := range f.authors {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAuthorRepo) Update(ctx context.Context, a *model.Author, currentVersion int) (*model.Author, error) {
	stored, ok := f.authors[a.ID]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	if stored.Version != currentVersion {
		return nil, model.ErrVersionMismatch
	}
	updated := *a
	updated.Version = currentVersion + 1
	f.authors[a.ID] = &updated
	return &updated, nil
}

func (f *fakeAuthorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deletes++
	if _, ok := f.authors[id]; !ok {
		return model.ErrAuthorNotFound
	}
	delete(f.authors, id)
	return nil
}

func (f *fakeAuthorRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.authors[id]
	return ok, nil
}

func (f *fakeAuthorRepo) GetBookCount(ctx context.Context, authorID uuid.UUID) (int, error) {
	return f.bookCounts[authorID], nil
}

func TestAuthorService_Create(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := NewAuthorService(repo)

	email := "MACHADO@Example.COM"
	created, err := svc.Create(context.Background(), &model.CreateAuthorRequest{
		Name:  "  Machado de Assis ",
		Email: &email,
	})
	require.NoError(t, err)

	assert.Equal(t, "Machado de Assis", created.Name)
	require.NotNil(t, created.Email)
	assert.Equal(t, "machado@example.com", *created.Email)
	assert.False(t, created.HasOwnRate())
}

func TestAuthorService_CreateRateBounds(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := NewAuthorService(repo)

	cases := []struct {
		name string
		rate string
		ok   bool
	}{
		{"zero means house default", "0", true},
		{"upper bound inclusive", "100", true},
		{"negative", "-1", false},
		{"above hundred", "100.01", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &model.CreateAuthorRequest{
				Name:           "Clarice Lispector",
				CommissionRate: decimal.RequireFromString(tc.rate),
			})
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrInvalidRate)
			}
		})
	}
}

func TestAuthorService_UpdateRejectsOutOfRangeRate(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := NewAuthorService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAuthorRequest{Name: "Graciliano Ramos"})
	require.NoError(t, err)

	rate := decimal.RequireFromString("150")
	_, err = svc.Update(context.Background(), created.ID, &model.UpdateAuthorRequest{
		CommissionRate: &rate,
		Version:        created.Version,
	})
	assert.ErrorIs(t, err, model.ErrInvalidRate)
}

func TestAuthorService_DeleteWithBooksFails(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := NewAuthorService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAuthorRequest{Name: "Jorge Amado"})
	require.NoError(t, err)

	repo.bookCounts[created.ID] = 2

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrAuthorHasBooks)

	// The guard fires before the repository delete.
	assert.Zero(t, repo.deletes)
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestAuthorService_DeleteWithoutBooks(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := NewAuthorService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAuthorRequest{Name: "Lima Barreto"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}
