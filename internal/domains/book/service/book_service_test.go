package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "publisher-backend/internal/domains/author/model"
	"publisher-backend/internal/domains/book/model"
)

type fakeBookRepo struct {
	books      map[uuid.UUID]*model.Book
	saleCounts map[uuid.UUID]int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:      make(map[uuid.UUID]*model.Book),
		saleCounts: make(map[uuid.UUID]int),
	}
}

func (f *fakeBookRepo) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	created := *b
	created.ID = uuid.New()
	f.books[created.ID] = &created
	return &created, nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookRepo) GetAll(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error) {
	var out []model.Book
	for _, b := range f.books {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookRepo) Update(ctx context.Context, b *model.Book, currentVersion int, replaceAuthors bool) (*model.Book, error) {
	stored, ok := f.books[b.ID]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	if stored.Version != currentVersion {
		return nil, model.ErrVersionMismatch
	}
	updated := *b
	updated.Version = currentVersion + 1
	f.books[b.ID] = &updated
	return &updated, nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.books[id]
	return ok, nil
}

func (f *fakeBookRepo) GetSaleCount(ctx context.Context, bookID uuid.UUID) (int, error) {
	return f.saleCounts[bookID], nil
}

type fakeAuthorRepo struct {
	known map[uuid.UUID]bool
}

func (f *fakeAuthorRepo) Create(ctx context.Context, a *authormodel.Author) (*authormodel.Author, error) {
	return a, nil
}

func (f *fakeAuthorRepo) GetByID(ctx context.Context, id uuid.UUID) (*authormodel.Author, error) {
	if !f.known[id] {
		return nil, authormodel.ErrAuthorNotFound
	}
	return &authormodel.Author{ID: id, Name: "Author"}, nil
}

func (f *fakeAuthorRepo) GetAll(ctx context.Context, filter authormodel.AuthorFilter) ([]authormodel.Author, int64, error) {
	return nil, 0, nil
}

func (f *fakeAuthorRepo) Update(ctx context.Context, a *authormodel.Author, currentVersion int) (*authormodel.Author, error) {
	return a, nil
}

func (f *fakeAuthorRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeAuthorRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func (f *fakeAuthorRepo) GetBookCount(ctx context.Context, authorID uuid.UUID) (int, error) {
	return 0, nil
}

func TestBookService_Create(t *testing.T) {
	repo := newFakeBookRepo()
	authorID := uuid.New()
	authors := &fakeAuthorRepo{known: map[uuid.UUID]bool{authorID: true}}
	svc := NewBookService(repo, authors)

	created, err := svc.Create(context.Background(), &model.CreateBookRequest{
		Title:     "  The Long Tail  ",
		AuthorIDs: []uuid.UUID{authorID, authorID}, // duplicate collapses
		Price:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.Equal(t, "The Long Tail", created.Title)
	assert.Equal(t, []uuid.UUID{authorID}, created.AuthorIDs)
	assert.False(t, created.IsCoAuthored())
}

func TestBookService_CreateUnknownAuthor(t *testing.T) {
	repo := newFakeBookRepo()
	authors := &fakeAuthorRepo{known: map[uuid.UUID]bool{}}
	svc := NewBookService(repo, authors)

	_, err := svc.Create(context.Background(), &model.CreateBookRequest{
		Title:     "Orphan Book",
		AuthorIDs: []uuid.UUID{uuid.New()},
		Price:     decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, model.ErrAuthorUnknown)
	assert.Empty(t, repo.books)
}

func TestBookService_DeleteWithSalesFails(t *testing.T) {
	repo := newFakeBookRepo()
	authorID := uuid.New()
	authors := &fakeAuthorRepo{known: map[uuid.UUID]bool{authorID: true}}
	svc := NewBookService(repo, authors)

	created, err := svc.Create(context.Background(), &model.CreateBookRequest{
		Title:     "Sold Title",
		AuthorIDs: []uuid.UUID{authorID},
		Price:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	repo.saleCounts[created.ID] = 3

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrBookHasSales)

	// Book must survive the failed delete.
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestBookService_DeleteWithoutSales(t *testing.T) {
	repo := newFakeBookRepo()
	authorID := uuid.New()
	authors := &fakeAuthorRepo{known: map[uuid.UUID]bool{authorID: true}}
	svc := NewBookService(repo, authors)

	created, err := svc.Create(context.Background(), &model.CreateBookRequest{
		Title:     "Unsold Title",
		AuthorIDs: []uuid.UUID{authorID},
		Price:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestBookService_UpdateVersionMismatch(t *testing.T) {
	repo := newFakeBookRepo()
	authorID := uuid.New()
	authors := &fakeAuthorRepo{known: map[uuid.UUID]bool{authorID: true}}
	svc := NewBookService(repo, authors)

	created, err := svc.Create(context.Background(), &model.CreateBookRequest{
		Title:     "Contested",
		AuthorIDs: []uuid.UUID{authorID},
		Price:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	title := "Contested, 2nd ed."
	_, err = svc.Update(context.Background(), created.ID, &model.UpdateBookRequest{
		Title:   &title,
		Version: created.Version + 1, // stale client
	})
	assert.ErrorIs(t, err, model.ErrVersionMismatch)
}
