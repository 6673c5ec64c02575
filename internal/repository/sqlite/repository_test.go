package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

func newTestRepos(t *testing.T) (repository.UserRepository, repository.BookRepository) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := NewUserRepository(db)
	books := NewBookRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, books.Init(context.Background()))
	return users, books
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	user := &domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byEmail, err := users.GetByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Ann", byEmail.Name)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", byID.Email)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h1"}))
	err := users.Create(ctx, &domain.User{Name: "Ann2", Email: "ann@x.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	stored, err := users.GetByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.Name)
}

func TestUserRepository_ConcurrentSignupsLeaveOneRecord(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := users.Create(ctx, &domain.User{Name: "Ann", Email: "race@x.com", PasswordHash: "h"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, repository.ErrAlreadyExists)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestBookRepository_CreateListByOwner(t *testing.T) {
	_, books := newTestRepos(t)
	ctx := context.Background()

	dune := &domain.Book{OwnerID: "a", Name: "Dune", Description: "d", Author: "Herbert"}
	require.NoError(t, books.Create(ctx, dune))
	require.NoError(t, books.Create(ctx, &domain.Book{OwnerID: "b", Name: "Emma", Description: "e", Author: "Austen", Price: "9"}))

	mine, err := books.ListByOwner(ctx, "a")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, dune.ID, mine[0].ID)

	none, err := books.ListByOwner(ctx, "c")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	err = books.Create(ctx, &domain.Book{OwnerID: "b", Name: "Dune", Description: "x", Author: "y"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestBookRepository_UpsertCreatesThenUpdates(t *testing.T) {
	_, books := newTestRepos(t)
	ctx := context.Background()

	in := &domain.Book{ID: "book-1", Name: "Dune", Description: "d", Author: "Herbert", Price: "10"}
	first, err := books.Upsert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "book-1", first.ID)
	assert.Empty(t, first.OwnerID)

	second, err := books.Upsert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.Author, second.Author)
	assert.Equal(t, first.Price, second.Price)

	owned := &domain.Book{OwnerID: "a", Name: "Emma", Description: "e", Author: "Austen"}
	require.NoError(t, books.Create(ctx, owned))

	updated, err := books.Upsert(ctx, &domain.Book{ID: owned.ID, OwnerID: "someone-else", Name: "Emma 2", Description: "e2", Author: "Austen"})
	require.NoError(t, err)
	assert.Equal(t, "a", updated.OwnerID)
	assert.Equal(t, "Emma 2", updated.Name)

	_, err = books.Upsert(ctx, &domain.Book{ID: owned.ID, Name: "Dune", Description: "e", Author: "Austen"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestBookRepository_Delete(t *testing.T) {
	_, books := newTestRepos(t)
	ctx := context.Background()

	book := &domain.Book{OwnerID: "a", Name: "Dune", Description: "d", Author: "Herbert"}
	require.NoError(t, books.Create(ctx, book))

	removed, err := books.Delete(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "Dune", removed.Name)

	_, err = books.Get(ctx, book.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	again, err := books.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}
