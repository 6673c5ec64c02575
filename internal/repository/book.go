package repository

import (
	"context"

	"bookshelf/internal/domain"
)

// BookRepository exposes persistence operations for catalog records.
type BookRepository interface {
	Init(ctx context.Context) error
	// Create assigns the book an id and stores it. A duplicate name yields ErrAlreadyExists.
	Create(ctx context.Context, book *domain.Book) error
	Get(ctx context.Context, id string) (*domain.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Book, error)
	// Upsert overwrites name, description, author and price of the book with the
	// given id, inserting it when absent. The owner of an existing record is kept.
	Upsert(ctx context.Context, book *domain.Book) (*domain.Book, error)
	// Delete removes the book and returns it, or returns nil when nothing matched.
	Delete(ctx context.Context, id string) (*domain.Book, error)
}
