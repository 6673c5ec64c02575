package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

const createBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL,
	author TEXT NOT NULL,
	price TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const createBooksOwnerIndex = `CREATE INDEX IF NOT EXISTS idx_books_owner_id ON books(owner_id)`

const bookColumns = `id, owner_id, name, description, author, price, created_at, updated_at`

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBooksTable); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createBooksOwnerIndex); err != nil {
		return fmt.Errorf("create books owner index: %w", err)
	}
	return nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO books (`+bookColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, book.OwnerID, book.Name, book.Description, book.Author, book.Price, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert book %q: %w", book.Name, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert book: %w", err)
	}

	book.ID = id
	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

func (r *BookRepository) Get(ctx context.Context, id string) (*domain.Book, error) {
	return scanBook(r.db.QueryRowContext(ctx, `
SELECT `+bookColumns+`
FROM books
WHERE id = $1`, id))
}

func (r *BookRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+bookColumns+`
FROM books
WHERE owner_id = $1
ORDER BY created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

// Upsert relies on INSERT ... ON CONFLICT ... RETURNING so the write and the
// read of the stored row are one statement.
func (r *BookRepository) Upsert(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	now := time.Now().UTC()
	stored, err := scanBook(r.db.QueryRowContext(ctx, `
INSERT INTO books (`+bookColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	author = EXCLUDED.author,
	price = EXCLUDED.price,
	updated_at = EXCLUDED.updated_at
RETURNING `+bookColumns,
		book.ID, book.OwnerID, book.Name, book.Description, book.Author, book.Price, now, now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("upsert book %q: %w", book.Name, repository.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("upsert book: %w", err)
	}
	return stored, nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) (*domain.Book, error) {
	book, err := scanBook(r.db.QueryRowContext(ctx, `
DELETE FROM books
WHERE id = $1
RETURNING `+bookColumns, id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete book: %w", err)
	}
	return book, nil
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var book domain.Book
	err := row.Scan(
		&book.ID,
		&book.OwnerID,
		&book.Name,
		&book.Description,
		&book.Author,
		&book.Price,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &book, nil
}
