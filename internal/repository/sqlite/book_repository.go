package sqlite

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
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_books_owner_id ON books(owner_id);
`

const selectBook = `
SELECT id, owner_id, name, description, author, price, created_at, updated_at
FROM books`

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
	return nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO books (id, owner_id, name, description, author, price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		book.OwnerID,
		book.Name,
		book.Description,
		book.Author,
		book.Price,
		now,
		now,
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
	return scanBook(r.db.QueryRowContext(ctx, selectBook+`
WHERE id = ?`, id))
}

func (r *BookRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, selectBook+`
WHERE owner_id = ?
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

func (r *BookRepository) Upsert(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
INSERT INTO books (id, owner_id, name, description, author, price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	description = excluded.description,
	author = excluded.author,
	price = excluded.price,
	updated_at = excluded.updated_at`,
		book.ID,
		book.OwnerID,
		book.Name,
		book.Description,
		book.Author,
		book.Price,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("upsert book %q: %w", book.Name, repository.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("upsert book: %w", err)
	}

	stored, err := scanBook(tx.QueryRowContext(ctx, selectBook+`
WHERE id = ?`, book.ID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit book upsert: %w", err)
	}
	return stored, nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) (*domain.Book, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	book, err := scanBook(tx.QueryRowContext(ctx, selectBook+`
WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit book delete: %w", err)
	}
	return book, nil
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var book domain.Book
	if err := row.Scan(
		&book.ID,
		&book.OwnerID,
		&book.Name,
		&book.Description,
		&book.Author,
		&book.Price,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &book, nil
}
