package service

import (
	"context"
	"errors"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

// BookInput carries the writable fields of a book.
type BookInput struct {
	Name        string
	Description string
	Author      string
	Price       string
}

// BookService coordinates catalog operations on behalf of an authenticated caller.
type BookService interface {
	Create(ctx context.Context, callerID string, in BookInput) (*domain.Book, error)
	ListMine(ctx context.Context, callerID string) ([]domain.Book, error)
	// Get returns nil without error when the book does not exist.
	Get(ctx context.Context, callerID, id string) (*domain.Book, error)
	Update(ctx context.Context, callerID, id string, in BookInput) (*domain.Book, error)
	// Delete returns the removed book, or nil when the book did not exist.
	Delete(ctx context.Context, callerID, id string) (*domain.Book, error)
}

type bookService struct {
	books  repository.BookRepository
	policy AccessPolicy
}

func NewBookService(books repository.BookRepository, policy AccessPolicy) BookService {
	return &bookService{
		books:  books,
		policy: policy,
	}
}

func (s *bookService) Create(ctx context.Context, callerID string, in BookInput) (*domain.Book, error) {
	book := &domain.Book{
		OwnerID:     callerID,
		Name:        in.Name,
		Description: in.Description,
		Author:      in.Author,
		Price:       in.Price,
	}
	if err := s.books.Create(ctx, book); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrBookAlreadyExists
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) ListMine(ctx context.Context, callerID string) ([]domain.Book, error) {
	return s.books.ListByOwner(ctx, callerID)
}

func (s *bookService) Get(ctx context.Context, callerID, id string) (*domain.Book, error) {
	book, err := s.lookup(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}
	if err := s.policy.Authorize(callerID, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *bookService) Update(ctx context.Context, callerID, id string, in BookInput) (*domain.Book, error) {
	existing, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.policy.Authorize(callerID, existing); err != nil {
			return nil, err
		}
	}

	book, err := s.books.Upsert(ctx, &domain.Book{
		ID:          id,
		OwnerID:     s.policy.UpsertOwner(callerID),
		Name:        in.Name,
		Description: in.Description,
		Author:      in.Author,
		Price:       in.Price,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrBookAlreadyExists
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) Delete(ctx context.Context, callerID, id string) (*domain.Book, error) {
	if s.policy.EnforceOwnership {
		existing, err := s.lookup(ctx, id)
		if err != nil || existing == nil {
			return nil, err
		}
		if err := s.policy.Authorize(callerID, existing); err != nil {
			return nil, err
		}
	}
	return s.books.Delete(ctx, id)
}

func (s *bookService) lookup(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.books.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return book, nil
}
