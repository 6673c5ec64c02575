package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/storage"
)

const exportLinkTTL = 15 * time.Minute

// ExportService writes JSON snapshots of a caller's books to object storage.
type ExportService interface {
	Export(ctx context.Context, callerID string) (*domain.Export, error)
	List(ctx context.Context, callerID string) ([]domain.Export, error)
}

type exportService struct {
	books     repository.BookRepository
	store     storage.Service
	keyPrefix string
	now       func() time.Time
}

// NewExportService returns a service that reports ErrExportUnavailable for
// every call when store is nil.
func NewExportService(books repository.BookRepository, store storage.Service, keyPrefix string) ExportService {
	return &exportService{
		books:     books,
		store:     store,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		now:       time.Now,
	}
}

type exportDocument struct {
	OwnerID    string       `json:"ownerId"`
	ExportedAt time.Time    `json:"exportedAt"`
	Books      []exportBook `json:"books"`
}

type exportBook struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Price       string `json:"price,omitempty"`
}

func (s *exportService) Export(ctx context.Context, callerID string) (*domain.Export, error) {
	if s.store == nil {
		return nil, ErrExportUnavailable
	}

	books, err := s.books.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := exportDocument{
		OwnerID:    callerID,
		ExportedAt: now,
		Books:      make([]exportBook, len(books)),
	}
	for i, b := range books {
		doc.Books[i] = exportBook{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Author:      b.Author,
			Price:       b.Price,
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := path.Join(s.userPrefix(callerID), fmt.Sprintf("%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString()))
	location, err := s.store.PutObject(ctx, key, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, key, exportLinkTTL)
	if err != nil {
		return nil, err
	}

	return &domain.Export{
		Key:       key,
		Location:  location,
		URL:       url,
		Size:      int64(len(payload)),
		Books:     len(books),
		CreatedAt: now,
	}, nil
}

func (s *exportService) List(ctx context.Context, callerID string) ([]domain.Export, error) {
	if s.store == nil {
		return nil, ErrExportUnavailable
	}

	objects, err := s.store.ListObjects(ctx, s.userPrefix(callerID)+"/")
	if err != nil {
		return nil, err
	}

	exports := make([]domain.Export, 0, len(objects))
	for _, obj := range objects {
		export := domain.Export{
			Key:  obj.Key,
			Size: obj.Size,
		}
		if obj.LastModified != nil {
			export.CreatedAt = *obj.LastModified
		}
		exports = append(exports, export)
	}
	return exports, nil
}

func (s *exportService) userPrefix(callerID string) string {
	if s.keyPrefix == "" {
		return callerID
	}
	return s.keyPrefix + "/" + callerID
}
