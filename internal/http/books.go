package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/domain"
	"bookshelf/internal/service"
)

type bookRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Price       textValue `json:"price"`
}

func (r bookRequest) input() service.BookInput {
	return service.BookInput{
		Name:        r.Name,
		Description: r.Description,
		Author:      r.Author,
		Price:       string(r.Price),
	}
}

// textValue is free-form text that clients may also send as a JSON number.
// Numbers keep their literal form, so 12.50 is stored as "12.50".
type textValue string

func (v *textValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = textValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected text or a number, got %s", data)
	}
	*v = textValue(n.String())
	return nil
}

type updateBookRequest struct {
	ID string `json:"id" binding:"required"`
	bookRequest
}

type bookIDRequest struct {
	ID string `json:"id" binding:"required"`
}

type BookResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Price       string `json:"price"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type ExportResponse struct {
	Key       string `json:"key"`
	Location  string `json:"location"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
	Books     int    `json:"books"`
	CreatedAt string `json:"createdAt"`
}

// ExportObjectResponse describes a stored export found in the bucket.
type ExportObjectResponse struct {
	Key       string `json:"key"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (h *Handler) createBook(c *gin.Context) {
	var req bookRequest
	if problems := bindJSON(c, &req); problems != nil {
		h.failValidation(c, problems)
		return
	}

	book, err := h.books.Create(c.Request.Context(), callerID(c), req.input())
	if err != nil {
		h.fail(c, err, "Error in Saving")
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": bookToResponse(book)})
}

func (h *Handler) listBooks(c *gin.Context) {
	books, err := h.books.ListMine(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err, "Error in Fetching book")
		return
	}

	resp := make([]BookResponse, len(books))
	for i := range books {
		resp[i] = *bookToResponse(&books[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getBook(c *gin.Context) {
	var req bookIDRequest
	if problems := bindJSON(c, &req); problems != nil {
		h.failValidation(c, problems)
		return
	}

	book, err := h.books.Get(c.Request.Context(), callerID(c), req.ID)
	if err != nil {
		h.fail(c, err, "Error in Fetching book")
		return
	}

	c.JSON(http.StatusOK, bookToResponse(book))
}

func (h *Handler) updateBook(c *gin.Context) {
	var req updateBookRequest
	if problems := bindJSON(c, &req); problems != nil {
		h.failValidation(c, problems)
		return
	}

	book, err := h.books.Update(c.Request.Context(), callerID(c), req.ID, req.input())
	if err != nil {
		h.fail(c, err, "Error in Fetching book")
		return
	}

	c.JSON(http.StatusOK, bookToResponse(book))
}

func (h *Handler) deleteBook(c *gin.Context) {
	var req bookIDRequest
	if problems := bindJSON(c, &req); problems != nil {
		h.failValidation(c, problems)
		return
	}

	book, err := h.books.Delete(c.Request.Context(), callerID(c), req.ID)
	if err != nil {
		h.fail(c, err, "Error in Fetching book")
		return
	}

	c.JSON(http.StatusOK, bookToResponse(book))
}

func (h *Handler) exportBooks(c *gin.Context) {
	export, err := h.exports.Export(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err, "Error in Exporting books")
		return
	}

	c.JSON(http.StatusOK, exportToResponse(*export))
}

func (h *Handler) listExports(c *gin.Context) {
	exports, err := h.exports.List(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err, "Error in Fetching exports")
		return
	}

	resp := make([]ExportObjectResponse, len(exports))
	for i, export := range exports {
		resp[i] = ExportObjectResponse{Key: export.Key, Size: export.Size}
		if !export.CreatedAt.IsZero() {
			resp[i].CreatedAt = export.CreatedAt.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// bookToResponse returns nil for a nil book so handlers answer with JSON null.
func bookToResponse(book *domain.Book) *BookResponse {
	if book == nil {
		return nil
	}
	return &BookResponse{
		ID:          book.ID,
		UserID:      book.OwnerID,
		Name:        book.Name,
		Description: book.Description,
		Author:      book.Author,
		Price:       book.Price,
		CreatedAt:   book.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   book.UpdatedAt.Format(time.RFC3339),
	}
}

func exportToResponse(export domain.Export) ExportResponse {
	return ExportResponse{
		Key:       export.Key,
		Location:  export.Location,
		URL:       export.URL,
		Size:      export.Size,
		Books:     export.Books,
		CreatedAt: export.CreatedAt.Format(time.RFC3339),
	}
}
