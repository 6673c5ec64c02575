package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bookshelf/internal/auth"
	"bookshelf/internal/service"
)

type errorKind int

const (
	kindInternal errorKind = iota
	kindValidation
	kindConflict
	kindNotFound
	kindUnauthorized
	kindBadCredentials
	kindForbidden
	kindUnavailable
)

// statusByKind is the only place that maps failures to HTTP status codes.
var statusByKind = map[errorKind]int{
	kindInternal:       http.StatusInternalServerError,
	kindValidation:     http.StatusBadRequest,
	kindConflict:       http.StatusBadRequest,
	kindNotFound:       http.StatusBadRequest,
	kindUnauthorized:   http.StatusUnauthorized,
	kindBadCredentials: http.StatusBadRequest,
	kindForbidden:      http.StatusForbidden,
	kindUnavailable:    http.StatusServiceUnavailable,
}

var knownErrors = []struct {
	target  error
	kind    errorKind
	message string
}{
	{service.ErrUserAlreadyExists, kindConflict, "User Already Exists"},
	{service.ErrBookAlreadyExists, kindConflict, "Book Already Exists"},
	{service.ErrUserNotFound, kindNotFound, "User Not Exist"},
	{service.ErrPasswordTooLong, kindValidation, "[password]: Password must be at most 72 bytes"},
	{service.ErrInvalidCredentials, kindBadCredentials, "Incorrect Password !"},
	{auth.ErrInvalidToken, kindUnauthorized, "Invalid token"},
	{service.ErrForbidden, kindForbidden, "Not allowed to access this book"},
	{service.ErrExportUnavailable, kindUnavailable, "Export not configured"},
}

func classify(err error) (errorKind, string) {
	for _, known := range knownErrors {
		if errors.Is(err, known.target) {
			return known.kind, known.message
		}
	}
	return kindInternal, ""
}

// fail writes the response for err. Unclassified errors are logged and
// answered with the generic fallback message.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	kind, message := classify(err)
	if kind == kindValidation {
		h.failValidation(c, []string{message})
		return
	}
	if kind == kindInternal {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"user_id":    callerID(c),
			"request_id": c.GetString(requestIDKey),
		}).Error(fallback)
		message = fallback
	}
	c.JSON(statusByKind[kind], gin.H{"message": message})
}

func (h *Handler) failValidation(c *gin.Context, problems []string) {
	c.JSON(statusByKind[kindValidation], gin.H{"message": problems})
}
