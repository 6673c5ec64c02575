package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userIDKey       = "user_id"
)

var (
	errNoToken = errors.New("no token in request")
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

func (h *Handler) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(requestIDKey),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request handled")
	}
}

// requireAuth rejects requests without a valid session token and stores the
// caller's user id in the context for the handlers that follow.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := h.extractToken(c.Request)
		if token == "" {
			h.logAuthFailure(c, errNoToken)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}

		userID, err := h.tokens.Verify(token)
		if err != nil {
			h.logAuthFailure(c, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func (h *Handler) extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(h.authHeader)); token != "" {
		return token
	}
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	return ""
}

func (h *Handler) logAuthFailure(c *gin.Context, err error) {
	h.logger.WithError(err).WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"request_id": c.GetString(requestIDKey),
	}).Warn("authentication failed")
}

func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
