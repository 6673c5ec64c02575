package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bookshelf/internal/service"
)

// TokenVerifier resolves a session token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	books      service.BookService
	exports    service.ExportService
	tokens     TokenVerifier
	authHeader string
	logger     *logrus.Logger
}

func NewHandler(
	users service.UserService,
	books service.BookService,
	exports service.ExportService,
	tokens TokenVerifier,
	authHeader string,
	logger *logrus.Logger,
) *Handler {
	if authHeader == "" {
		authHeader = "token"
	}
	if logger == nil {
		logger = logrus.New()
	}
	useJSONFieldNames()
	return &Handler{
		users:      users,
		books:      books,
		exports:    exports,
		tokens:     tokens,
		authHeader: authHeader,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), h.accessLogMiddleware(), corsMiddleware(h.authHeader))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	user := router.Group("/user")
	{
		user.POST("/signup", h.signup)
		user.POST("/login", h.login)
		user.GET("/me", h.requireAuth(), h.me)
	}

	book := router.Group("/book", h.requireAuth())
	{
		book.POST("/create", h.createBook)
		book.GET("/all", h.listBooks)
		book.POST("/get", h.getBook)
		book.POST("/update", h.updateBook)
		book.POST("/delete", h.deleteBook)
		book.POST("/export", h.exportBooks)
		book.GET("/exports", h.listExports)
	}
}

func corsMiddleware(authHeader string) gin.HandlerFunc {
	allowHeaders := "Origin, Content-Type, Accept, Authorization, " + authHeader
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
