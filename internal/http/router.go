package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/logging"
	"github.com/mrlokans/bookreviews/internal/metrics"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(templates)

	router.Use(RequestIDMiddleware())
	router.Use(logging.GinLogger(cfg.Logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.FromContext(cfg.Logger, c).WithField("panic", recovered).Error("recovered from panic")
		renderError(c, http.StatusInternalServerError, msgInternal)
	}))
	router.Use(metrics.GinMiddleware())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFKey) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFKey, cfg.SecureCookies))
	}

	router.Use(cfg.SessionManager.SessionLoadSave(cfg.Logger))
	router.Use(auth.NewMiddleware(cfg.SessionManager).Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	accounts := NewAccountsController(cfg.Accounts, cfg.SessionManager, cfg.Logger)
	search := NewSearchController(cfg.Books, cfg.Logger)
	books := NewBooksController(cfg.Books, cfg.Reviews, cfg.Ratings, cfg.SessionManager, cfg.Logger)
	api := NewAPIController(cfg.Books, cfg.Ratings, cfg.Logger)

	requireLogin := auth.RequireLogin(unauthorized)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Accounts
	router.GET("/", accounts.Index)
	router.GET("/register", accounts.RegisterPage)
	router.POST("/register", accounts.Register)
	router.GET("/login", accounts.LoginPage)
	router.POST("/login", accounts.Login)
	router.GET("/logout", accounts.Logout)

	// Catalog
	router.GET("/search", search.SearchPage)
	router.POST("/search", search.Search)
	router.GET("/result/:isbn", requireLogin, books.BookPage)
	router.POST("/result/:isbn", requireLogin, books.SubmitReview)

	// JSON API
	router.GET("/api/:isbn", api.GetBook)

	router.NoRoute(notFound)

	return router, nil
}
