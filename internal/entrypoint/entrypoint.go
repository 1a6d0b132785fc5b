package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/books"
	"github.com/mrlokans/bookreviews/internal/database/reviews"
	"github.com/mrlokans/bookreviews/internal/database/users"
	http_controllers "github.com/mrlokans/bookreviews/internal/http"
	"github.com/mrlokans/bookreviews/internal/logging"
	"github.com/mrlokans/bookreviews/internal/ratings"
)

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains it.
func Serve(router *gin.Engine, cfg *config.Config, logger logrus.FieldLogger) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// kill -9 cannot be caught, so only SIGINT and SIGTERM are handled
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Infof("Shutting down server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}

// Run wires configuration, storage and controllers and serves until stopped.
func Run(cfg *config.Config, version string) error {
	logger := logging.New(cfg.Log)
	logger.Infof("Starting Book Reviews v%s", version)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Auth.SecretKey == "" {
		secret, err := auth.GenerateSecret()
		if err != nil {
			return fmt.Errorf("generate secret key: %w", err)
		}
		cfg.Auth.SecretKey = secret
		logger.Warn("SECRET_KEY is not set, generated a temporary one. Forms will expire on restart.")
	}
	if cfg.Ratings.APIKey == "" {
		logger.Warn("RATINGS_API_KEY is not set. Ratings will be unavailable.")
	}

	db, err := database.NewDatabase(cfg.Database.URL, database.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Error("Error closing database")
		}
	}()
	logger.WithField("dialect", db.Dialect()).Info("Database ready")

	sqlDB, err := db.SQL()
	if err != nil {
		return fmt.Errorf("get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, db.Dialect(), cfg.Auth)
	if err != nil {
		return fmt.Errorf("initialize session manager: %w", err)
	}

	var csrfKey []byte
	if cfg.Auth.CSRFEnabled {
		csrfKey = auth.CSRFKey(cfg.Auth.SecretKey)
	} else {
		logger.Warn("CSRF protection is disabled")
	}

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:          books.NewRepository(db.DB),
		Reviews:        reviews.NewRepository(db.DB),
		Accounts:       auth.NewService(users.NewRepository(db.DB), cfg.Auth),
		Ratings:        ratings.NewClient(cfg.Ratings),
		Database:       db,
		SessionManager: sessionManager,
		Logger:         logger,
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	return Serve(router, cfg, logger)
}
