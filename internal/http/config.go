package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Reviews  ReviewStore
	Accounts Accounts
	Ratings  RatingsLookup
	Database Pinger

	// Sessions backs both the cookie middleware and the handlers.
	SessionManager *auth.SessionManager

	Logger logrus.FieldLogger

	// CSRF protection is skipped when CSRFKey is empty.
	CSRFKey       []byte
	SecureCookies bool

	// Application info
	Version string
}
