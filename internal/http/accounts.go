package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/logging"
)

// AccountsController serves the welcome page, registration, login and logout.
type AccountsController struct {
	accounts Accounts
	sessions Sessions
	logger   logrus.FieldLogger
}

func NewAccountsController(accounts Accounts, sessions Sessions, logger logrus.FieldLogger) *AccountsController {
	return &AccountsController{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

func (controller *AccountsController) Index(c *gin.Context) {
	render(c, http.StatusOK, "index", nil)
}

func (controller *AccountsController) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register", nil)
}

// Register creates an account. Validation failures are shown on the error
// view with status 200; the new user still has to log in.
func (controller *AccountsController) Register(c *gin.Context) {
	_, err := controller.accounts.Register(c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
		c.PostForm("password_confirm"),
	)
	if err != nil {
		if message, ok := registrationMessage(err); ok {
			renderError(c, http.StatusOK, message)
			return
		}
		respondInternalError(c, controller.logger, err, "register")
		return
	}

	render(c, http.StatusOK, "login", gin.H{"Notice": msgRegistered})
}

func registrationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, auth.ErrUsernameRequired):
		return msgUsernameRequired, true
	case errors.Is(err, auth.ErrPasswordRequired):
		return msgPasswordRequired, true
	case errors.Is(err, auth.ErrConfirmationRequired):
		return msgConfirmationRequired, true
	case errors.Is(err, auth.ErrPasswordMismatch):
		return msgPasswordMismatch, true
	case errors.Is(err, auth.ErrPasswordTooLong):
		return msgPasswordTooLong, true
	case errors.Is(err, auth.ErrUserExists):
		return msgUserExists, true
	}
	return "", false
}

func (controller *AccountsController) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login", nil)
}

// Login checks credentials and starts an authenticated session.
func (controller *AccountsController) Login(c *gin.Context) {
	username := c.PostForm("username")
	user, err := controller.accounts.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUsernameRequired):
		renderError(c, http.StatusOK, msgUsernameRequired)
		return
	case errors.Is(err, auth.ErrPasswordRequired):
		renderError(c, http.StatusOK, msgPasswordRequired)
		return
	case errors.Is(err, auth.ErrUserNotFound):
		renderError(c, http.StatusOK, msgUserNotFound)
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		logging.FromContext(controller.logger, c).
			WithField("username", username).
			Warn("login rejected: wrong password")
		render(c, http.StatusOK, "login", gin.H{"Error": msgInvalidCredentials})
		return
	default:
		respondInternalError(c, controller.logger, err, "login")
		return
	}

	if err := controller.sessions.LogIn(c.Request, user); err != nil {
		respondInternalError(c, controller.logger, err, "start session")
		return
	}

	logging.FromContext(controller.logger, c).WithField("user_id", user.ID).Info("user logged in")
	render(c, http.StatusOK, "search", gin.H{"LoggedIn": true})
}

// Logout forgets the user but keeps the session cookie.
func (controller *AccountsController) Logout(c *gin.Context) {
	if err := controller.sessions.LogOut(c.Request); err != nil {
		respondInternalError(c, controller.logger, err, "logout")
		return
	}
	render(c, http.StatusOK, "logout", gin.H{"LoggedIn": false})
}
