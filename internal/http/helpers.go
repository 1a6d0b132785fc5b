package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/logging"
)

// User-facing messages.
const (
	msgUsernameRequired     = "Please input a username."
	msgPasswordRequired     = "Please input a password."
	msgConfirmationRequired = "Please confirm your password."
	msgPasswordMismatch     = "Passwords do not match."
	msgPasswordTooLong      = "Password must be at most 72 bytes."
	msgUserExists           = "Username already exists."
	msgRegistered           = "Registration successful. Please log in."
	msgUserNotFound         = "Username not found."
	msgInvalidCredentials   = "Invalid username or password."
	msgSearchTermRequired   = "Please input a search term."
	msgInvalidSearchField   = "Please select a valid search field."
	msgNoResults            = "No results found."
	msgBookNotFound         = "404 - book not found"
	msgReviewRequired       = "Please rate and review book."
	msgScoreOutOfRange      = "Review score must be between 1 and 5."
	msgOpenBookFirst        = "Please open the book page before submitting a review."
	msgLoginRequired        = "Please log in to continue."
	msgPageNotFound         = "404 - page not found"
	msgInternal             = "Something went wrong. Please try again."

	apiMsgBookNotFound       = "error - Book not in database."
	apiMsgRatingsUnavailable = "error - Ratings service unavailable."
)

// MessageResponse is the JSON body of API errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// render executes a view with the data every view expects. Handlers may
// override LoggedIn when they have just changed the login state.
func render(c *gin.Context, status int, view string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFToken"] = auth.GetCSRFToken(c)
	if _, ok := data["LoggedIn"]; !ok {
		data["LoggedIn"] = auth.IsAuthenticated(c)
	}
	c.HTML(status, view, data)
}

// renderError shows the error view with a human readable message.
func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error", gin.H{"Error": message})
}

// respondInternalError logs the error and shows a generic error page.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, logger logrus.FieldLogger, err error, context string) {
	logging.FromContext(logger, c).WithError(err).Errorf("internal error (%s)", context)
	renderError(c, http.StatusInternalServerError, msgInternal)
}

// unauthorized is the RequireLogin response for anonymous visitors.
func unauthorized(c *gin.Context) {
	renderError(c, http.StatusUnauthorized, msgLoginRequired)
}

func notFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, msgPageNotFound)
}
