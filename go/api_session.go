package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// SessionAPI signs actors in and out.
type SessionAPI struct {
	identity  identityports.Service
	responder *apierrors.ChainedResponder
}

func NewSessionAPI(identity identityports.Service, responder *apierrors.ChainedResponder) SessionAPI {
	return SessionAPI{identity: identity, responder: responder}
}

// Post /v1/session/login
// Sign in with email and password
func (api *SessionAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	session, err := api.identity.Login(c.Request.Context(), identitydomain.Credentials{Email: payload.Email, Password: payload.Password})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSession(session))
}

// Post /v1/session/guest
// Start an anonymous session
func (api *SessionAPI) StartGuestSession(c *gin.Context) {
	session, err := api.identity.GuestSession(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainSession(session))
}

// Post /v1/session/logout
// End the current session and drop its cart
func (api *SessionAPI) Logout(c *gin.Context) {
	if err := api.identity.Logout(c.Request.Context(), currentSession(c).Token); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/session
// Describe the current session
func (api *SessionAPI) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, fromDomainSession(currentSession(c)))
}
