package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// AccountAPI covers registration and user management.
type AccountAPI struct {
	identity  identityports.Service
	responder *apierrors.ChainedResponder
}

func NewAccountAPI(identity identityports.Service, responder *apierrors.ChainedResponder) AccountAPI {
	return AccountAPI{identity: identity, responder: responder}
}

// Post /v1/accounts
// Register a customer account
func (api *AccountAPI) Register(c *gin.Context) {
	var payload RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	account, err := api.identity.Register(c.Request.Context(), payload.toDomain())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainAccount(account))
}

// Get /v1/accounts
// List customers and employees, optionally filtered by q
func (api *AccountAPI) ListAccounts(c *gin.Context) {
	accounts, err := api.identity.ListAccounts(c.Request.Context(), currentActor(c), c.Query("q"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainAccounts(accounts))
}

// Put /v1/accounts/:kind/:id/role
// Assign a role to an account
func (api *AccountAPI) ChangeRole(c *gin.Context) {
	id, ok := parseIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	var payload ChangeRoleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	account, err := api.identity.ChangeRole(c.Request.Context(), currentActor(c), identitydomain.AccountKind(c.Param("kind")), id, identitydomain.Role(payload.Role))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainAccount(account))
}
