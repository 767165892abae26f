package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront-api/internal/domains/cart/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// CartAPI edits the cart of the calling session. Every mutation answers with
// the priced cart.
type CartAPI struct {
	carts     cartports.Service
	responder *apierrors.ChainedResponder
}

func NewCartAPI(carts cartports.Service, responder *apierrors.ChainedResponder) CartAPI {
	return CartAPI{carts: carts, responder: responder}
}

// Get /v1/cart
// Price the cart
func (api *CartAPI) GetCart(c *gin.Context) {
	api.respondQuote(c)
}

// Post /v1/cart/items
// Add a product to the cart
func (api *CartAPI) AddCartItem(c *gin.Context) {
	var payload CartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	session := currentSession(c)
	api.mutate(c, func() (*cartdomain.Cart, error) {
		return api.carts.AddToCart(c.Request.Context(), session.Token, session.Actor, payload.ProductID, payload.Quantity)
	})
}

// Put /v1/cart/items/:productId
// Set a line's quantity; zero or less removes it
func (api *CartAPI) SetCartItemQuantity(c *gin.Context) {
	productID, ok := parseIDParam(c, api.responder, "productId")
	if !ok {
		return
	}
	var payload CartQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	session := currentSession(c)
	api.mutate(c, func() (*cartdomain.Cart, error) {
		return api.carts.SetQuantity(c.Request.Context(), session.Token, session.Actor, productID, payload.Quantity)
	})
}

// Post /v1/cart/items/:productId/increase
// Add one unit when stock allows
func (api *CartAPI) IncreaseCartItem(c *gin.Context) {
	productID, ok := parseIDParam(c, api.responder, "productId")
	if !ok {
		return
	}
	session := currentSession(c)
	api.mutate(c, func() (*cartdomain.Cart, error) {
		return api.carts.Increase(c.Request.Context(), session.Token, session.Actor, productID)
	})
}

// Post /v1/cart/items/:productId/decrease
// Remove one unit, dropping the line at one
func (api *CartAPI) DecreaseCartItem(c *gin.Context) {
	productID, ok := parseIDParam(c, api.responder, "productId")
	if !ok {
		return
	}
	session := currentSession(c)
	api.mutate(c, func() (*cartdomain.Cart, error) {
		return api.carts.Decrease(c.Request.Context(), session.Token, productID)
	})
}

// Delete /v1/cart/items/:productId
// Remove a line
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	productID, ok := parseIDParam(c, api.responder, "productId")
	if !ok {
		return
	}
	session := currentSession(c)
	api.mutate(c, func() (*cartdomain.Cart, error) {
		return api.carts.RemoveFromCart(c.Request.Context(), session.Token, productID)
	})
}

// Delete /v1/cart
// Empty the cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	if err := api.carts.Clear(c.Request.Context(), currentSession(c).Token); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *CartAPI) mutate(c *gin.Context, fn func() (*cartdomain.Cart, error)) {
	if _, err := fn(); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.respondQuote(c)
}

func (api *CartAPI) respondQuote(c *gin.Context) {
	quote, err := api.carts.Quote(c.Request.Context(), currentSession(c).Token)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainQuote(quote))
}
