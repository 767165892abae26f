package storefrontserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// HeaderIdempotencyKey lets clients retry a checkout safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderAPI places orders and reads order history.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.CheckoutOrchestrator
	responder *apierrors.ChainedResponder
}

// NewOrderAPI wires the orders service. When workflows is set, checkouts run through it.
func NewOrderAPI(service ordersports.Service, workflows ordersports.CheckoutOrchestrator, responder *apierrors.ChainedResponder) OrderAPI {
	return OrderAPI{service: service, workflows: workflows, responder: responder}
}

// Post /v1/checkout
// Turn the session's cart into an order
func (api *OrderAPI) Checkout(c *gin.Context) {
	var payload CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	session := currentSession(c)
	cmd := ordersdomain.CheckoutCommand{
		SessionToken:   session.Token,
		Actor:          session.Actor,
		PaymentMethod:  ordersdomain.PaymentMethod(payload.PaymentMethod),
		IdempotencyKey: strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)),
	}
	receipt, err := api.checkout(c.Request.Context(), cmd)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	status := http.StatusCreated
	if receipt.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, fromDomainReceipt(receipt))
}

func (api *OrderAPI) checkout(ctx context.Context, cmd ordersdomain.CheckoutCommand) (*ordersdomain.Receipt, error) {
	if api.workflows != nil {
		return api.workflows.Checkout(ctx, cmd)
	}
	return api.service.Checkout(ctx, cmd)
}

// Get /v1/orders
// List the caller's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListMyOrders(c.Request.Context(), currentActor(c))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrders(orders))
}

// Get /v1/orders/:id
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, api.responder, "id")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), currentActor(c), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrder(order))
}
