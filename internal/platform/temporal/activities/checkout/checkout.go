package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// PlaceOrderActivityName runs one checkout against the orders service.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Activities groups the checkout activities.
type Activities struct {
	service ordersports.Service
}

func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the checkout engine. Business rejections come back as
// non-retryable application errors typed by their kind.
func (a *Activities) PlaceOrder(ctx context.Context, cmd ordersdomain.CheckoutCommand) (*ordersdomain.Receipt, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "customerId", cmd.Actor.ID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customerId", cmd.Actor.ID, "attempt", activity.GetInfo(ctx).Attempt)
	receipt, err := a.service.Checkout(ctx, cmd)
	if err != nil {
		logger.Warn("PlaceOrder activity rejected", "customerId", cmd.Actor.ID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", receipt.OrderID, "replayed", receipt.Replayed)
	return receipt, nil
}
