package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	checkoutactivities "github.com/Apurer/storefront-api/internal/platform/temporal/activities/checkout"
)

// RunCheckoutSequence places the order. Rejections are non-retryable, so only
// transient write failures are attempted again.
func RunCheckoutSequence(ctx workflow.Context, cmd ordersdomain.CheckoutCommand) (*ordersdomain.Receipt, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout sequence started", "customerId", cmd.Actor.ID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var receipt ordersdomain.Receipt
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), checkoutactivities.PlaceOrderActivityName, cmd).Get(ctx, &receipt)
	if err != nil {
		logger.Error("checkout sequence failed", "customerId", cmd.Actor.ID, "error", err)
		return nil, err
	}
	logger.Info("checkout sequence completed", "orderId", receipt.OrderID)
	return &receipt, nil
}
