package checkout

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/platform/temporal/sequences"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "orders.workflows.Checkout"
	// CheckoutTaskQueue is the queue consumed by the checkout worker.
	CheckoutTaskQueue = "CHECKOUT"
)

// CheckoutWorkflowInput carries the checkout command and the caller's trace id.
type CheckoutWorkflowInput struct {
	Command ordersdomain.CheckoutCommand
	TraceID string
}

// CheckoutWorkflow turns a session's cart into an order.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*ordersdomain.Receipt, error) {
	logger := workflow.GetLogger(ctx)
	customerID := input.Command.Actor.ID
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "customerId", customerID)...)
	receipt, err := sequences.RunCheckoutSequence(ctx, input.Command)
	if err != nil {
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "customerId", customerID, "error", err)...)
		return nil, err
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", receipt.OrderID, "replayed", receipt.Replayed)...)
	return receipt, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
