package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	checkoutactivities "github.com/Apurer/storefront-api/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/storefront-api/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.CheckoutOrchestrator = (*TemporalCheckoutWorkflows)(nil)
	_ ports.CheckoutOrchestrator = (*InlineCheckoutWorkflows)(nil)
)

// TemporalCheckoutWorkflows runs checkouts as Temporal workflows.
type TemporalCheckoutWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalCheckoutWorkflows(c client.Client) *TemporalCheckoutWorkflows {
	return &TemporalCheckoutWorkflows{client: c, taskQueue: checkoutworkflows.CheckoutTaskQueue}
}

// Checkout starts the checkout workflow and waits for its receipt. A retry with
// the same idempotency key attaches to the run already in flight.
func (o *TemporalCheckoutWorkflows) Checkout(ctx context.Context, cmd domain.CheckoutCommand) (*domain.Receipt, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildCheckoutWorkflowID(cmd, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.CheckoutWorkflow,
		checkoutworkflows.CheckoutWorkflowInput{Command: cmd, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) || strings.TrimSpace(cmd.IdempotencyKey) == "" {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var receipt domain.Receipt
	if err := run.Get(ctx, &receipt); err != nil {
		return nil, checkoutactivities.DecodeError(err)
	}
	return &receipt, nil
}

// InlineCheckoutWorkflows calls the service directly, for tests and when Temporal is unavailable.
type InlineCheckoutWorkflows struct {
	service ports.Service
}

func NewInlineCheckoutWorkflows(service ports.Service) *InlineCheckoutWorkflows {
	return &InlineCheckoutWorkflows{service: service}
}

func (o *InlineCheckoutWorkflows) Checkout(ctx context.Context, cmd domain.CheckoutCommand) (*domain.Receipt, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline checkout workflows not configured")
	}
	return o.service.Checkout(ctx, cmd)
}

func buildCheckoutWorkflowID(cmd domain.CheckoutCommand, traceComponent string) string {
	if key := strings.TrimSpace(cmd.IdempotencyKey); key != "" {
		return fmt.Sprintf("checkout-idem-%d-%s", cmd.Actor.ID, hashIdempotencyKey(key))
	}
	return fmt.Sprintf("checkout-%d-%s", cmd.Actor.ID, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
