package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// CheckoutOrchestrator runs a checkout, either durably or in-process.
type CheckoutOrchestrator interface {
	Checkout(ctx context.Context, cmd domain.CheckoutCommand) (*domain.Receipt, error)
}
