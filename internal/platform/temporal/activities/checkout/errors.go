package checkout

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	ordersapplication "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// Application error types for failures outside the fault kinds.
const (
	ErrorTypeInvalidInput        = "InvalidInput"
	ErrorTypeIdempotencyConflict = "IdempotencyConflict"
)

// EncodeError turns a checkout error into a Temporal application error whose
// type names the error kind. Persistence failures stay retryable because the
// unit of work rolled back; everything else is final.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	kind := faults.KindOf(err)
	switch {
	case kind == faults.KindPersistenceFailure:
		return temporal.NewApplicationErrorWithCause(err.Error(), string(kind), err)
	case kind == faults.KindInsufficientStock:
		var stock *faults.InsufficientStockError
		if errors.As(err, &stock) {
			return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err, *stock)
		}
		return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
	case kind != "":
		return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
	case errors.Is(err, ordersapplication.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeIdempotencyConflict, err)
	default:
		return err
	}
}

// DecodeError rebuilds the error EncodeError produced once it has crossed the
// workflow boundary, so callers can keep using errors.Is and errors.As.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	message := appErr.Message()
	switch appErr.Type() {
	case ErrorTypeInvalidInput:
		return fmt.Errorf("%w: %s", ordersapplication.ErrInvalidInput, message)
	case ErrorTypeIdempotencyConflict:
		return ordersports.ErrIdempotencyConflict
	case string(faults.KindInsufficientStock):
		var stock faults.InsufficientStockError
		if appErr.HasDetails() && appErr.Details(&stock) == nil {
			return faults.FromKind(faults.KindInsufficientStock, message, &stock)
		}
		return faults.FromKind(faults.KindInsufficientStock, message, nil)
	case string(faults.KindUnauthorized), string(faults.KindNotFound), string(faults.KindEmptyCart), string(faults.KindPersistenceFailure):
		return faults.FromKind(faults.Kind(appErr.Type()), message, nil)
	default:
		return err
	}
}
