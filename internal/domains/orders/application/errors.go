package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// ErrInvalidInput signals a malformed checkout request.
var ErrInvalidInput = errors.New("invalid checkout input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownPaymentMethod) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
