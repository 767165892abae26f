package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the product violated an administration rule.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrProductInUse blocks deleting a product referenced by order lines.
	ErrProductInUse = errors.New("product is referenced by existing orders")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNameTooLong) ||
		errors.Is(err, domain.ErrEmptySKU) ||
		errors.Is(err, domain.ErrSKUTooLong) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrDiscountOutOfRange) ||
		errors.Is(err, ports.ErrSKUTaken) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
