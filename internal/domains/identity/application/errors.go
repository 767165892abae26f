package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/identity/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid account input")
	// ErrAuthentication wraps authentication failures.
	ErrAuthentication = errors.New("authentication failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrEmailTooLong) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrPasswordLength) ||
		errors.Is(err, domain.ErrPasswordControl) ||
		errors.Is(err, domain.ErrPasswordSpaces) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrPasswordMismatch) ||
		errors.Is(err, domain.ErrEmptyLastName) ||
		errors.Is(err, domain.ErrEmptyFirstName) ||
		errors.Is(err, domain.ErrNameTooLong) ||
		errors.Is(err, domain.ErrInvalidPhone) ||
		errors.Is(err, domain.ErrInvalidAccountKind) ||
		errors.Is(err, domain.ErrUnknownRole) ||
		errors.Is(err, domain.ErrGuestRole) ||
		errors.Is(err, domain.ErrRoleKindMismatch) ||
		errors.Is(err, ports.ErrEmailTaken) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
