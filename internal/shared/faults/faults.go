// Package faults defines the error kinds surfaced by the storefront core.
// Adapters and transports classify errors with errors.Is / errors.As against
// these values rather than inspecting messages.
package faults

import (
	"errors"
	"fmt"
)

// Kind names an error category in a transport-neutral way.
type Kind string

const (
	KindUnauthorized       Kind = "Unauthorized"
	KindNotFound           Kind = "NotFound"
	KindInsufficientStock  Kind = "InsufficientStock"
	KindEmptyCart          Kind = "EmptyCart"
	KindPersistenceFailure Kind = "PersistenceFailure"
)

var (
	// ErrUnauthorized signals the actor lacks the capability for the operation.
	ErrUnauthorized = errors.New("you are not allowed to perform this action")
	// ErrNotFound signals a referenced entity does not exist.
	ErrNotFound = errors.New("the requested item was not found")
	// ErrInsufficientStock matches every *InsufficientStockError.
	ErrInsufficientStock = errors.New("not enough items in stock")
	// ErrEmptyCart signals checkout was attempted with no entries.
	ErrEmptyCart = errors.New("your cart is empty")
	// ErrPersistenceFailure signals the transactional write failed and was rolled back.
	ErrPersistenceFailure = errors.New("the order could not be saved, nothing was charged or reserved")
)

// InsufficientStockError carries the product that blocked a cart or checkout operation.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("not enough %s in stock: available %d, requested %d", name, e.Available, e.Requested)
}

// Is lets errors.Is(err, ErrInsufficientStock) match.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InsufficientStock builds the stock error for a product.
func InsufficientStock(productID int64, name string, available, requested int) error {
	return &InsufficientStockError{ProductID: productID, ProductName: name, Available: available, Requested: requested}
}

// Persistence wraps a failed transactional write.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
}

// KindOf classifies err, returning "" for errors outside the core kinds.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmptyCart):
		return KindEmptyCart
	case errors.Is(err, ErrPersistenceFailure):
		return KindPersistenceFailure
	default:
		return ""
	}
}

// FromKind rebuilds a classified error from its kind and message, used when an
// error crossed a serialization boundary. stock may be nil for other kinds.
func FromKind(kind Kind, message string, stock *InsufficientStockError) error {
	switch kind {
	case KindInsufficientStock:
		if stock != nil {
			copy := *stock
			return &copy
		}
		return fmt.Errorf("%w: %s", ErrInsufficientStock, message)
	case KindUnauthorized:
		return wrapMessage(ErrUnauthorized, message)
	case KindNotFound:
		return wrapMessage(ErrNotFound, message)
	case KindEmptyCart:
		return wrapMessage(ErrEmptyCart, message)
	case KindPersistenceFailure:
		return wrapMessage(ErrPersistenceFailure, message)
	default:
		return errors.New(message)
	}
}

func wrapMessage(sentinel error, message string) error {
	if message == "" || message == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}
