package errors

import (
	"errors"

	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// MapFault maps the storefront error kinds to problems. Every kind keeps its
// own human-readable message as the detail.
func MapFault(err error) (ProblemDetail, bool) {
	switch faults.KindOf(err) {
	case faults.KindUnauthorized:
		return ErrForbidden.WithDetail(faults.ErrUnauthorized.Error()), true
	case faults.KindNotFound:
		return ErrNotFound.WithDetail(err.Error()), true
	case faults.KindInsufficientStock:
		problem := ErrInsufficientStock.WithDetail(err.Error())
		var stock *faults.InsufficientStockError
		if errors.As(err, &stock) {
			problem = problem.
				WithExtension("productId", stock.ProductID).
				WithExtension("productName", stock.ProductName).
				WithExtension("available", stock.Available)
		}
		return problem, true
	case faults.KindEmptyCart:
		return ErrEmptyCart.WithDetail(faults.ErrEmptyCart.Error()), true
	case faults.KindPersistenceFailure:
		return ErrUnavailable.WithDetail(faults.ErrPersistenceFailure.Error()), true
	default:
		return ProblemDetail{}, false
	}
}

// MapSentinel returns a mapper that answers with problem whenever err matches
// one of targets. The detail is err's message.
func MapSentinel(problem ProblemDetail, targets ...error) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		for _, target := range targets {
			if errors.Is(err, target) {
				return problem.WithDetail(err.Error()), true
			}
		}
		return ProblemDetail{}, false
	}
}
