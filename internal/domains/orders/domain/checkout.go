package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

// Stage is a step of the checkout state machine:
// Idle → Validating → Reserving → Committing → Cleared, or any pre-commit stage → Rejected.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageReserving
	StageCommitting
	StageCleared
	StageRejected
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageReserving:
		return "reserving"
	case StageCommitting:
		return "committing"
	case StageCleared:
		return "cleared"
	case StageRejected:
		return "rejected"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// CanAdvance reports whether the machine may move from s to next.
func (s Stage) CanAdvance(next Stage) bool {
	if next == StageRejected {
		return s != StageCleared && s != StageRejected
	}
	return s != StageRejected && next == s+1 && next <= StageCleared
}

// Checkout tracks one checkout run through its stages.
type Checkout struct {
	stage Stage
}

func (c *Checkout) Stage() Stage { return c.stage }

// Advance moves to next, panicking on an illegal transition since that is a programming error.
func (c *Checkout) Advance(next Stage) {
	if !c.stage.CanAdvance(next) {
		panic(fmt.Sprintf("checkout: illegal transition %s → %s", c.stage, next))
	}
	c.stage = next
}

// CheckoutCommand asks to turn the session's cart into an order.
type CheckoutCommand struct {
	SessionToken   string
	Actor          identitydomain.Actor
	PaymentMethod  PaymentMethod
	IdempotencyKey string
}

// Receipt describes a placed order.
type Receipt struct {
	OrderID     int64
	TotalAmount decimal.Decimal
	LineCount   int
	// Replayed is set when the receipt came from a stored idempotency key.
	Replayed bool
}
