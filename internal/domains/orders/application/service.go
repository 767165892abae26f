package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	cartapplication "github.com/Apurer/storefront-api/internal/domains/cart/application"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// Service is the checkout engine plus order history.
type Service struct {
	carts       ports.CartSource
	products    catalogports.Lookup
	uow         ports.UnitOfWork
	orders      ports.Repository
	publisher   ports.EventPublisher
	idempotency ports.IdempotencyStore
	keyed       *keyLocks
	logger      *slog.Logger
	now         func() time.Time
	newEventID  func() string
}

// Option customises the orders service.
type Option func(*Service)

func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithIdempotency enables replay of checkouts that carry an idempotency key.
func WithIdempotency(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(carts ports.CartSource, products catalogports.Lookup, uow ports.UnitOfWork, orders ports.Repository, opts ...Option) *Service {
	s := &Service{
		carts:      carts,
		products:   products,
		uow:        uow,
		orders:     orders,
		publisher:  ports.NoopPublisher{},
		keyed:      newKeyLocks(),
		logger:     slog.Default(),
		now:        time.Now,
		newEventID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout converts the session's cart into an order. Every check runs before
// the first write; the writes then commit together or not at all, and the cart
// is cleared only after a successful commit.
func (s *Service) Checkout(ctx context.Context, cmd domain.CheckoutCommand) (*domain.Receipt, error) {
	var run domain.Checkout
	run.Advance(domain.StageValidating)
	receipt, err := s.checkout(ctx, &run, cmd)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "checkout rejected",
			slog.String("stage", run.Stage().String()),
			slog.Int64("customer_id", cmd.Actor.ID),
			slog.String("error", err.Error()),
		)
		run.Advance(domain.StageRejected)
		return nil, err
	}
	return receipt, nil
}

func (s *Service) checkout(ctx context.Context, run *domain.Checkout, cmd domain.CheckoutCommand) (*domain.Receipt, error) {
	if !cmd.Actor.Can(identitydomain.CapabilityPlaceOrder) {
		return nil, faults.ErrUnauthorized
	}
	payment, err := domain.ParsePaymentMethod(int(cmd.PaymentMethod))
	if err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(cmd.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		if fingerprint, err = FingerprintCheckout(cmd); err != nil {
			return nil, err
		}
		// held until the key is saved so a concurrent retry replays this order
		unlock := s.keyed.lock(key)
		defer unlock()
		receipt, err := s.replay(ctx, key, fingerprint)
		if err != nil || receipt != nil {
			return receipt, err
		}
	}

	cart, err := s.carts.Get(ctx, cmd.SessionToken)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, faults.ErrEmptyCart
	}

	run.Advance(domain.StageReserving)
	lines, err := cartapplication.LineItems(ctx, s.products, cart.Entries())
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, faults.ErrEmptyCart
	}
	for _, line := range lines {
		if line.Available < line.Quantity {
			return nil, faults.InsufficientStock(line.ProductID, line.Name, line.Available, line.Quantity)
		}
	}
	order := domain.NewOrder(cmd.Actor.ID, payment, lines, s.now().UTC())

	run.Advance(domain.StageCommitting)
	err = s.uow.Within(ctx, func(ctx context.Context, tx ports.Tx) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		for i := range order.Lines {
			line := &order.Lines[i]
			line.OrderID = order.ID
			if err := tx.AddLine(ctx, line); err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, faults.ErrInsufficientStock) {
			return nil, err
		}
		return nil, faults.Persistence(err)
	}

	s.afterCommit(ctx, cmd.SessionToken, key, fingerprint, order)
	run.Advance(domain.StageCleared)
	return receiptFor(order, false), nil
}

// replay returns the receipt of an earlier checkout stored under key, or nil
// when the key is new.
func (s *Service) replay(ctx context.Context, key, fingerprint string) (*domain.Receipt, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := s.orders.Get(ctx, record.OrderID)
	if err != nil {
		return nil, err
	}
	return receiptFor(order, true), nil
}

// afterCommit runs the follow-ups of a committed order. None of them can undo
// the order, so failures are only logged.
func (s *Service) afterCommit(ctx context.Context, session, key, fingerprint string, order *domain.Order) {
	attrs := []slog.Attr{slog.Int64("order_id", order.ID), slog.Int64("customer_id", order.CustomerID)}
	if key != "" && s.idempotency != nil {
		_, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: order.ID})
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "store checkout idempotency key failed", append(attrs, slog.String("error", err.Error()))...)
		}
	}
	if err := s.carts.Delete(ctx, session); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "clear cart after checkout failed", append(attrs, slog.String("error", err.Error()))...)
	}
	if err := s.publisher.PublishOrderPlaced(ctx, s.orderPlaced(order)); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "publish order placed failed", append(attrs, slog.String("error", err.Error()))...)
	}
}

func (s *Service) orderPlaced(order *domain.Order) ports.OrderPlaced {
	event := ports.OrderPlaced{
		EventID:       s.newEventID(),
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod.String(),
		Lines:         make([]ports.OrderPlacedLine, 0, len(order.Lines)),
		OccurredAt:    order.OrderDate,
	}
	for _, l := range order.Lines {
		event.Lines = append(event.Lines, ports.OrderPlacedLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return event
}

// ListMyOrders returns the actor's own orders, newest first.
func (s *Service) ListMyOrders(ctx context.Context, actor identitydomain.Actor) ([]*domain.Order, error) {
	if !actor.Can(identitydomain.CapabilityViewOwnOrders) {
		return nil, faults.ErrUnauthorized
	}
	return s.orders.ListByCustomer(ctx, actor.ID)
}

// GetOrder lets staff who browse tables read any order and customers read
// their own. Someone else's order reads as not found.
func (s *Service) GetOrder(ctx context.Context, actor identitydomain.Actor, id int64) (*domain.Order, error) {
	staff := actor.Can(identitydomain.CapabilityBrowseTables)
	if !staff && !actor.Can(identitydomain.CapabilityViewOwnOrders) {
		return nil, faults.ErrUnauthorized
	}
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !staff && order.CustomerID != actor.ID {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// ProductInUse reports whether any order line references the product.
func (s *Service) ProductInUse(ctx context.Context, productID int64) (bool, error) {
	return s.orders.ProductInUse(ctx, productID)
}

func receiptFor(order *domain.Order, replayed bool) *domain.Receipt {
	return &domain.Receipt{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		LineCount:   len(order.Lines),
		Replayed:    replayed,
	}
}

var _ ports.Service = (*Service)(nil)
