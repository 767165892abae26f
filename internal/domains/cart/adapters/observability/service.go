package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront-api/internal/domains/cart/ports"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{inner: inner, metrics: newServiceMetrics(nil)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) AddToCart(ctx context.Context, session string, actor identitydomain.Actor, productID int64, qty int) (*cartdomain.Cart, error) {
	ctx, span := s.start(ctx, "CartService.AddToCart", attribute.Int64("product.id", productID), attribute.Int("cart.quantity", qty))
	defer span.End()
	c, err := s.inner.AddToCart(ctx, session, actor, productID, qty)
	return s.mutated(ctx, span, "add", c, err, slog.Int64("product_id", productID), slog.Int64("account_id", actor.ID))
}

func (s *Service) SetQuantity(ctx context.Context, session string, actor identitydomain.Actor, productID int64, qty int) (*cartdomain.Cart, error) {
	ctx, span := s.start(ctx, "CartService.SetQuantity", attribute.Int64("product.id", productID), attribute.Int("cart.quantity", qty))
	defer span.End()
	c, err := s.inner.SetQuantity(ctx, session, actor, productID, qty)
	return s.mutated(ctx, span, "set", c, err, slog.Int64("product_id", productID))
}

func (s *Service) RemoveFromCart(ctx context.Context, session string, productID int64) (*cartdomain.Cart, error) {
	ctx, span := s.start(ctx, "CartService.RemoveFromCart", attribute.Int64("product.id", productID))
	defer span.End()
	c, err := s.inner.RemoveFromCart(ctx, session, productID)
	return s.mutated(ctx, span, "remove", c, err, slog.Int64("product_id", productID))
}

func (s *Service) Increase(ctx context.Context, session string, actor identitydomain.Actor, productID int64) (*cartdomain.Cart, error) {
	ctx, span := s.start(ctx, "CartService.Increase", attribute.Int64("product.id", productID))
	defer span.End()
	c, err := s.inner.Increase(ctx, session, actor, productID)
	return s.mutated(ctx, span, "increase", c, err, slog.Int64("product_id", productID))
}

func (s *Service) Decrease(ctx context.Context, session string, productID int64) (*cartdomain.Cart, error) {
	ctx, span := s.start(ctx, "CartService.Decrease", attribute.Int64("product.id", productID))
	defer span.End()
	c, err := s.inner.Decrease(ctx, session, productID)
	return s.mutated(ctx, span, "decrease", c, err, slog.Int64("product_id", productID))
}

func (s *Service) Entries(ctx context.Context, session string) ([]cartdomain.Entry, error) {
	ctx, span := s.start(ctx, "CartService.Entries")
	defer span.End()
	entries, err := s.inner.Entries(ctx, session)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to read cart")
	}
	return entries, nil
}

func (s *Service) TotalQuantity(ctx context.Context, session string) (int, error) {
	ctx, span := s.start(ctx, "CartService.TotalQuantity")
	defer span.End()
	total, err := s.inner.TotalQuantity(ctx, session)
	if err != nil {
		return 0, s.fail(ctx, span, err, "failed to read cart")
	}
	return total, nil
}

func (s *Service) Quote(ctx context.Context, session string) (cartdomain.Quote, error) {
	ctx, span := s.start(ctx, "CartService.Quote")
	defer span.End()
	quote, err := s.inner.Quote(ctx, session)
	if err != nil {
		return cartdomain.Quote{}, s.fail(ctx, span, err, "failed to price cart")
	}
	span.SetAttributes(
		attribute.Int("cart.lines", len(quote.Lines)),
		attribute.String("cart.grand_total", quote.GrandTotal.StringFixed(2)),
	)
	return quote, nil
}

func (s *Service) Clear(ctx context.Context, session string) error {
	ctx, span := s.start(ctx, "CartService.Clear")
	defer span.End()
	if err := s.inner.Clear(ctx, session); err != nil {
		return s.fail(ctx, span, err, "failed to clear cart")
	}
	s.metrics.recordMutation(ctx, "clear")
	return nil
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// mutated records the outcome of a cart mutation. Stock and capability
// rejections are expected and logged at info.
func (s *Service) mutated(ctx context.Context, span trace.Span, op string, c *cartdomain.Cart, err error, attrs ...slog.Attr) (*cartdomain.Cart, error) {
	if err != nil {
		if kind := faults.KindOf(err); kind != "" && kind != faults.KindPersistenceFailure {
			span.SetAttributes(attribute.String("cart.rejected", string(kind)))
			s.logger.LogAttrs(ctx, slog.LevelInfo, "cart change rejected", append(attrs, slog.String("operation", op), slog.String("reason", string(kind)))...)
			return nil, err
		}
		return nil, s.fail(ctx, span, err, "cart change failed", append(attrs, slog.String("operation", op))...)
	}
	span.SetAttributes(attribute.Int("cart.total_quantity", c.TotalQuantity()))
	s.metrics.recordMutation(ctx, op)
	return c, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	return err
}

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of applied cart changes"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

var _ cartports.Service = (*Service)(nil)
