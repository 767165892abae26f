package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
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

func (s *Service) Checkout(ctx context.Context, cmd ordersdomain.CheckoutCommand) (*ordersdomain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Checkout", trace.WithAttributes(
		attribute.Int64("identity.actor.id", cmd.Actor.ID),
		attribute.String("orders.payment_method", cmd.PaymentMethod.String()),
		attribute.Bool("orders.idempotent", cmd.IdempotencyKey != ""),
	))
	defer span.End()

	receipt, err := s.inner.Checkout(ctx, cmd)
	if err != nil {
		kind := faults.KindOf(err)
		s.metrics.recordRejected(ctx, kind)
		span.SetAttributes(attribute.String("orders.rejection_kind", string(kind)))
		// Validation outcomes are expected traffic; only failed writes are errors.
		if kind != "" && kind != faults.KindPersistenceFailure {
			span.RecordError(err)
			s.logger.LogAttrs(ctx, slog.LevelInfo, "checkout rejected",
				slog.Int64("customer_id", cmd.Actor.ID),
				slog.String("kind", string(kind)),
				slog.String("reason", err.Error()),
			)
			var stock *faults.InsufficientStockError
			if errors.As(err, &stock) {
				span.SetAttributes(attribute.Int64("product.id", stock.ProductID))
			}
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.Int64("customer_id", cmd.Actor.ID))
	}

	span.SetAttributes(
		attribute.Int64("orders.order_id", receipt.OrderID),
		attribute.Bool("orders.replayed", receipt.Replayed),
	)
	if receipt.Replayed {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "checkout replayed", slog.Int64("order_id", receipt.OrderID))
		return receipt, nil
	}
	s.metrics.recordPlaced(ctx, cmd.PaymentMethod)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order placed",
		slog.Int64("order_id", receipt.OrderID),
		slog.Int64("customer_id", cmd.Actor.ID),
		slog.String("total", receipt.TotalAmount.StringFixed(2)),
		slog.Int("lines", receipt.LineCount),
	)
	return receipt, nil
}

func (s *Service) ListMyOrders(ctx context.Context, actor identitydomain.Actor) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListMyOrders", trace.WithAttributes(attribute.Int64("identity.actor.id", actor.ID)))
	defer span.End()
	orders, err := s.inner.ListMyOrders(ctx, actor)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, actor identitydomain.Actor, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(
		attribute.Int64("identity.actor.id", actor.ID),
		attribute.Int64("orders.order_id", id),
	))
	defer span.End()
	order, err := s.inner.GetOrder(ctx, actor, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return order, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	placed   metric.Int64Counter
	rejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders committed by checkout"))
	rejected, _ := m.Int64Counter("orders.service.checkout_rejections", metric.WithDescription("Number of checkouts rejected, by error kind"))
	return serviceMetrics{placed: placed, rejected: rejected}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, payment ordersdomain.PaymentMethod) {
	if m.placed != nil {
		m.placed.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", payment.String())))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, kind faults.Kind) {
	if m.rejected == nil {
		return
	}
	label := string(kind)
	if label == "" {
		label = "other"
	}
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", label)))
}

var _ ordersports.Service = (*Service)(nil)
