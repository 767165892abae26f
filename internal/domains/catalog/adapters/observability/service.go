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

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) Search(ctx context.Context, query catalogdomain.SearchQuery) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Search", trace.WithAttributes(
		attribute.String("catalog.query.sort", string(query.Sort)),
		attribute.Bool("catalog.query.expensive", query.OnlyExpensive),
		attribute.Bool("catalog.query.low_stock", query.LowStock),
	))
	defer span.End()
	products, err := s.inner.Search(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "catalog search failed")
	}
	span.SetAttributes(attribute.Int("catalog.results", len(products)))
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	product, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return product, nil
}

func (s *Service) CreateProduct(ctx context.Context, actor identitydomain.Actor, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct", trace.WithAttributes(attribute.Int64("identity.actor.id", actor.ID)))
	defer span.End()
	created, err := s.inner.CreateProduct(ctx, actor, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product")
	}
	s.metrics.recordSaved(ctx, "create")
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product created", slog.Int64("product_id", created.ID), slog.String("sku", created.SKU))
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, actor identitydomain.Actor, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(
		attribute.Int64("identity.actor.id", actor.ID),
		attribute.Int64("product.id", productID(product)),
	))
	defer span.End()
	updated, err := s.inner.UpdateProduct(ctx, actor, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product_id", productID(product)))
	}
	s.metrics.recordSaved(ctx, "update")
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product updated", slog.Int64("product_id", updated.ID), slog.Int("stock", updated.StockQuantity))
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, actor identitydomain.Actor, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(
		attribute.Int64("identity.actor.id", actor.ID),
		attribute.Int64("product.id", id),
	))
	defer span.End()
	if err := s.inner.DeleteProduct(ctx, actor, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product_id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "product deleted", slog.Int64("product_id", id))
	return nil
}

func productID(p *catalogdomain.Product) int64 {
	if p == nil {
		return 0
	}
	return p.ID
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	saved   metric.Int64Counter
	deleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	saved, _ := m.Int64Counter("catalog.service.products_saved", metric.WithDescription("Number of products created or updated"))
	deleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products deleted"))
	return serviceMetrics{saved: saved, deleted: deleted}
}

func (m serviceMetrics) recordSaved(ctx context.Context, op string) {
	if m.saved != nil {
		m.saved.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

var _ catalogports.Service = (*Service)(nil)
