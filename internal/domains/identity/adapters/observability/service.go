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

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/identity/adapters/observability/service"

// Service decorates the identity service with tracing, logging, and metrics.
// Passwords and session tokens are never logged.
type Service struct {
	inner   identityports.Service
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

// New wraps the core identity service.
func New(inner identityports.Service, opts ...Option) identityports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Login(ctx context.Context, creds identitydomain.Credentials) (*identitydomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Login")
	defer span.End()
	session, err := s.inner.Login(ctx, creds)
	if err != nil {
		s.metrics.recordLoginFailure(ctx)
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	span.SetAttributes(actorAttributes(session.Actor)...)
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "account signed in",
		slog.Int64("account_id", session.Actor.ID),
		slog.String("account_kind", string(session.Actor.Kind)),
		slog.String("role", session.Actor.Role.String()))
	return session, nil
}

func (s *Service) GuestSession(ctx context.Context) (*identitydomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.GuestSession")
	defer span.End()
	session, err := s.inner.GuestSession(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to open guest session")
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Resolve(ctx context.Context, token string) (*identitydomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Resolve")
	defer span.End()
	session, err := s.inner.Resolve(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(actorAttributes(session.Actor)...)
	return session, nil
}

func (s *Service) Register(ctx context.Context, registration identitydomain.Registration) (*identitydomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Register")
	defer span.End()
	account, err := s.inner.Register(ctx, registration)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "registration failed")
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "customer registered", slog.Int64("account_id", account.ID))
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context, actor identitydomain.Actor, query string) ([]*identitydomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.ListAccounts", trace.WithAttributes(actorAttributes(actor)...))
	defer span.End()
	accounts, err := s.inner.ListAccounts(ctx, actor, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list accounts")
	}
	span.SetAttributes(attribute.Int("identity.accounts.count", len(accounts)))
	return accounts, nil
}

func (s *Service) ChangeRole(ctx context.Context, actor identitydomain.Actor, kind identitydomain.AccountKind, id int64, role identitydomain.Role) (*identitydomain.Account, error) {
	attrs := append(actorAttributes(actor),
		attribute.String("identity.target.kind", string(kind)),
		attribute.Int64("identity.target.id", id),
		attribute.String("identity.target.role", role.String()))
	ctx, span := s.tracer.Start(ctx, "IdentityService.ChangeRole", trace.WithAttributes(attrs...))
	defer span.End()
	account, err := s.inner.ChangeRole(ctx, actor, kind, id, role)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change role", slog.Int64("account_id", id))
	}
	s.logInfo(ctx, "role changed",
		slog.Int64("account_id", id),
		slog.String("account_kind", string(kind)),
		slog.String("role", role.String()),
		slog.Int64("changed_by", actor.ID))
	return account, nil
}

func actorAttributes(actor identitydomain.Actor) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("identity.actor.id", actor.ID),
		attribute.String("identity.actor.role", actor.Role.String()),
	}
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	logins        metric.Int64Counter
	loginFailures metric.Int64Counter
	registrations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("identity.service.logins", metric.WithDescription("Number of successful sign-ins"))
	failures, _ := m.Int64Counter("identity.service.login_failures", metric.WithDescription("Number of rejected sign-ins"))
	registrations, _ := m.Int64Counter("identity.service.registrations", metric.WithDescription("Number of registered customers"))
	return serviceMetrics{logins: logins, loginFailures: failures, registrations: registrations}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLoginFailure(ctx context.Context) {
	if m.loginFailures != nil {
		m.loginFailures.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registrations != nil {
		m.registrations.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ identityports.Service = (*Service)(nil)
