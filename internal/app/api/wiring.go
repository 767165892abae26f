package api

import (
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/storefront-api/internal/domains/cart/adapters/observability"
	cartredis "github.com/Apurer/storefront-api/internal/domains/cart/adapters/redis"
	cartapp "github.com/Apurer/storefront-api/internal/domains/cart/application"
	cartports "github.com/Apurer/storefront-api/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	identitymemory "github.com/Apurer/storefront-api/internal/domains/identity/adapters/memory"
	identityobs "github.com/Apurer/storefront-api/internal/domains/identity/adapters/observability"
	identitypostgres "github.com/Apurer/storefront-api/internal/domains/identity/adapters/persistence/postgres"
	identityapp "github.com/Apurer/storefront-api/internal/domains/identity/application"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	referencememory "github.com/Apurer/storefront-api/internal/domains/reference/adapters/memory"
	referencepostgres "github.com/Apurer/storefront-api/internal/domains/reference/adapters/persistence/postgres"
	referenceapp "github.com/Apurer/storefront-api/internal/domains/reference/application"
	referenceports "github.com/Apurer/storefront-api/internal/domains/reference/ports"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
)

type sessionStore interface {
	identityports.SessionStore
	identityports.SessionPurger
}

type referenceStore interface {
	referenceports.Repository
	referenceports.Directory
}

// stores holds one adapter per port, all backed by the same storage choice.
type stores struct {
	accounts    identityports.Repository
	sessions    sessionStore
	products    catalogports.Repository
	carts       cartports.Store
	orders      ordersports.Repository
	uow         ordersports.UnitOfWork
	idempotency ordersports.IdempotencyStore
	reference   referenceStore
}

// buildStores picks Postgres when db is set and memory otherwise. The cart
// store follows rdb independently.
func buildStores(db *gorm.DB, rdb goredis.UniversalClient, cfg Config, logger *slog.Logger) stores {
	var s stores
	if db != nil {
		s = stores{
			accounts:    identitypostgres.NewRepository(db),
			sessions:    identitypostgres.NewSessionStore(db),
			products:    catalogpostgres.NewRepository(db),
			orders:      orderspostgres.NewRepository(db),
			uow:         orderspostgres.NewUnitOfWork(db),
			idempotency: orderspostgres.NewIdempotencyStore(db),
			reference:   referencepostgres.NewRepository(db),
		}
		logger.Info("repositories configured with postgres")
	} else {
		products := catalogmemory.NewRepository()
		orders := ordersmemory.NewRepository()
		s = stores{
			accounts:    identitymemory.NewRepository(),
			sessions:    identitymemory.NewSessionStore(),
			products:    products,
			orders:      orders,
			uow:         ordersmemory.NewUnitOfWork(orders, products),
			idempotency: ordersmemory.NewIdempotencyStore(),
			reference:   referencememory.NewRepository(products, orders),
		}
	}
	if rdb != nil {
		s.carts = cartredis.NewStore(rdb, cfg.CartTTL)
		logger.Info("cart store configured with redis", slog.Duration("ttl", cfg.CartTTL))
	} else {
		s.carts = cartmemory.NewStore()
	}
	return s
}

// services are the decorated application services the transport depends on.
type services struct {
	identity identityports.Service
	catalog  catalogports.Service
	carts    cartports.Service
	orders   ordersports.Service
	tables   referenceports.Service
}

func buildServices(s stores, cfg Config, publisher ordersports.EventPublisher, instruments *platformobservability.Instruments) services {
	logger := instruments.Logger

	coreCarts := cartapp.NewService(s.carts, s.products)
	coreIdentity := identityapp.NewService(s.accounts, s.sessions,
		identityapp.WithCartResetter(coreCarts),
		identityapp.WithSessionTTL(cfg.SessionTTL),
	)
	coreCatalog := catalogapp.NewService(s.products, s.orders)
	coreOrders := ordersapp.NewService(s.carts, s.products, s.uow, s.orders,
		ordersapp.WithPublisher(publisher),
		ordersapp.WithIdempotency(s.idempotency),
		ordersapp.WithLogger(logger),
	)

	return services{
		identity: identityobs.New(coreIdentity,
			identityobs.WithLogger(logger),
			identityobs.WithTracer(instruments.Tracer("internal.identity.application")),
			identityobs.WithMeter(instruments.Meter("internal.identity.application")),
		),
		catalog: catalogobs.New(coreCatalog,
			catalogobs.WithLogger(logger),
			catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
			catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
		),
		carts: cartobs.New(coreCarts,
			cartobs.WithLogger(logger),
			cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
			cartobs.WithMeter(instruments.Meter("internal.cart.application")),
		),
		orders: ordersobs.New(coreOrders,
			ordersobs.WithLogger(logger),
			ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
			ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
		tables: referenceapp.NewService(s.reference),
	}
}
