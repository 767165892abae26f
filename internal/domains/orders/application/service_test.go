package application

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

const session = "session-1"

var (
	customer = identitydomain.Actor{ID: 7, Kind: identitydomain.KindCustomer, Role: identitydomain.RoleCustomer}
	manager  = identitydomain.Actor{ID: 2, Kind: identitydomain.KindEmployee, Role: identitydomain.RoleManager}
	fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, event ports.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fixture struct {
	svc       *Service
	carts     *cartmemory.Store
	catalog   *catalogmemory.Repository
	orders    *ordersmemory.Repository
	uow       *ordersmemory.UnitOfWork
	publisher *recordingPublisher
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	ctx := context.Background()
	catalog := catalogmemory.NewRepository()
	for _, p := range []*catalogdomain.Product{
		{ID: 1, SKU: "P1", Name: "Kettle", Price: decimal.NewFromInt(100), StockQuantity: 5},
		{ID: 2, SKU: "P2", Name: "Toaster", Price: decimal.NewFromInt(250), StockQuantity: 2},
		{ID: 3, SKU: "P3", Name: "Lamp", Price: decimal.RequireFromString("19.90"), StockQuantity: 2},
		{ID: 4, SKU: "P4", Name: "Desk", Price: decimal.NewFromInt(900), StockQuantity: 0},
	} {
		_, err := catalog.Save(ctx, p)
		require.NoError(t, err)
	}
	f := fixture{
		carts:     cartmemory.NewStore(),
		catalog:   catalog,
		orders:    ordersmemory.NewRepository(),
		publisher: &recordingPublisher{},
	}
	f.uow = ordersmemory.NewUnitOfWork(f.orders, catalog)
	opts = append([]Option{WithPublisher(f.publisher), WithClock(func() time.Time { return fixedNow })}, opts...)
	f.svc = NewService(f.carts, catalog, f.uow, f.orders, opts...)
	return f
}

func (f fixture) fill(t *testing.T, entries ...cartdomain.Entry) {
	t.Helper()
	_, err := f.carts.Update(context.Background(), session, func(c *cartdomain.Cart) error {
		for _, e := range entries {
			c.Add(e.ProductID, e.Quantity)
		}
		return nil
	})
	require.NoError(t, err)
}

func (f fixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.catalog.FindProduct(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f fixture) cartEntries(t *testing.T) []cartdomain.Entry {
	t.Helper()
	c, err := f.carts.Get(context.Background(), session)
	require.NoError(t, err)
	return c.Entries()
}

func checkoutCommand(actor identitydomain.Actor) domain.CheckoutCommand {
	return domain.CheckoutCommand{SessionToken: session, Actor: actor, PaymentMethod: domain.PaymentCash}
}

func TestCheckout_DecrementsStockAndEmptiesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 3})

	receipt, err := f.svc.Checkout(ctx, checkoutCommand(customer))
	require.NoError(t, err)
	assert.NotZero(t, receipt.OrderID)
	assert.False(t, receipt.Replayed)
	assert.Equal(t, "300.00", receipt.TotalAmount.StringFixed(2))

	assert.Equal(t, 2, f.stock(t, 1))
	assert.Empty(t, f.cartEntries(t))

	order, err := f.orders.Get(ctx, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, order.Status)
	assert.Equal(t, domain.PaymentCash, order.PaymentMethod)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, fixedNow, order.OrderDate)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, receipt.OrderID, order.Lines[0].OrderID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, receipt.OrderID, f.publisher.events[0].OrderID)
	assert.Equal(t, "cash", f.publisher.events[0].PaymentMethod)
}

func TestCheckout_Conservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fill(t,
		cartdomain.Entry{ProductID: 1, Quantity: 2},
		cartdomain.Entry{ProductID: 2, Quantity: 2},
		cartdomain.Entry{ProductID: 3, Quantity: 1},
	)
	before := map[int64]int{1: f.stock(t, 1), 2: f.stock(t, 2), 3: f.stock(t, 3)}

	receipt, err := f.svc.Checkout(ctx, checkoutCommand(customer))
	require.NoError(t, err)

	order, err := f.orders.Get(ctx, receipt.OrderID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(order.LinesTotal()))
	assert.Equal(t, "719.90", order.TotalAmount.StringFixed(2))
	for _, l := range order.Lines {
		assert.Equal(t, before[l.ProductID]-l.Quantity, f.stock(t, l.ProductID))
	}
}

func TestOrdersRequireCustomerAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})
	receipt, err := f.svc.Checkout(ctx, checkoutCommand(customer))
	require.NoError(t, err)

	// employee #7 shares its id with customer #7
	employee := identitydomain.Actor{ID: customer.ID, Kind: identitydomain.KindEmployee, Role: identitydomain.RoleCustomer}
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})
	_, err = f.svc.Checkout(ctx, checkoutCommand(employee))
	require.ErrorIs(t, err, faults.ErrUnauthorized)
	assert.Equal(t, 4, f.stock(t, 1))

	_, err = f.svc.ListMyOrders(ctx, employee)
	require.ErrorIs(t, err, faults.ErrUnauthorized)
	_, err = f.svc.GetOrder(ctx, employee, receipt.OrderID)
	require.ErrorIs(t, err, faults.ErrUnauthorized)

	history, err := f.orders.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCheckout_ConcurrentSessionsCannotOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const sessions = 4
	for i := 0; i < sessions; i++ {
		_, err := f.carts.Update(ctx, "session-"+strconv.Itoa(i), func(c *cartdomain.Cart) error {
			c.Add(2, 2)
			return nil
		})
		require.NoError(t, err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := checkoutCommand(identitydomain.Actor{ID: int64(10 + i), Kind: identitydomain.KindCustomer, Role: identitydomain.RoleCustomer})
			cmd.SessionToken = "session-" + strconv.Itoa(i)
			_, err := f.svc.Checkout(ctx, cmd)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, faults.ErrInsufficientStock) {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, sessions-1, rejected)
	assert.Equal(t, 0, f.stock(t, 2))
	inUse, err := f.orders.ProductInUse(ctx, 2)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestCheckout_EmptyCartIsRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), checkoutCommand(customer))
	require.ErrorIs(t, err, faults.ErrEmptyCart)
	assert.Empty(t, f.publisher.events)
}

func TestCheckout_RequiresCustomer(t *testing.T) {
	f := newFixture(t)
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})

	for _, actor := range []identitydomain.Actor{identitydomain.Guest(), manager} {
		_, err := f.svc.Checkout(context.Background(), checkoutCommand(actor))
		require.ErrorIs(t, err, faults.ErrUnauthorized)
	}
	assert.Equal(t, 5, f.stock(t, 1))
	assert.Len(t, f.cartEntries(t), 1)
}

func TestCheckout_NoPartialCommitWhenALineLacksStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fill(t, cartdomain.Entry{ProductID: 3, Quantity: 2}, cartdomain.Entry{ProductID: 4, Quantity: 1})

	_, err := f.svc.Checkout(ctx, checkoutCommand(customer))
	var stock *faults.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, int64(4), stock.ProductID)
	assert.Equal(t, "Desk", stock.ProductName)

	assert.Equal(t, 2, f.stock(t, 3))
	assert.Len(t, f.cartEntries(t), 2)
	history, err := f.orders.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})
	cmd := checkoutCommand(customer)
	cmd.PaymentMethod = 9

	_, err := f.svc.Checkout(context.Background(), cmd)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrUnknownPaymentMethod)
}

type failingUnitOfWork struct {
	inner     ports.UnitOfWork
	failAfter int
}

func (u failingUnitOfWork) Within(ctx context.Context, fn func(context.Context, ports.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx ports.Tx) error {
		return fn(ctx, &failingTx{Tx: tx, remaining: u.failAfter})
	})
}

type failingTx struct {
	ports.Tx
	remaining int
}

func (t *failingTx) DecrementStock(ctx context.Context, productID int64, qty int) error {
	if t.remaining == 0 {
		return errors.New("connection reset by peer")
	}
	t.remaining--
	return t.Tx.DecrementStock(ctx, productID, qty)
}

func TestCheckout_PersistenceFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 2}, cartdomain.Entry{ProductID: 2, Quantity: 1})
	svc := NewService(f.carts, f.catalog, failingUnitOfWork{inner: f.uow, failAfter: 1}, f.orders, WithPublisher(f.publisher))

	_, err := svc.Checkout(ctx, checkoutCommand(customer))
	require.ErrorIs(t, err, faults.ErrPersistenceFailure)
	assert.Equal(t, faults.KindPersistenceFailure, faults.KindOf(err))

	assert.Equal(t, 5, f.stock(t, 1))
	assert.Equal(t, 2, f.stock(t, 2))
	assert.Len(t, f.cartEntries(t), 2)
	history, err := f.orders.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	inUse, err := f.orders.ProductInUse(ctx, 1)
	require.NoError(t, err)
	assert.False(t, inUse)
	assert.Empty(t, f.publisher.events)
}

func TestCheckout_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})

	receipt, err := f.svc.Checkout(context.Background(), checkoutCommand(customer))
	require.NoError(t, err)
	assert.NotZero(t, receipt.OrderID)
	assert.Empty(t, f.cartEntries(t))
}

func TestCheckout_IdempotentReplay(t *testing.T) {
	f := newFixture(t, WithIdempotency(ordersmemory.NewIdempotencyStore()))
	ctx := context.Background()
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 3})
	cmd := checkoutCommand(customer)
	cmd.IdempotencyKey = "retry-1"

	first, err := f.svc.Checkout(ctx, cmd)
	require.NoError(t, err)

	// the cart is empty now; a retry must replay instead of failing
	second, err := f.svc.Checkout(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.Equal(t, 2, f.stock(t, 1))
	assert.Len(t, f.publisher.events, 1)

	conflicting := cmd
	conflicting.PaymentMethod = domain.PaymentCard
	_, err = f.svc.Checkout(ctx, conflicting)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestCheckout_ConcurrentRetriesPlaceOneOrder(t *testing.T) {
	f := newFixture(t, WithIdempotency(ordersmemory.NewIdempotencyStore()))
	ctx := context.Background()
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})
	cmd := checkoutCommand(customer)
	cmd.IdempotencyKey = "double-click"

	const attempts = 5
	receipts := make([]*domain.Receipt, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipts[i], errs[i] = f.svc.Checkout(ctx, cmd)
		}(i)
	}
	wg.Wait()

	placed := 0
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, receipts[0].OrderID, receipts[i].OrderID)
		if !receipts[i].Replayed {
			placed++
		}
	}
	assert.Equal(t, 1, placed)
	assert.Equal(t, 4, f.stock(t, 1))
	history, err := f.orders.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Len(t, f.publisher.events, 1)
	assert.Zero(t, f.svc.keyed.len())
}

func TestKeyLocksSerialisePerKey(t *testing.T) {
	locks := newKeyLocks()
	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	assert.Equal(t, 2, locks.len())

	acquired := make(chan struct{})
	go func() {
		unlock := locks.lock("a")
		close(acquired)
		unlock()
	}()
	select {
	case <-acquired:
		t.Fatal("second holder acquired a held key")
	case <-time.After(20 * time.Millisecond):
	}
	unlockB()
	unlockA()
	<-acquired
	assert.Eventually(t, func() bool { return locks.len() == 0 }, time.Second, time.Millisecond)
}

func TestCheckout_KeyIgnoredWithoutStore(t *testing.T) {
	f := newFixture(t)
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})
	cmd := checkoutCommand(customer)
	cmd.IdempotencyKey = "retry-1"

	_, err := f.svc.Checkout(context.Background(), cmd)
	require.NoError(t, err)
	_, err = f.svc.Checkout(context.Background(), cmd)
	require.ErrorIs(t, err, faults.ErrEmptyCart)
}

func TestOrderHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fill(t, cartdomain.Entry{ProductID: 1, Quantity: 1})
	receipt, err := f.svc.Checkout(ctx, checkoutCommand(customer))
	require.NoError(t, err)

	mine, err := f.svc.ListMyOrders(ctx, customer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, receipt.OrderID, mine[0].ID)

	_, err = f.svc.ListMyOrders(ctx, identitydomain.Guest())
	require.ErrorIs(t, err, faults.ErrUnauthorized)

	other := identitydomain.Actor{ID: 8, Kind: identitydomain.KindCustomer, Role: identitydomain.RoleCustomer}
	_, err = f.svc.GetOrder(ctx, other, receipt.OrderID)
	require.ErrorIs(t, err, faults.ErrNotFound)

	order, err := f.svc.GetOrder(ctx, manager, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, order.CustomerID)

	courier := identitydomain.Actor{ID: 3, Kind: identitydomain.KindEmployee, Role: identitydomain.RoleCourier}
	_, err = f.svc.GetOrder(ctx, courier, receipt.OrderID)
	require.ErrorIs(t, err, faults.ErrUnauthorized)

	inUse, err := f.svc.ProductInUse(ctx, 1)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestFingerprintCheckout(t *testing.T) {
	a, err := FingerprintCheckout(checkoutCommand(customer))
	require.NoError(t, err)
	b, err := FingerprintCheckout(checkoutCommand(customer))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	card := checkoutCommand(customer)
	card.PaymentMethod = domain.PaymentCard
	c, err := FingerprintCheckout(card)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
