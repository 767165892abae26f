package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// StockLedger is satisfied by the in-memory catalog repository.
type StockLedger interface {
	DecrementStock(ctx context.Context, productID int64, qty int) error
	RestoreStock(ctx context.Context, productID int64, qty int)
}

// UnitOfWork serializes every checkout behind one mutex and undoes the writes
// of a failed run in reverse order.
type UnitOfWork struct {
	mu     sync.Mutex
	orders *Repository
	stock  StockLedger
}

func NewUnitOfWork(orders *Repository, stock StockLedger) *UnitOfWork {
	return &UnitOfWork{orders: orders, stock: stock}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	tx := &memoryTx{orders: u.orders, stock: u.stock}
	if err := fn(ctx, tx); err != nil {
		tx.rollback(ctx)
		return err
	}
	return nil
}

type memoryTx struct {
	orders *Repository
	stock  StockLedger
	undo   []func(context.Context)
}

func (t *memoryTx) CreateOrder(_ context.Context, order *domain.Order) error {
	t.orders.insertOrder(order)
	id := order.ID
	t.undo = append(t.undo, func(context.Context) { t.orders.removeOrder(id) })
	return nil
}

func (t *memoryTx) AddLine(_ context.Context, line *domain.Line) error {
	if err := t.orders.insertLine(line); err != nil {
		return err
	}
	orderID, lineID := line.OrderID, line.ID
	t.undo = append(t.undo, func(context.Context) { t.orders.removeLine(orderID, lineID) })
	return nil
}

func (t *memoryTx) DecrementStock(ctx context.Context, productID int64, qty int) error {
	if err := t.stock.DecrementStock(ctx, productID, qty); err != nil {
		return err
	}
	t.undo = append(t.undo, func(ctx context.Context) { t.stock.RestoreStock(ctx, productID, qty) })
	return nil
}

func (t *memoryTx) rollback(ctx context.Context) {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i](ctx)
	}
	t.undo = nil
}
