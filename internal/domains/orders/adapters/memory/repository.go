package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in process memory. Writes go through UnitOfWork.
type Repository struct {
	mu          sync.RWMutex
	orders      map[int64]*domain.Order
	nextOrderID int64
	nextLineID  int64
}

func NewRepository() *Repository {
	return &Repository{orders: make(map[int64]*domain.Order), nextOrderID: 1, nextLineID: 1}
}

func (r *Repository) ListByCustomer(_ context.Context, customerID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *Repository) ProductInUse(_ context.Context, productID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		for _, l := range o.Lines {
			if l.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *Repository) insertOrder(order *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = r.nextOrderID
	r.nextOrderID++
	stored := order.Clone()
	stored.Lines = nil
	r.orders[order.ID] = stored
}

func (r *Repository) removeOrder(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
}

func (r *Repository) insertLine(line *domain.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[line.OrderID]
	if !ok {
		return ports.ErrNotFound
	}
	line.ID = r.nextLineID
	r.nextLineID++
	o.Lines = append(o.Lines, *line)
	return nil
}

func (r *Repository) removeLine(orderID, lineID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return
	}
	for i, l := range o.Lines {
		if l.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			return
		}
	}
}

// All returns every order ordered by id, for the reference table browser.
func (r *Repository) All(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
