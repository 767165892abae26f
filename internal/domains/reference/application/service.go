package application

import (
	"context"
	"fmt"
	"io"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/reference/domain"
	"github.com/Apurer/storefront-api/internal/domains/reference/ports"
	"github.com/Apurer/storefront-api/internal/shared/faults"
)

type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListTables(_ context.Context, actor identitydomain.Actor) ([]domain.Kind, error) {
	if !actor.Can(identitydomain.CapabilityBrowseTables) {
		return nil, faults.ErrUnauthorized
	}
	return domain.Kinds(), nil
}

func (s *Service) Browse(ctx context.Context, actor identitydomain.Actor, kind domain.Kind) (*domain.Table, error) {
	if !actor.Can(identitydomain.CapabilityBrowseTables) {
		return nil, faults.ErrUnauthorized
	}
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	table, err := s.load(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return table, nil
}

// ExportCSV writes the table as ';'-separated CSV with a header row.
func (s *Service) ExportCSV(ctx context.Context, actor identitydomain.Actor, kind domain.Kind, w io.Writer) error {
	table, err := s.Browse(ctx, actor, kind)
	if err != nil {
		return err
	}
	return table.WriteCSV(w)
}

func (s *Service) load(ctx context.Context, kind domain.Kind) (*domain.Table, error) {
	switch kind {
	case domain.KindCategories:
		rows, err := s.repo.Categories(ctx)
		if err != nil {
			return nil, err
		}
		return domain.LookupTable(kind, rows), nil
	case domain.KindSuppliers:
		rows, err := s.repo.Suppliers(ctx)
		if err != nil {
			return nil, err
		}
		return domain.SuppliersTable(rows), nil
	case domain.KindPaymentMethods:
		rows, err := s.repo.PaymentMethods(ctx)
		if err != nil {
			return nil, err
		}
		return domain.LookupTable(kind, rows), nil
	case domain.KindDeliveryMethods:
		rows, err := s.repo.DeliveryMethods(ctx)
		if err != nil {
			return nil, err
		}
		return domain.DeliveryMethodsTable(rows), nil
	case domain.KindOrderStatuses:
		rows, err := s.repo.OrderStatuses(ctx)
		if err != nil {
			return nil, err
		}
		return domain.LookupTable(kind, rows), nil
	case domain.KindProducts:
		rows, err := s.repo.Products(ctx)
		if err != nil {
			return nil, err
		}
		return domain.ProductsTable(rows), nil
	case domain.KindOrders:
		rows, err := s.repo.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return domain.OrdersTable(rows), nil
	case domain.KindOrderItems:
		rows, err := s.repo.OrderItems(ctx)
		if err != nil {
			return nil, err
		}
		return domain.OrderItemsTable(rows), nil
	default:
		return nil, domain.ErrUnknownTable
	}
}

var _ ports.Service = (*Service)(nil)
