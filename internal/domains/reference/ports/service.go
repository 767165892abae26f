package ports

import (
	"context"
	"io"

	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	"github.com/Apurer/storefront-api/internal/domains/reference/domain"
)

// Service lets staff browse and export reference tables.
type Service interface {
	ListTables(ctx context.Context, actor identitydomain.Actor) ([]domain.Kind, error)
	Browse(ctx context.Context, actor identitydomain.Actor, kind domain.Kind) (*domain.Table, error)
	ExportCSV(ctx context.Context, actor identitydomain.Actor, kind domain.Kind, w io.Writer) error
}
