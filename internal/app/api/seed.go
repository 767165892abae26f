package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	referencedomain "github.com/Apurer/storefront-api/internal/domains/reference/domain"
)

// Demo accounts share this password. It satisfies the login rules only; the
// storefront keeps passwords in plaintext, so never seed a shared database.
const demoPassword = "Demo!2024"

var demoAccounts = []identitydomain.Account{
	{Kind: identitydomain.KindEmployee, LastName: "Admin", FirstName: "Store", Email: "admin@storefront.local", Phone: "+70000000001", Role: identitydomain.RoleAdmin},
	{Kind: identitydomain.KindEmployee, LastName: "Manager", FirstName: "Store", Email: "manager@storefront.local", Phone: "+70000000002", Role: identitydomain.RoleManager},
	{Kind: identitydomain.KindEmployee, LastName: "Courier", FirstName: "Store", Email: "courier@storefront.local", Phone: "+70000000003", Role: identitydomain.RoleCourier},
	{Kind: identitydomain.KindCustomer, LastName: "Customer", FirstName: "Demo", Email: "customer@storefront.local", Phone: "+70000000004", Role: identitydomain.RoleCustomer},
}

type demoProduct struct {
	sku      string
	name     string
	price    int64
	discount int64
	stock    int
	category string
}

var demoProducts = []demoProduct{
	{sku: "LMP-001", name: "Brass desk lamp", price: 1200, stock: 3, category: "Lighting"},
	{sku: "LMP-002", name: "Paper floor lamp", price: 3400, discount: 15, stock: 8, category: "Lighting"},
	{sku: "CHR-001", name: "Oak chair", price: 450, stock: 40, category: "Furniture"},
	{sku: "TBL-001", name: "Walnut table", price: 8900, discount: 10, stock: 2, category: "Furniture"},
	{sku: "TXT-001", name: "Linen cushion", price: 119, stock: 120, category: "Textiles"},
}

// seedDemoData fills empty stores with demo accounts, categories and products.
// A store that already has accounts is left untouched.
func seedDemoData(ctx context.Context, s stores, logger *slog.Logger) error {
	existing, err := s.accounts.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("demo data skipped, accounts already present", slog.Int("accounts", len(existing)))
		return nil
	}
	for _, template := range demoAccounts {
		account := template
		account.Password = demoPassword
		if _, err := s.accounts.Save(ctx, &account); err != nil {
			return fmt.Errorf("seed account %s: %w", account.Email, err)
		}
	}
	supplier, err := s.reference.AddSupplier(ctx, referencedomain.Supplier{Name: "Northwind Supply", Phone: "+70000000100", Email: "orders@northwind.local"})
	if err != nil {
		return fmt.Errorf("seed supplier: %w", err)
	}
	categories := make(map[string]int64)
	for _, p := range demoProducts {
		if _, ok := categories[p.category]; ok {
			continue
		}
		row, err := s.reference.AddCategory(ctx, p.category)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", p.category, err)
		}
		categories[p.category] = row.ID
	}
	for _, p := range demoProducts {
		categoryID, supplierID := categories[p.category], supplier.ID
		product := &catalogdomain.Product{
			SKU:           p.sku,
			Name:          p.name,
			Price:         decimal.NewFromInt(p.price),
			StockQuantity: p.stock,
			CategoryID:    &categoryID,
			SupplierID:    &supplierID,
		}
		if p.discount > 0 {
			d := decimal.NewFromInt(p.discount)
			product.DiscountPercent = &d
		}
		if _, err := s.products.Save(ctx, product); err != nil {
			return fmt.Errorf("seed product %s: %w", p.sku, err)
		}
	}
	logger.Info("demo data seeded",
		slog.Int("accounts", len(demoAccounts)),
		slog.Int("categories", len(categories)),
		slog.Int("products", len(demoProducts)),
	)
	return nil
}
