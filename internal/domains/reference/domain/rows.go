package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02 15:04:05"

// Lookup is an id/name row, used by categories, payment methods and order statuses.
type Lookup struct {
	ID   int64
	Name string
}

type Supplier struct {
	ID    int64
	Name  string
	Phone string
	Email string
}

type DeliveryMethod struct {
	ID   int64
	Name string
	Fee  decimal.Decimal
}

type Product struct {
	ID              int64
	SKU             string
	Name            string
	Price           decimal.Decimal
	DiscountPercent *decimal.Decimal
	StockQuantity   int
	CategoryID      *int64
	SupplierID      *int64
}

type Order struct {
	ID              int64
	CustomerID      int64
	OrderDate       time.Time
	TotalAmount     decimal.Decimal
	StatusID        int64
	PaymentMethodID int64
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

func LookupTable(kind Kind, rows []Lookup) *Table {
	t := &Table{Kind: kind, Columns: []string{"id", "name"}, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{id(r.ID), r.Name})
	}
	return t
}

func SuppliersTable(rows []Supplier) *Table {
	t := &Table{Kind: KindSuppliers, Columns: []string{"id", "name", "phone", "email"}, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{id(r.ID), r.Name, r.Phone, r.Email})
	}
	return t
}

func DeliveryMethodsTable(rows []DeliveryMethod) *Table {
	t := &Table{Kind: KindDeliveryMethods, Columns: []string{"id", "name", "fee"}, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{id(r.ID), r.Name, money(r.Fee)})
	}
	return t
}

func ProductsTable(rows []Product) *Table {
	t := &Table{
		Kind:    KindProducts,
		Columns: []string{"id", "sku", "name", "price", "discount_percent", "stock_quantity", "category_id", "supplier_id"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		discount := ""
		if r.DiscountPercent != nil {
			discount = money(*r.DiscountPercent)
		}
		t.Rows = append(t.Rows, []string{
			id(r.ID), r.SKU, r.Name, money(r.Price), discount,
			strconv.Itoa(r.StockQuantity), optionalID(r.CategoryID), optionalID(r.SupplierID),
		})
	}
	return t
}

func OrdersTable(rows []Order) *Table {
	t := &Table{
		Kind:    KindOrders,
		Columns: []string{"id", "customer_id", "order_date", "total_amount", "status_id", "payment_method_id"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			id(r.ID), id(r.CustomerID), r.OrderDate.UTC().Format(dateLayout),
			money(r.TotalAmount), id(r.StatusID), id(r.PaymentMethodID),
		})
	}
	return t
}

func OrderItemsTable(rows []OrderItem) *Table {
	t := &Table{
		Kind:    KindOrderItems,
		Columns: []string{"id", "order_id", "product_id", "quantity", "unit_price"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{id(r.ID), id(r.OrderID), id(r.ProductID), strconv.Itoa(r.Quantity), money(r.UnitPrice)})
	}
	return t
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func optionalID(v *int64) string {
	if v == nil {
		return ""
	}
	return id(*v)
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
