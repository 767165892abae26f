// Package domain describes the reference tables staff can browse and export.
package domain

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Apurer/storefront-api/internal/shared/faults"
)

// Kind names a browsable table. Account and role tables are deliberately absent.
type Kind string

const (
	KindCategories      Kind = "categories"
	KindSuppliers       Kind = "suppliers"
	KindPaymentMethods  Kind = "payment_methods"
	KindDeliveryMethods Kind = "delivery_methods"
	KindOrderStatuses   Kind = "order_statuses"
	KindProducts        Kind = "products"
	KindOrders          Kind = "orders"
	KindOrderItems      Kind = "order_items"
)

var kinds = []Kind{
	KindCategories,
	KindSuppliers,
	KindPaymentMethods,
	KindDeliveryMethods,
	KindOrderStatuses,
	KindProducts,
	KindOrders,
	KindOrderItems,
}

// ErrUnknownTable matches faults.ErrNotFound.
var ErrUnknownTable = fmt.Errorf("%w: no such table", faults.ErrNotFound)

// Kinds lists every browsable table in display order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

func ParseKind(raw string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, raw)
}

// Table is a rendered projection: a header and string cells.
type Table struct {
	Kind    Kind
	Columns []string
	Rows    [][]string
}

// CSVSeparator is the field separator of exported tables.
const CSVSeparator = ';'

// WriteCSV writes the header row followed by every data row. Cells containing
// the separator, quotes or newlines are quoted.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = CSVSeparator
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
