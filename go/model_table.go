package storefrontserver

import (
	referencedomain "github.com/Apurer/storefront-api/internal/domains/reference/domain"
)

type Table struct {
	Kind    string     `json:"kind"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func fromDomainTable(t *referencedomain.Table) Table {
	rows := t.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return Table{Kind: string(t.Kind), Columns: t.Columns, Rows: rows}
}
