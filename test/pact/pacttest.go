//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "shop-portal"

	StateCatalogEmpty   = "catalog is empty"
	StateProductExists  = "product with id 101 exists"
	StateProductMissing = "no product with id 404"
	StateGuestWelcome   = "guests may browse"
)

const (
	ExistingProductID int64 = 101
	MissingProductID  int64 = 404

	ExampleSearchText = "lamp"
)

const (
	exampleSKU   = "LMP-101"
	exampleName  = "Brass desk lamp"
	examplePrice = "1200"
	exampleStock = 3
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file path for the shop portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProduct is the product both sides of the contract agree on.
type ExampleProduct struct {
	ID            int64
	SKU           string
	Name          string
	Price         string
	StockQuantity int
}

func Product() ExampleProduct {
	return ExampleProduct{
		ID:            ExistingProductID,
		SKU:           exampleSKU,
		Name:          exampleName,
		Price:         examplePrice,
		StockQuantity: exampleStock,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
