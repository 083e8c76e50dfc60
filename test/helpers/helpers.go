// test/helpers/helpers.go
package helpers

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solesync/solesync/internal/core/domain"
)

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// CreateTestShoe builds a shoe fixture, applying any overrides
func CreateTestShoe(overrides ...func(*domain.Shoe)) domain.Shoe {
	shoe := domain.Shoe{
		ShoeID:        1,
		Brand:         "Nike",
		Model:         "Air Jordan 1",
		Colorway:      "Chicago",
		Size:          10.5,
		Condition:     "DS",
		PurchasePrice: decimal.NewFromFloat(180.00),
		CurrentStock:  5,
	}
	for _, override := range overrides {
		override(&shoe)
	}
	return shoe
}

// CreateTestSource builds a supplier fixture, applying any overrides
func CreateTestSource(overrides ...func(*domain.Source)) domain.Source {
	source := domain.Source{
		SourceID:    1,
		Name:        "SNKRS Outlet",
		ContactInfo: "orders@snkrs.example",
	}
	for _, override := range overrides {
		override(&source)
	}
	return source
}

// CreateTestTransaction builds a stock transaction fixture, applying any
// overrides
func CreateTestTransaction(overrides ...func(*domain.StockTransaction)) domain.StockTransaction {
	tx := domain.StockTransaction{
		TransactionID:   1,
		ShoeID:          1,
		TransactionType: domain.TransactionIn,
		Quantity:        3,
		Date:            time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Notes:           "restock",
	}
	for _, override := range overrides {
		override(&tx)
	}
	return tx
}

// CreateTestPurchase builds a purchase record fixture, applying any
// overrides
func CreateTestPurchase(overrides ...func(*domain.PurchaseRecord)) domain.PurchaseRecord {
	rec := domain.PurchaseRecord{
		PurchaseID:   1,
		ShoeID:       1,
		SourceID:     1,
		PurchaseDate: time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
		Quantity:     3,
		UnitPrice:    decimal.NewFromFloat(19.99),
		TotalCost:    decimal.NewFromFloat(59.97),
	}
	for _, override := range overrides {
		override(&rec)
	}
	return rec
}
