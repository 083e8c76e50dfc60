// internal/core/domain/records.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a stock movement
type TransactionType string

// Transaction type constants
const (
	TransactionIn         TransactionType = "In"
	TransactionOut        TransactionType = "Out"
	TransactionAdjustment TransactionType = "Adjustment"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionAdjustment:
		return true
	}
	return false
}

// Shoe represents a single sneaker SKU tracked by the dashboard
type Shoe struct {
	ShoeID        int
	Brand         string
	Model         string
	Colorway      string
	Size          float64
	Condition     string
	PurchasePrice decimal.Decimal
	CurrentStock  int
}

// Source represents a supplier. The remote API calls this resource
// "Supplier"; the dashboard keeps the legacy Source naming.
type Source struct {
	SourceID    int
	Name        string
	ContactInfo string
}

// StockTransaction records a single stock movement for a shoe.
// Quantity is stored non-negative; sign is a display-time convention
// (Out renders negative).
type StockTransaction struct {
	TransactionID   int
	ShoeID          int
	TransactionType TransactionType
	Quantity        int
	Date            time.Time
	Notes           string
}

// PurchaseRecord records an acquisition of stock from a supplier
type PurchaseRecord struct {
	PurchaseID   int
	ShoeID       int
	SourceID     int
	PurchaseDate time.Time
	Quantity     int
	UnitPrice    decimal.Decimal
	TotalCost    decimal.Decimal
}

// RecalculateTotal recomputes TotalCost as Quantity × UnitPrice rounded to
// two decimals, overriding any caller-supplied value. The server stores the
// total as-is, so the client recomputes immediately before every send to keep
// stale or tampered totals out of storage.
func (p *PurchaseRecord) RecalculateTotal() {
	p.TotalCost = p.UnitPrice.
		Mul(decimal.NewFromInt(int64(p.Quantity))).
		Round(2)
}

// Dataset is the aggregated, unpaginated in-memory copy of every resource
// collection, built by fetching all pages from the remote API.
type Dataset struct {
	Shoes             []Shoe
	Sources           []Source
	StockTransactions []StockTransaction
	PurchaseRecords   []PurchaseRecord
}

// Clone returns a copy of the dataset with freshly allocated slices, so the
// caller can read it without holding any store lock.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Shoes:             make([]Shoe, len(d.Shoes)),
		Sources:           make([]Source, len(d.Sources)),
		StockTransactions: make([]StockTransaction, len(d.StockTransactions)),
		PurchaseRecords:   make([]PurchaseRecord, len(d.PurchaseRecords)),
	}
	copy(out.Shoes, d.Shoes)
	copy(out.Sources, d.Sources)
	copy(out.StockTransactions, d.StockTransactions)
	copy(out.PurchaseRecords, d.PurchaseRecords)
	return out
}
