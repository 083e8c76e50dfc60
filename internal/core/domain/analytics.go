// internal/core/domain/analytics.go
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a shoe is flagged
const LowStockThreshold = 2

// BrandStock is one bucket of the per-brand stock distribution
type BrandStock struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TimeSeries holds one value per calendar day, oldest first
type TimeSeries struct {
	Days   []string `json:"days"`
	Totals []int    `json:"totals"`
}

// dayKey is the calendar-date bucket format used by the time series
const dayKey = "2006-01-02"

// TotalStock sums CurrentStock across all shoes
func (d Dataset) TotalStock() int {
	total := 0
	for _, s := range d.Shoes {
		total += s.CurrentStock
	}
	return total
}

// TotalValue sums CurrentStock × PurchasePrice across all shoes
func (d Dataset) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range d.Shoes {
		total = total.Add(s.PurchasePrice.Mul(decimal.NewFromInt(int64(s.CurrentStock))))
	}
	return total
}

// LowStockList returns the shoes whose stock is at or below the threshold
func (d Dataset) LowStockList() []Shoe {
	var low []Shoe
	for _, s := range d.Shoes {
		if s.CurrentStock <= LowStockThreshold {
			low = append(low, s)
		}
	}
	return low
}

// LowStockCount returns the size of the low-stock set
func (d Dataset) LowStockCount() int {
	return len(d.LowStockList())
}

// TotalSources returns the number of suppliers
func (d Dataset) TotalSources() int {
	return len(d.Sources)
}

// BrandStockSeries sums CurrentStock grouped by brand. Buckets appear in
// first-seen order; a missing brand is bucketed as "Unknown".
func (d Dataset) BrandStockSeries() []BrandStock {
	index := make(map[string]int)
	var series []BrandStock
	for _, s := range d.Shoes {
		name := s.Brand
		if name == "" {
			name = "Unknown"
		}
		i, ok := index[name]
		if !ok {
			i = len(series)
			index[name] = i
			series = append(series, BrandStock{Name: name})
		}
		series[i].Value += s.CurrentStock
	}
	return series
}

// TransactionTimeSeries buckets transaction quantities into the 7 calendar
// days ending at now, oldest first. Out transactions count negative;
// In and Adjustment count as given. Transactions outside the window are
// dropped. Day matching is by calendar date in now's location, not instant.
func (d Dataset) TransactionTimeSeries(now time.Time) TimeSeries {
	days := make([]string, 0, 7)
	totals := make(map[string]int, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayKey)
		days = append(days, day)
		totals[day] = 0
	}

	for _, t := range d.StockTransactions {
		if t.Date.IsZero() {
			continue
		}
		day := t.Date.In(now.Location()).Format(dayKey)
		if _, ok := totals[day]; !ok {
			continue
		}
		qty := t.Quantity
		if t.TransactionType == TransactionOut {
			if qty < 0 {
				qty = -qty
			}
			qty = -qty
		}
		totals[day] += qty
	}

	series := TimeSeries{Days: days, Totals: make([]int, len(days))}
	for i, day := range days {
		series.Totals[i] = totals[day]
	}
	return series
}

// RecentTransactions returns the 10 most recent transactions, newest first.
// Ties keep their input order.
func (d Dataset) RecentTransactions() []StockTransaction {
	recent := make([]StockTransaction, len(d.StockTransactions))
	copy(recent, d.StockTransactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	return recent
}
