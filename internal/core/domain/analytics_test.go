// internal/core/domain/analytics_test.go
package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solesync/solesync/internal/core/domain"
	"github.com/solesync/solesync/test/helpers"
)

func TestDataset_StockTotals(t *testing.T) {
	data := domain.Dataset{
		Shoes: []domain.Shoe{
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.CurrentStock = 5
				s.PurchasePrice = decimal.NewFromInt(10)
			}),
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.ShoeID = 2
				s.CurrentStock = 0
				s.PurchasePrice = decimal.NewFromInt(20)
			}),
		},
	}

	assert.Equal(t, 5, data.TotalStock())
	assert.True(t, data.TotalValue().Equal(decimal.NewFromInt(50)),
		"total value should be 5*10 + 0*20, got %s", data.TotalValue())
}

func TestDataset_LowStock(t *testing.T) {
	data := domain.Dataset{
		Shoes: []domain.Shoe{
			helpers.CreateTestShoe(func(s *domain.Shoe) { s.CurrentStock = 5 }),
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.ShoeID = 2
				s.CurrentStock = 1
			}),
		},
	}

	low := data.LowStockList()
	require.Len(t, low, 1)
	assert.Equal(t, 2, low[0].ShoeID)
	assert.Equal(t, 1, data.LowStockCount())
}

func TestDataset_BrandStockSeries(t *testing.T) {
	data := domain.Dataset{
		Shoes: []domain.Shoe{
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.Brand = "Nike"
				s.CurrentStock = 3
			}),
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.ShoeID = 2
				s.Brand = "Adidas"
				s.CurrentStock = 2
			}),
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.ShoeID = 3
				s.Brand = "Nike"
				s.CurrentStock = 4
			}),
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.ShoeID = 4
				s.Brand = ""
				s.CurrentStock = 1
			}),
		},
	}

	series := data.BrandStockSeries()
	require.Len(t, series, 3)

	// Buckets keep first-seen order; a missing brand lands in Unknown.
	assert.Equal(t, domain.BrandStock{Name: "Nike", Value: 7}, series[0])
	assert.Equal(t, domain.BrandStock{Name: "Adidas", Value: 2}, series[1])
	assert.Equal(t, domain.BrandStock{Name: "Unknown", Value: 1}, series[2])
}

func TestDataset_TransactionTimeSeries(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)

	data := domain.Dataset{
		StockTransactions: []domain.StockTransaction{
			helpers.CreateTestTransaction(func(tx *domain.StockTransaction) {
				tx.TransactionType = domain.TransactionOut
				tx.Quantity = 3
				tx.Date = now
			}),
			helpers.CreateTestTransaction(func(tx *domain.StockTransaction) {
				tx.TransactionID = 2
				tx.TransactionType = domain.TransactionIn
				tx.Quantity = 5
				tx.Date = now.AddDate(0, 0, -2)
			}),
			helpers.CreateTestTransaction(func(tx *domain.StockTransaction) {
				tx.TransactionID = 3
				tx.Quantity = 100
				tx.Date = now.AddDate(0, 0, -10)
			}),
		},
	}

	series := data.TransactionTimeSeries(now)
	require.Len(t, series.Days, 7)
	require.Len(t, series.Totals, 7)

	// Oldest day first, today last.
	assert.Equal(t, "2026-08-25", series.Days[0])
	assert.Equal(t, "2026-08-31", series.Days[6])

	// Out counts negative; In counts as given; the 10-day-old transaction
	// is dropped from every bucket.
	assert.Equal(t, -3, series.Totals[6])
	assert.Equal(t, 5, series.Totals[4])
	assert.Equal(t, []int{0, 0, 0, 0, 5, 0, -3}, series.Totals)
}

func TestDataset_TransactionTimeSeries_OutUsesAbsoluteQuantity(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	data := domain.Dataset{
		StockTransactions: []domain.StockTransaction{
			helpers.CreateTestTransaction(func(tx *domain.StockTransaction) {
				tx.TransactionType = domain.TransactionOut
				tx.Quantity = -4 // already negative stays negative, not double-negated
				tx.Date = now
			}),
		},
	}

	series := data.TransactionTimeSeries(now)
	assert.Equal(t, -4, series.Totals[6])
}

func TestDataset_RecentTransactions(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	var txs []domain.StockTransaction
	for i := 0; i < 12; i++ {
		id := i + 1
		txs = append(txs, helpers.CreateTestTransaction(func(tx *domain.StockTransaction) {
			tx.TransactionID = id
			tx.Date = base.AddDate(0, 0, id)
		}))
	}
	// Two entries share the newest date; stable sort keeps input order.
	txs = append(txs, helpers.CreateTestTransaction(func(tx *domain.StockTransaction) {
		tx.TransactionID = 99
		tx.Date = base.AddDate(0, 0, 12)
	}))

	data := domain.Dataset{StockTransactions: txs}

	recent := data.RecentTransactions()
	require.Len(t, recent, 10)
	assert.Equal(t, 12, recent[0].TransactionID)
	assert.Equal(t, 99, recent[1].TransactionID)
	assert.Equal(t, 11, recent[2].TransactionID)

	// The original slice is untouched.
	assert.Equal(t, 1, data.StockTransactions[0].TransactionID)
}

func TestDataset_TotalSources(t *testing.T) {
	data := domain.Dataset{
		Sources: []domain.Source{
			helpers.CreateTestSource(),
			helpers.CreateTestSource(func(s *domain.Source) { s.SourceID = 2 }),
		},
	}
	assert.Equal(t, 2, data.TotalSources())
}
