// internal/export/excel_test.go
package export_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/solesync/solesync/internal/core/domain"
	"github.com/solesync/solesync/internal/export"
	"github.com/solesync/solesync/test/helpers"
)

func testDataset() domain.Dataset {
	return domain.Dataset{
		Shoes: []domain.Shoe{
			helpers.CreateTestShoe(),
			helpers.CreateTestShoe(func(s *domain.Shoe) {
				s.ShoeID = 2
				s.Brand = "Adidas"
				s.Model = "Samba"
				s.CurrentStock = 1
				s.PurchasePrice = decimal.NewFromInt(90)
			}),
		},
		Sources:           []domain.Source{helpers.CreateTestSource()},
		StockTransactions: []domain.StockTransaction{helpers.CreateTestTransaction()},
		PurchaseRecords:   []domain.PurchaseRecord{helpers.CreateTestPurchase()},
	}
}

func cellValue(t *testing.T, sheet *xlsx.Sheet, row, col int) string {
	t.Helper()
	cell, err := sheet.Cell(row, col)
	require.NoError(t, err)
	return cell.Value
}

func TestGenerateWorkbook(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	raw, err := export.GenerateWorkbook(testDataset(), now)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	file, err := xlsx.OpenBinary(raw)
	require.NoError(t, err)

	require.Len(t, file.Sheets, 5)
	names := make([]string, 0, len(file.Sheets))
	for _, sheet := range file.Sheets {
		names = append(names, sheet.Name)
	}
	assert.Equal(t, []string{"Summary", "Shoes", "Suppliers", "Transactions", "Purchases"}, names)

	summary := file.Sheet["Summary"]
	require.NotNil(t, summary)
	assert.Equal(t, "Generated", cellValue(t, summary, 0, 0))
	assert.Equal(t, "2026-08-31T12:00:00Z", cellValue(t, summary, 0, 1))
	assert.Equal(t, "Total Stock", cellValue(t, summary, 1, 0))
	assert.Equal(t, "6", cellValue(t, summary, 1, 1))
	assert.Equal(t, "Low Stock Items", cellValue(t, summary, 3, 0))
	assert.Equal(t, "1", cellValue(t, summary, 3, 1))

	// Brand distribution follows first-seen order.
	assert.Equal(t, "Nike", cellValue(t, summary, 7, 0))
	assert.Equal(t, "5", cellValue(t, summary, 7, 1))
	assert.Equal(t, "Adidas", cellValue(t, summary, 8, 0))

	shoes := file.Sheet["Shoes"]
	require.NotNil(t, shoes)
	assert.Equal(t, "Brand", cellValue(t, shoes, 0, 1))
	assert.Equal(t, "Nike", cellValue(t, shoes, 1, 1))
	assert.Equal(t, "Samba", cellValue(t, shoes, 2, 2))
	assert.Equal(t, "90.00", cellValue(t, shoes, 2, 6))
}

func TestGenerateWorkbook_EmptyDataset(t *testing.T) {
	raw, err := export.GenerateWorkbook(domain.Dataset{}, time.Now())
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(raw)
	require.NoError(t, err)
	assert.Len(t, file.Sheets, 5)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "inventory_report_20260831_123045.xlsx", export.Filename(now))
}
