// internal/export/excel.go
package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/solesync/solesync/internal/core/domain"
)

const dateLayout = "2006-01-02 15:04"

// GenerateWorkbook builds an inventory report workbook from a dataset
// snapshot: a summary sheet with the dashboard metrics and the per-brand
// distribution, followed by one sheet per resource.
func GenerateWorkbook(data domain.Dataset, now time.Time) ([]byte, error) {
	file := xlsx.NewFile()

	if err := addSummarySheet(file, data, now); err != nil {
		return nil, err
	}
	if err := addShoeSheet(file, data.Shoes); err != nil {
		return nil, err
	}
	if err := addSourceSheet(file, data.Sources); err != nil {
		return nil, err
	}
	if err := addTransactionSheet(file, data.StockTransactions); err != nil {
		return nil, err
	}
	if err := addPurchaseSheet(file, data.PurchaseRecords); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook to buffer: %w", err)
	}
	return buffer.Bytes(), nil
}

// Filename returns the timestamped report file name
func Filename(now time.Time) string {
	return fmt.Sprintf("inventory_report_%s.xlsx", now.Format("20060102_150405"))
}

func addSummarySheet(file *xlsx.File, data domain.Dataset, now time.Time) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	addRow(sheet, "Generated", now.Format(time.RFC3339))
	addRow(sheet, "Total Stock", strconv.Itoa(data.TotalStock()))
	addRow(sheet, "Total Value", data.TotalValue().StringFixed(2))
	addRow(sheet, "Low Stock Items", strconv.Itoa(data.LowStockCount()))
	addRow(sheet, "Suppliers", strconv.Itoa(data.TotalSources()))

	addRow(sheet)
	addHeaderRow(sheet, "Brand", "Stock")
	for _, bucket := range data.BrandStockSeries() {
		addRow(sheet, bucket.Name, strconv.Itoa(bucket.Value))
	}
	return nil
}

func addShoeSheet(file *xlsx.File, shoes []domain.Shoe) error {
	sheet, err := file.AddSheet("Shoes")
	if err != nil {
		return fmt.Errorf("failed to add shoes sheet: %w", err)
	}

	addHeaderRow(sheet, "ID", "Brand", "Model", "Colorway", "Size", "Condition", "Purchase Price", "Current Stock")
	for _, s := range shoes {
		addRow(sheet,
			strconv.Itoa(s.ShoeID),
			s.Brand,
			s.Model,
			s.Colorway,
			strconv.FormatFloat(s.Size, 'f', -1, 64),
			s.Condition,
			s.PurchasePrice.StringFixed(2),
			strconv.Itoa(s.CurrentStock),
		)
	}
	return nil
}

func addSourceSheet(file *xlsx.File, sources []domain.Source) error {
	sheet, err := file.AddSheet("Suppliers")
	if err != nil {
		return fmt.Errorf("failed to add suppliers sheet: %w", err)
	}

	addHeaderRow(sheet, "ID", "Name", "Contact Info")
	for _, s := range sources {
		addRow(sheet, strconv.Itoa(s.SourceID), s.Name, s.ContactInfo)
	}
	return nil
}

func addTransactionSheet(file *xlsx.File, txs []domain.StockTransaction) error {
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return fmt.Errorf("failed to add transactions sheet: %w", err)
	}

	addHeaderRow(sheet, "ID", "Shoe ID", "Type", "Quantity", "Date", "Notes")
	for _, t := range txs {
		date := ""
		if !t.Date.IsZero() {
			date = t.Date.Format(dateLayout)
		}
		addRow(sheet,
			strconv.Itoa(t.TransactionID),
			strconv.Itoa(t.ShoeID),
			string(t.TransactionType),
			strconv.Itoa(t.Quantity),
			date,
			t.Notes,
		)
	}
	return nil
}

func addPurchaseSheet(file *xlsx.File, records []domain.PurchaseRecord) error {
	sheet, err := file.AddSheet("Purchases")
	if err != nil {
		return fmt.Errorf("failed to add purchases sheet: %w", err)
	}

	addHeaderRow(sheet, "ID", "Shoe ID", "Supplier ID", "Date", "Quantity", "Unit Price", "Total Cost")
	for _, p := range records {
		date := ""
		if !p.PurchaseDate.IsZero() {
			date = p.PurchaseDate.Format(dateLayout)
		}
		addRow(sheet,
			strconv.Itoa(p.PurchaseID),
			strconv.Itoa(p.ShoeID),
			strconv.Itoa(p.SourceID),
			date,
			strconv.Itoa(p.Quantity),
			p.UnitPrice.StringFixed(2),
			p.TotalCost.StringFixed(2),
		)
	}
	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, header := range headers {
		cell := row.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, value := range values {
		row.AddCell().Value = value
	}
}
