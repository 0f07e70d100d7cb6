// internal/adapters/export/xlsx.go
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
)

// StockHeaders are the column titles of a stock sheet, in order.
var StockHeaders = []string{
	"Name", "Other Name", "SKU", "Type", "Category", "Sub Category",
	"Outlet", "Rack", "Origin", "Unit", "Quantity",
	"Buy Price", "Stock Price", "Retail Price", "Status", "Created",
}

// XLSXExporter writes stock rows as a single-sheet workbook.
type XLSXExporter struct {
	SheetName string
}

// NewXLSXExporter creates a new exporter
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{SheetName: "Stock"}
}

// WriteStocks renders rows under a bold header row and writes the workbook to w.
func (e *XLSXExporter) WriteStocks(w io.Writer, rows []domain.Stock) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(e.SheetName)
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range StockHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range rows {
		dataRow := sheet.AddRow()
		for _, value := range stockRow(&rows[i]) {
			dataRow.AddCell().Value = value
		}
	}

	for i := range StockHeaders {
		sheet.SetColWidth(i+1, i+1, 15)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func stockRow(s *domain.Stock) []string {
	return []string{
		s.Name,
		s.OtherName,
		s.SKU,
		s.TypeName,
		s.CategoryName,
		s.SubCategoryName,
		s.OutletName,
		s.Rack,
		s.Origin,
		s.Unit,
		s.Quantity.String(),
		price(s.BuyPrice),
		price(s.StockPrice),
		price(s.RetailPrice),
		s.Status,
		s.CreatedAt.Date(),
	}
}

// price leaves absent prices blank so they stay distinguishable from zero.
func price(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.StringFixed(2)
}
