// internal/adapters/export/xlsx_test.go
package export_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/NavodaLakshika/erp-frontend/internal/adapters/export"
	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/test/helpers"
)

func cellValue(t *testing.T, sheet *xlsx.Sheet, row, col int) string {
	t.Helper()
	cell, err := sheet.Cell(row, col)
	require.NoError(t, err)
	return cell.Value
}

func TestXLSXExporter_WriteStocks(t *testing.T) {
	rows := []domain.Stock{
		helpers.CreateTestStock(),
		helpers.CreateTestStock(func(s *domain.Stock) {
			s.Name = "Dhal 1kg"
			s.SKU = "DHAL-1KG"
			s.StockPrice = decimal.NullDecimal{}
			s.BuyPrice = decimal.NewNullDecimal(decimal.Zero)
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, export.NewXLSXExporter().WriteStocks(&buf, rows))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Stock", sheet.Name)
	assert.Equal(t, 3, sheet.MaxRow)

	for i, header := range export.StockHeaders {
		assert.Equal(t, header, cellValue(t, sheet, 0, i))
	}

	assert.Equal(t, "Basmati Rice 5kg", cellValue(t, sheet, 1, 0))
	assert.Equal(t, "RICE-5KG", cellValue(t, sheet, 1, 2))
	assert.Equal(t, "25", cellValue(t, sheet, 1, 10))
	assert.Equal(t, "950.00", cellValue(t, sheet, 1, 12))

	assert.Equal(t, "Dhal 1kg", cellValue(t, sheet, 2, 0))
	assert.Equal(t, "0.00", cellValue(t, sheet, 2, 11))
	assert.Equal(t, "", cellValue(t, sheet, 2, 12))
	assert.Equal(t, "2024-03-01", cellValue(t, sheet, 2, 15))
}

func TestXLSXExporter_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.NewXLSXExporter().WriteStocks(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, file.Sheets[0].MaxRow)
}
