package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// OrdersHeader is the header row of a well-formed orders workbook
var OrdersHeader = []any{
	"Order ID", "Supplier Name", "Product Name", "Order Date", "Delivery Date",
	"Delivery Performance (%)", "Cost ($)", "Quantity", "Shipping Method",
}

// SampleOrderRows returns a small orders sheet: header plus three rows
// spread over January and February 2024.
func SampleOrderRows() [][]any {
	return [][]any{
		OrdersHeader,
		{"O-1", "SupplierA", "ProductX", "2024-01-01", "2024-01-05", "90%", 100, 5, "Air"},
		{"O-2", "SupplierB", "ProductY", "2024-01-10", "2024-01-12", "80%", 250.5, 12, "Sea"},
		{"O-3", "SupplierA", "ProductY", "2024-02-03", "2024-02-10", "70%", 1200, 40, "Sea"},
	}
}

// WriteWorkbook saves rows to the first sheet of a new workbook named name
// inside dir and returns its path.
func WriteWorkbook(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
