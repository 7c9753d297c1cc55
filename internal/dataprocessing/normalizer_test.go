package dataprocessing

import (
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/pkg/contracts/domain"
)

func frame(cols map[string][]string, order ...string) dataframe.DataFrame {
	s := make([]series.Series, 0, len(order))
	for _, name := range order {
		s = append(s, series.New(cols[name], series.String, name))
	}
	return dataframe.New(s...)
}

var baseColumns = []string{
	"Order ID", "Supplier Name", "Product Name", "Order Date", "Delivery Date",
	"Delivery Performance (%)", "Cost ($)", "Quantity", "Shipping Method",
}

func baseFrame() map[string][]string {
	return map[string][]string{
		"Order ID":                 {"O-1", "O-2", "O-3"},
		"Supplier Name":            {"SupplierA", "SupplierB", "SupplierA"},
		"Product Name":             {"ProductX", "ProductY", "ProductY"},
		"Order Date":               {"2024-01-01", "01/10/2024", "02-03-24"},
		"Delivery Date":            {"2024-01-05", "2024-01-11", "2024-02-13"},
		"Delivery Performance (%)": {"90%", "85.5 %", "70"},
		"Cost ($)":                 {"100", "$1,250.50", "20.25"},
		"Quantity":                 {"5", "1,000", "3"},
		"Shipping Method":          {"Air", "Sea", "Air"},
	}
}

func TestNormalizeDerivesLeadTime(t *testing.T) {
	ds, err := Normalize(frame(baseFrame(), baseColumns...), "orders.xlsx")
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.True(t, ds.LeadTimeDerived())
	assert.Equal(t, "orders.xlsx", ds.Source())

	for _, o := range ds.Orders() {
		require.True(t, o.HasLeadTime)
		want := o.DeliveryDate.Sub(o.OrderDate).Hours() / 24
		assert.Equal(t, want, o.LeadTimeDays, o.OrderID)
	}

	orders := ds.Orders()
	assert.Equal(t, 4.0, orders[0].LeadTimeDays)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), orders[1].OrderDate)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), orders[2].OrderDate)
}

func TestNormalizeFields(t *testing.T) {
	ds, err := Normalize(frame(baseFrame(), baseColumns...), "")
	require.NoError(t, err)
	orders := ds.Orders()

	assert.Equal(t, "O-2", orders[1].OrderID)
	assert.Equal(t, "SupplierB", orders[1].SupplierName)
	assert.Equal(t, "ProductY", orders[1].ProductName)
	assert.Equal(t, "Sea", orders[1].ShippingMethod)
	assert.InDelta(t, 90.0, orders[0].DeliveryPerformancePercent, 1e-9)
	assert.InDelta(t, 85.5, orders[1].DeliveryPerformancePercent, 1e-9)
	assert.InDelta(t, 70.0, orders[2].DeliveryPerformancePercent, 1e-9)
	assert.Equal(t, "1250.5", orders[1].Cost.String())
	assert.InDelta(t, 1000.0, orders[1].Quantity, 1e-9)
}

func TestNormalizeProvidedLeadTime(t *testing.T) {
	cols := baseFrame()
	cols["Lead Time (Days)"] = []string{"7", "", "2.6"}
	ds, err := Normalize(frame(cols, append(baseColumns, "Lead Time (Days)")...), "")
	require.NoError(t, err)
	assert.False(t, ds.LeadTimeDerived())

	orders := ds.Orders()
	assert.True(t, orders[0].HasLeadTime)
	assert.Equal(t, 7.0, orders[0].LeadTimeDays)
	assert.False(t, orders[1].HasLeadTime)
	assert.InDelta(t, 2.6, orders[2].LeadTimeDays, 1e-9, "provided values are not rounded per row")
}

func TestNormalizeFractionalLeadTime(t *testing.T) {
	cols := baseFrame()
	cols["Lead Time (Days)"] = []string{"3.5", "4.5", " "}
	ds, err := Normalize(frame(cols, append(baseColumns, "Lead Time (Days)")...), "")
	require.NoError(t, err)

	orders := ds.Orders()
	assert.Equal(t, 3.5, orders[0].LeadTimeDays)
	assert.Equal(t, 4.5, orders[1].LeadTimeDays)
	assert.False(t, orders[2].HasLeadTime)
}

func TestNormalizeBlankNumericCells(t *testing.T) {
	tests := []struct {
		name   string
		column string
		check  func(t *testing.T, blank, filled domain.Order)
	}{
		{
			name:   "performance",
			column: "Delivery Performance (%)",
			check: func(t *testing.T, blank, filled domain.Order) {
				assert.False(t, blank.HasPerformance)
				assert.Zero(t, blank.DeliveryPerformancePercent)
				assert.True(t, filled.HasPerformance)
			},
		},
		{
			name:   "cost",
			column: "Cost ($)",
			check: func(t *testing.T, blank, filled domain.Order) {
				assert.False(t, blank.HasCost)
				assert.True(t, blank.Cost.IsZero())
				assert.True(t, filled.HasCost)
			},
		},
		{
			name:   "quantity",
			column: "Quantity",
			check: func(t *testing.T, blank, filled domain.Order) {
				assert.False(t, blank.HasQuantity)
				assert.Zero(t, blank.Quantity)
				assert.True(t, filled.HasQuantity)
			},
		},
	}

	for _, tt := range tests {
		for _, cell := range []string{"", "  "} {
			t.Run(tt.name, func(t *testing.T) {
				cols := baseFrame()
				cols[tt.column][1] = cell
				ds, err := Normalize(frame(cols, baseColumns...), "")
				require.NoError(t, err)

				orders := ds.Orders()
				tt.check(t, orders[1], orders[0])
			})
		}
	}
}

func TestNormalizeNonNumericCellsFail(t *testing.T) {
	for column, canon := range map[string]string{
		"Delivery Performance (%)": "delivery_performance_(%)",
		"Cost ($)":                 "cost_($)",
		"Quantity":                 "quantity",
	} {
		t.Run(column, func(t *testing.T) {
			cols := baseFrame()
			cols[column][1] = "n.a."
			_, err := Normalize(frame(cols, baseColumns...), "")
			require.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, canon, pe.Column)
			assert.Equal(t, 2, pe.Row)
		})
	}
}

func TestNormalizeEmptyLeadTimeColumnIsDerived(t *testing.T) {
	cols := baseFrame()
	cols["Lead Time (Days)"] = []string{"", "", ""}
	ds, err := Normalize(frame(cols, append(baseColumns, "Lead Time (Days)")...), "")
	require.NoError(t, err)
	assert.True(t, ds.LeadTimeDerived())
	assert.Equal(t, 4.0, ds.Orders()[0].LeadTimeDays)
}

func TestNormalizeNegativeLeadTime(t *testing.T) {
	cols := baseFrame()
	cols["Delivery Date"] = []string{"2023-12-30", "2024-01-11", "2024-02-13"}
	ds, err := Normalize(frame(cols, baseColumns...), "")
	require.NoError(t, err)
	assert.Equal(t, -2.0, ds.Orders()[0].LeadTimeDays)
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string][]string) []string
		wantErr error
		column  string
	}{
		{
			name: "bad order date",
			mutate: func(c map[string][]string) []string {
				c["Order Date"][1] = "yesterday"
				return baseColumns
			},
			wantErr: ErrParse,
			column:  "Order Date",
		},
		{
			name: "empty delivery date",
			mutate: func(c map[string][]string) []string {
				c["Delivery Date"][2] = ""
				return baseColumns
			},
			wantErr: ErrParse,
			column:  "Delivery Date",
		},
		{
			name: "non numeric performance",
			mutate: func(c map[string][]string) []string {
				c["Delivery Performance (%)"][0] = "great"
				return baseColumns
			},
			wantErr: ErrParse,
			column:  "delivery_performance_(%)",
		},
		{
			name: "bad cost",
			mutate: func(c map[string][]string) []string {
				c["Cost ($)"][0] = "ten"
				return baseColumns
			},
			wantErr: ErrParse,
			column:  "cost_($)",
		},
		{
			name: "bad lead time",
			mutate: func(c map[string][]string) []string {
				c["Lead Time (Days)"] = []string{"1", "x", "2"}
				return append(baseColumns, "Lead Time (Days)")
			},
			wantErr: ErrParse,
			column:  "Lead Time (Days)",
		},
		{
			name: "missing delivery date column",
			mutate: func(c map[string][]string) []string {
				return []string{"Order ID", "Supplier Name", "Product Name", "Order Date",
					"Delivery Performance (%)", "Cost ($)", "Quantity", "Shipping Method"}
			},
			wantErr: ErrMissingColumn,
		},
		{
			name: "missing shipping method column",
			mutate: func(c map[string][]string) []string {
				return baseColumns[:len(baseColumns)-1]
			},
			wantErr: ErrLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := baseFrame()
			order := tt.mutate(cols)
			_, err := Normalize(frame(cols, order...), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.column != "" {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.column, pe.Column)
			}
		})
	}
}

func TestNormalizeColumnCollision(t *testing.T) {
	cols := baseFrame()
	cols["quantity"] = []string{"1", "2", "3"}
	_, err := Normalize(frame(cols, append(baseColumns, "quantity")...), "")
	assert.ErrorIs(t, err, ErrParse)
}

func TestCanonicalColumnName(t *testing.T) {
	tests := map[string]string{
		"Order Date":               "order_date",
		"  Cost ($) ":              "cost_($)",
		"Delivery Performance (%)": "delivery_performance_(%)",
		"already_canonical":        "already_canonical",
		"":                         "",
	}
	for in, want := range tests {
		got := CanonicalColumnName(in)
		assert.Equal(t, want, got)
		assert.Equal(t, got, CanonicalColumnName(got), "idempotent for %q", in)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-01-05",
		"2024-01-05 13:45:00",
		"2024-01-05T13:45:00Z",
		"01-05-24",
		"1/5/24",
		"1/5/2024",
		"01/05/2024",
		"1/5/24 13:45",
		"5-Jan-24",
		"Jan 5, 2024",
		"45296",
	} {
		got, err := parseDate(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}

	_, err := parseDate("")
	assert.ErrorIs(t, err, errEmpty)
	_, err = parseDate("not a date")
	assert.Error(t, err)
}

func TestParseCost(t *testing.T) {
	d, err := parseCost("$1,234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", d.String())

	d, err = parseCost("(12.50)")
	require.NoError(t, err)
	assert.Equal(t, "-12.5", d.String())

	_, err = parseCost(" ")
	assert.ErrorIs(t, err, errEmpty)
}

func TestLoadDataset(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		standardHeader,
		{"O-1", "SupplierA", "ProductX", "2024-01-01", "2024-01-05", "90%", 100, 5, "Air"},
	})

	ds, err := LoadDataset(path, "")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	o := ds.Orders()[0]
	assert.Equal(t, 4.0, o.LeadTimeDays)
	assert.InDelta(t, 90.0, o.DeliveryPerformancePercent, 1e-9)
	assert.Equal(t, "100", o.Cost.String())
	assert.Equal(t, path, ds.Info().Source)
}
