package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"supplychain/pkg/contracts/domain"
)

const isoDate = "2006-01-02"

// LoadDataset reads the workbook at path and normalizes it.
func LoadDataset(path, sheet string) (*domain.Dataset, error) {
	df, err := LoadWorkbook(path, sheet)
	if err != nil {
		return nil, err
	}
	return Normalize(df, path)
}

// Normalize applies the cleaning steps to a freshly loaded frame and returns
// the typed dataset. The first failure aborts the whole pipeline.
func Normalize(df dataframe.DataFrame, source string) (*domain.Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, df.Err)
	}

	df, err := parseDateColumns(df)
	if err != nil {
		return nil, err
	}

	df, derived, err := ensureLeadTime(df)
	if err != nil {
		return nil, err
	}

	df, err = canonicalizeColumns(df)
	if err != nil {
		return nil, err
	}

	df, err = coercePerformance(df)
	if err != nil {
		return nil, err
	}

	orders, err := project(df)
	if err != nil {
		return nil, err
	}

	slog.Info("Dataset normalized",
		slog.String("source", source),
		slog.Int("rows", len(orders)),
		slog.Bool("lead_time_derived", derived))

	return domain.NewDataset(source, time.Now().UTC(), derived, orders), nil
}

// parseDateColumns rewrites both date columns as ISO calendar dates.
func parseDateColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, name := range []string{HeaderOrderDate, HeaderDeliveryDate} {
		if !hasColumn(df, name) {
			return df, missingColumn(name)
		}
		raw := df.Col(name).Records()
		out := make([]string, len(raw))
		for i, cell := range raw {
			t, err := parseDate(cell)
			if err != nil {
				return df, &ParseError{Column: name, Row: i + 1, Value: cell, Err: err}
			}
			out[i] = t.Format(isoDate)
		}
		df = df.Mutate(series.New(out, series.String, name))
	}
	return df, df.Err
}

// ensureLeadTime fills "Lead Time (Days)" as a float column where NaN marks a
// missing value. It reports whether the column was derived from the dates.
func ensureLeadTime(df dataframe.DataFrame) (dataframe.DataFrame, bool, error) {
	n := df.Nrow()
	values := make([]float64, n)

	if hasColumn(df, HeaderLeadTime) && !allEmpty(df.Col(HeaderLeadTime).Records()) {
		for i, cell := range df.Col(HeaderLeadTime).Records() {
			if isBlankCell(cell) {
				values[i] = math.NaN()
				continue
			}
			v, err := parseNumber(cell)
			if err != nil {
				return df, false, &ParseError{Column: HeaderLeadTime, Row: i + 1, Value: cell, Err: err}
			}
			values[i] = v
		}
		df = df.Mutate(series.New(values, series.Float, HeaderLeadTime))
		return df, false, df.Err
	}

	orderDates := df.Col(HeaderOrderDate).Records()
	deliveryDates := df.Col(HeaderDeliveryDate).Records()
	for i := range values {
		start, _ := time.Parse(isoDate, orderDates[i])
		end, _ := time.Parse(isoDate, deliveryDates[i])
		values[i] = float64(dayDiff(start, end))
	}
	df = df.Mutate(series.New(values, series.Float, HeaderLeadTime))
	return df, true, df.Err
}

func canonicalizeColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	owner := make(map[string]string, df.Ncol())
	for _, name := range df.Names() {
		canon := CanonicalColumnName(name)
		if prev, ok := owner[canon]; ok {
			return df, fmt.Errorf("%w: columns %q and %q both canonicalize to %q", ErrParse, prev, name, canon)
		}
		owner[canon] = name
	}
	for canon, name := range owner {
		if canon != name {
			df = df.Rename(canon, name)
		}
	}
	return df, df.Err
}

// coercePerformance adds the numeric "delivery_performance_%" column. Blank
// cells become NaN.
func coercePerformance(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !hasColumn(df, ColDeliveryPerformance) {
		return df, missingColumn(ColDeliveryPerformance)
	}
	raw := df.Col(ColDeliveryPerformance).Records()
	values := make([]float64, len(raw))
	for i, cell := range raw {
		if isBlankCell(cell) {
			values[i] = math.NaN()
			continue
		}
		v, err := parsePercent(cell)
		if err != nil {
			return df, &ParseError{Column: ColDeliveryPerformance, Row: i + 1, Value: cell, Err: err}
		}
		values[i] = v
	}
	df = df.Mutate(series.New(values, series.Float, ColPerformancePercent))
	return df, df.Err
}

// project turns the cleaned frame into typed records. Blank numeric cells
// leave the matching Has* flag unset; any other unparsable text is an error.
func project(df dataframe.DataFrame) ([]domain.Order, error) {
	required := []string{
		ColOrderID, ColSupplierName, ColProductName, ColOrderDate, ColDeliveryDate,
		ColLeadTime, ColPerformancePercent, ColCost, ColQuantity, ColShippingMethod,
	}
	for _, name := range required {
		if !hasColumn(df, name) {
			return nil, missingColumn(name)
		}
	}

	ids := df.Col(ColOrderID).Records()
	suppliers := df.Col(ColSupplierName).Records()
	products := df.Col(ColProductName).Records()
	orderDates := df.Col(ColOrderDate).Records()
	deliveryDates := df.Col(ColDeliveryDate).Records()
	leadTimes := df.Col(ColLeadTime).Float()
	perf := df.Col(ColPerformancePercent).Float()
	costs := df.Col(ColCost).Records()
	quantities := df.Col(ColQuantity).Records()
	shipping := df.Col(ColShippingMethod).Records()

	orders := make([]domain.Order, df.Nrow())
	for i := range orders {
		orderDate, _ := time.Parse(isoDate, orderDates[i])
		deliveryDate, _ := time.Parse(isoDate, deliveryDates[i])

		o := domain.Order{
			OrderID:        ids[i],
			SupplierName:   suppliers[i],
			ProductName:    products[i],
			OrderDate:      orderDate,
			DeliveryDate:   deliveryDate,
			ShippingMethod: shipping[i],
		}
		if !math.IsNaN(leadTimes[i]) {
			o.LeadTimeDays = leadTimes[i]
			o.HasLeadTime = true
		}
		if !math.IsNaN(perf[i]) {
			o.DeliveryPerformancePercent = perf[i]
			o.HasPerformance = true
		}
		if !isBlankCell(costs[i]) {
			cost, err := parseCost(costs[i])
			if err != nil {
				return nil, &ParseError{Column: ColCost, Row: i + 1, Value: costs[i], Err: err}
			}
			o.Cost = cost
			o.HasCost = true
		}
		if !isBlankCell(quantities[i]) {
			qty, err := parseNumber(quantities[i])
			if err != nil {
				return nil, &ParseError{Column: ColQuantity, Row: i + 1, Value: quantities[i], Err: err}
			}
			o.Quantity = qty
			o.HasQuantity = true
		}
		orders[i] = o
	}
	return orders, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if !isBlankCell(v) {
			return false
		}
	}
	return true
}

// isBlankCell reports an empty workbook cell. gota renders a missing string
// element as "NaN".
func isBlankCell(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "NaN"
}
