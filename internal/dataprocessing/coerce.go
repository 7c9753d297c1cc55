package dataprocessing

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	errEmpty      = errors.New("empty value")
	errDateLayout = errors.New("unrecognised date layout")
)

// dateLayouts covers what excelize renders for the built-in date formats plus
// the textual layouts people type into spreadsheets. Order matters for the
// ambiguous slash forms: month first wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006/1/2",
	"01-02-06",
	"1-2-06",
	"01-02-2006",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1/2/2006",
	"2-Jan-06",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02.01.2006",
}

// parseDate returns the calendar date of a cell as midnight UTC.
func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errEmpty
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	// unformatted date cells come through as Excel serial numbers
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return truncateDay(t), nil
	}
	return time.Time{}, errDateLayout
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseNumber accepts plain and thousands-separated numbers.
func parseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, errEmpty
	}
	return strconv.ParseFloat(s, 64)
}

// parsePercent strips a percent sign; values without one pass through as is.
func parsePercent(raw string) (float64, error) {
	return parseNumber(strings.ReplaceAll(raw, "%", ""))
}

// parseCost strips currency symbols and separators and keeps exact cents.
func parseCost(raw string) (decimal.Decimal, error) {
	s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, errEmpty
	}
	// accounting negatives: (12.50)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	return decimal.NewFromString(s)
}

// dayDiff is the floor of whole days from start to end.
func dayDiff(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Hours() / 24))
}
