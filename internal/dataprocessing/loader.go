package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads one sheet of an Excel workbook into a frame of string
// columns. An empty sheet name selects the first sheet.
func LoadWorkbook(path, sheet string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: failed to open %s: %w", ErrLoad, path, err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

// ReadWorkbook is LoadWorkbook for an already opened stream.
func ReadWorkbook(r io.Reader, sheet string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: failed to read workbook: %w", ErrLoad, err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (dataframe.DataFrame, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, fmt.Errorf("%w: workbook has no sheets", ErrLoad)
		}
		sheet = sheets[0]
	}

	// GetRows returns display values, so percent and date formats survive as text
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: failed to read sheet %q: %w", ErrLoad, sheet, err)
	}

	var header []string
	var data [][]string
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if header == nil {
			header = headerNames(row)
			continue
		}
		data = append(data, row)
	}
	if header == nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: sheet %q has no header row", ErrLoad, sheet)
	}

	columns := make([]series.Series, len(header))
	for c, name := range header {
		values := make([]string, len(data))
		for r, row := range data {
			if c < len(row) {
				values[r] = strings.TrimSpace(row[c])
			}
		}
		columns[c] = series.New(values, series.String, name)
	}

	df := dataframe.New(columns...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %w", ErrLoad, df.Err)
	}

	slog.Debug("Workbook sheet loaded",
		slog.String("sheet", sheet),
		slog.Int("columns", df.Ncol()),
		slog.Int("rows", df.Nrow()))

	return df, nil
}

// headerNames keeps names as written, labelling blanks "Unnamed: i" and
// suffixing repeats with ".1", ".2" and so on.
func headerNames(row []string) []string {
	// trailing blank header cells carry no column
	last := len(row) - 1
	for last >= 0 && strings.TrimSpace(row[last]) == "" {
		last--
	}

	names := make([]string, 0, last+1)
	seen := make(map[string]int, last+1)
	for i := 0; i <= last; i++ {
		name := row[i]
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		}
		seen[name] = 0
		names = append(names, name)
	}
	return names
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
