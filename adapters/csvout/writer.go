// Package csvout writes result tables as flat delimited text. Undefined
// values are rendered as "NA".
package csvout

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"gridtrend/domain/trend"
	"gridtrend/internal/errors"
)

// Writer emits tables as CSV files
type Writer struct{}

// NewWriter creates a CSV table writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTable writes the table to path with a header row. The value column
// is named by the table (sst or pval); binned tables carry a trailing
// bins column.
func (w *Writer) WriteTable(path string, table *trend.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError("failed to create table file", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{table.ValueColumn, "x", "y"}
	if table.Binned {
		header = append(header, "bins")
	}
	if err := cw.Write(header); err != nil {
		return errors.IOError("failed to write table header", err)
	}

	for _, row := range table.Rows {
		record := []string{formatValue(row.Value), formatValue(row.X), formatValue(row.Y)}
		if table.Binned {
			record = append(record, row.Bin)
		}
		if err := cw.Write(record); err != nil {
			return errors.IOError("failed to write table row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.IOError("failed to flush table file", err)
	}
	return nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
