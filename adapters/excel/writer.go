// Package excel writes the result tables as a single workbook, one sheet
// per table, for consumers who want the structured-object form.
package excel

import (
	"math"

	"github.com/xuri/excelize/v2"

	"gridtrend/domain/trend"
	"gridtrend/internal/errors"
)

// WorkbookWriter collects tables into an Excel workbook
type WorkbookWriter struct {
	file   *excelize.File
	sheets int
}

// NewWorkbookWriter creates an empty workbook
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{file: excelize.NewFile()}
}

// AddTable writes a table to its own sheet named after the value column
func (w *WorkbookWriter) AddTable(table *trend.Table) error {
	sheet := table.ValueColumn
	if w.sheets == 0 {
		// Rename the default sheet rather than leaving an empty Sheet1
		if err := w.file.SetSheetName("Sheet1", sheet); err != nil {
			return errors.IOError("failed to name workbook sheet", err)
		}
	} else {
		if _, err := w.file.NewSheet(sheet); err != nil {
			return errors.IOError("failed to add workbook sheet", err)
		}
	}
	w.sheets++

	header := []interface{}{table.ValueColumn, "x", "y"}
	if table.Binned {
		header = append(header, "bins")
	}
	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.IOError("failed to write workbook header", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.IOError("failed to address workbook cell", err)
		}
		record := []interface{}{cellValue(row.Value), cellValue(row.X), cellValue(row.Y)}
		if table.Binned {
			record = append(record, row.Bin)
		}
		if err := w.file.SetSheetRow(sheet, cell, &record); err != nil {
			return errors.IOError("failed to write workbook row", err)
		}
	}
	return nil
}

// Save writes the workbook to path and closes it
func (w *WorkbookWriter) Save(path string) error {
	defer w.file.Close()
	if err := w.file.SaveAs(path); err != nil {
		return errors.IOError("failed to save workbook", err)
	}
	return nil
}

// cellValue maps NaN to the "NA" convention shared with the CSV output
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return "NA"
	}
	return v
}
