package excel

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gridtrend/domain/trend"
)

func TestWorkbookWriter_TwoSheets(t *testing.T) {
	slopes := &trend.Table{
		ValueColumn: "sst",
		Rows: []trend.Row{
			{Value: 0.31, X: -30.0, Y: 40.0},
			{Value: math.NaN(), X: -29.75, Y: 40.0},
		},
	}
	pvals := &trend.Table{
		ValueColumn: "pval",
		Binned:      true,
		Rows: []trend.Row{
			{Value: 0.002, X: -30.0, Y: 40.0, Bin: "0.001 - 0.01"},
		},
	}

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	w := NewWorkbookWriter()
	require.NoError(t, w.AddTable(slopes))
	require.NoError(t, w.AddTable(pvals))
	require.NoError(t, w.Save(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{"sst", "pval"}, f.GetSheetList())

	header, err := f.GetCellValue("sst", "A1")
	require.NoError(t, err)
	require.Equal(t, "sst", header)

	na, err := f.GetCellValue("sst", "A3")
	require.NoError(t, err)
	require.Equal(t, "NA", na, "undefined values render as NA")

	bin, err := f.GetCellValue("pval", "D2")
	require.NoError(t, err)
	require.Equal(t, "0.001 - 0.01", bin)
}
