package aggregate

import (
	"math"
	"testing"

	"gridtrend/domain/trend"
	"gridtrend/internal/testkit"
)

func TestSlopeTable_RescalesToDecade(t *testing.T) {
	g := testkit.NewGrid(1, 2, 2)
	slopes := trend.NewLayer(2, 2)
	slopes.Set(0, 0, 1e-9)
	slopes.Set(1, 0, 2e-9)

	table := SlopeTable(slopes, g)
	if table.ValueColumn != "sst" {
		t.Errorf("slope table value column should be sst, got %q", table.ValueColumn)
	}
	if table.Binned {
		t.Error("slope table must not carry bins")
	}
	if len(table.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(table.Rows))
	}

	// Row order is row-major: (0,0), (0,1), (1,0), (1,1)
	if got, want := table.Rows[0].Value, 1e-9*trend.SecondsPerDecade; got != want {
		t.Errorf("rescaled slope = %v, want exactly %v", got, want)
	}
	if got, want := table.Rows[2].Value, 2e-9*trend.SecondsPerDecade; got != want {
		t.Errorf("rescaled slope = %v, want exactly %v", got, want)
	}
	if !math.IsNaN(table.Rows[1].Value) {
		t.Error("undefined slope should stay NaN in the table")
	}
}

func TestSlopeTable_CoordinateColumns(t *testing.T) {
	g := testkit.NewGrid(1, 2, 3)
	slopes := trend.NewLayer(2, 3)

	table := SlopeTable(slopes, g)
	if len(table.Rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(table.Rows))
	}
	for i, row := range table.Rows {
		y := i / 3
		x := i % 3
		if row.X != g.Lons[x] || row.Y != g.Lats[y] {
			t.Errorf("row %d has coordinates (%v, %v), want (%v, %v)", i, row.X, row.Y, g.Lons[x], g.Lats[y])
		}
	}
}

func TestPValueTable_BinsEveryRow(t *testing.T) {
	g := testkit.NewGrid(1, 2, 2)
	pvals := trend.NewLayer(2, 2)
	pvals.Set(0, 0, 0.00005)
	pvals.Set(0, 1, 0.05)
	pvals.Set(1, 0, 0.5)
	// (1,1) left undefined

	table := PValueTable(pvals, g)
	if table.ValueColumn != "pval" || !table.Binned {
		t.Fatalf("p-value table should be binned with column pval")
	}

	wantBins := []string{"< 0.0001", "0.01 - 0.05", "> 0.1", trend.UndefinedBin}
	for i, want := range wantBins {
		if table.Rows[i].Bin != want {
			t.Errorf("row %d bin = %q, want %q", i, table.Rows[i].Bin, want)
		}
	}
	if !math.IsNaN(table.Rows[3].Value) {
		t.Error("undefined p-value should stay NaN but keep its row")
	}
}

func TestFlatten_DropsUndefinedCoordinates(t *testing.T) {
	g := testkit.NewGrid(1, 2, 2)
	g.Lons[1] = math.NaN() // column outside the valid raster mask

	pvals := trend.NewLayer(2, 2)
	pvals.Set(0, 0, 0.01)
	pvals.Set(0, 1, 0.01)

	table := PValueTable(pvals, g)
	if len(table.Rows) != 2 {
		t.Fatalf("cells with undefined coordinates should be dropped, got %d rows", len(table.Rows))
	}
	for _, row := range table.Rows {
		if math.IsNaN(row.X) || math.IsNaN(row.Y) {
			t.Error("emitted rows must have defined coordinates")
		}
	}
}
