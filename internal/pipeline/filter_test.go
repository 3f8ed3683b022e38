package pipeline

import (
	"testing"

	"github.com/facbol/billing-intake/internal/extract"
)

// receptionRow builds a raw row in reception schema order:
// RECEIPTKEY, SKU, STORERKEY, RECEIPTLINENUMBER, QTYRECEIVED, UOM, STATUS,
// DATERECEIVED, EXTERNRECEIPTKEY.
func receptionRow(key, qty, dateDisplay, dateCompare string) extract.RawRow {
	return extract.RawRow{
		Values:      []string{key, "SKU1", "ST1", "1", qty, "UN", "0 - Pendiente", dateDisplay, "EXT"},
		DateCompare: dateCompare,
	}
}

func TestFilterZeroQuantity(t *testing.T) {
	schema := extract.SchemaFor("recepcion")
	rows := []extract.RawRow{
		receptionRow("RK001", "10", "15/03/2023", "2023-03-15"),
		receptionRow("RK002", "0,00000", "16/03/2023", "2023-03-16"),
		receptionRow("RK003", "5", "17/03/2023", "2023-03-17"),
	}

	out := NewFilter(schema, DateRange{}).Run(rows)

	if len(out.Passing) != 2 {
		t.Fatalf("passing = %d, want 2", len(out.Passing))
	}
	if out.Stats.FilteredZeroQuantity != 1 {
		t.Errorf("filtered zero = %d", out.Stats.FilteredZeroQuantity)
	}
	if out.Stats.TotalRows != 2 {
		t.Errorf("total rows = %d", out.Stats.TotalRows)
	}
	if out.Stats.TotalBeforeFilter != 2 {
		t.Errorf("total before filter = %d", out.Stats.TotalBeforeFilter)
	}
	if out.Stats.UniqueKeys != 2 {
		t.Errorf("unique keys = %d", out.Stats.UniqueKeys)
	}
	if out.Stats.TotalQuantity != "15,00" {
		t.Errorf("total quantity = %q", out.Stats.TotalQuantity)
	}
	if out.Stats.DateMin != "15/03/2023" || out.Stats.DateMax != "17/03/2023" {
		t.Errorf("date range = %q .. %q", out.Stats.DateMin, out.Stats.DateMax)
	}
}

func TestFilterDateRange(t *testing.T) {
	schema := extract.SchemaFor("recepcion")
	rows := []extract.RawRow{
		receptionRow("RK001", "10", "15/03/2023", "2023-03-15"),
		receptionRow("RK002", "10", "16/03/2023", "2023-03-16"),
		receptionRow("RK003", "10", "17/03/2023", "2023-03-17"),
	}

	out := NewFilter(schema, DateRange{From: "2023-03-16", To: "2023-03-16"}).Run(rows)

	if len(out.Passing) != 1 {
		t.Fatalf("passing = %d, want 1", len(out.Passing))
	}
	if out.Stats.FilteredByDate != 2 {
		t.Errorf("filtered by date = %d", out.Stats.FilteredByDate)
	}
	// The extent reflects the whole file, not the filtered window.
	if out.Stats.DateMin != "15/03/2023" || out.Stats.DateMax != "17/03/2023" {
		t.Errorf("date range = %q .. %q", out.Stats.DateMin, out.Stats.DateMax)
	}
	if out.Stats.AppliedFilters.FromDate != "16/03/2023" {
		t.Errorf("applied from = %q", out.Stats.AppliedFilters.FromDate)
	}
}

func TestFilterRowWithoutDateFailsActiveFilter(t *testing.T) {
	schema := extract.SchemaFor("recepcion")
	rows := []extract.RawRow{
		receptionRow("RK001", "10", "sin fecha", ""),
	}

	out := NewFilter(schema, DateRange{From: "2023-01-01"}).Run(rows)
	if len(out.Passing) != 0 {
		t.Fatalf("passing = %d, want 0", len(out.Passing))
	}
	if out.Stats.FilteredByDate != 1 {
		t.Errorf("filtered by date = %d", out.Stats.FilteredByDate)
	}

	// Without an active filter the same row passes.
	out = NewFilter(schema, DateRange{}).Run(rows)
	if len(out.Passing) != 1 {
		t.Fatalf("passing without filter = %d, want 1", len(out.Passing))
	}
}

func TestFilterInvertedRangeExcludesEverything(t *testing.T) {
	schema := extract.SchemaFor("recepcion")
	rows := []extract.RawRow{
		receptionRow("RK001", "10", "15/03/2023", "2023-03-15"),
	}

	out := NewFilter(schema, DateRange{From: "2023-04-01", To: "2023-03-01"}).Run(rows)
	if len(out.Passing) != 0 {
		t.Fatalf("passing = %d, want 0", len(out.Passing))
	}
}
