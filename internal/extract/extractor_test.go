package extract

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeReceptionWorkbook builds a minimal reception export fixture.
func writeReceptionWorkbook(t *testing.T, sheet string, rows []map[string]any) string {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheet, "C1", "RECEIPTKEY"); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		for cell, v := range row {
			axis := cell + strconv.Itoa(i+2)
			if err := f.SetCellValue(sheet, axis, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "recepcion.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractReception(t *testing.T) {
	path := writeReceptionWorkbook(t, "Detail", []map[string]any{
		{"C": "RK001", "D": "SKU1", "E": "ST1", "F": "1", "H": "5.5", "I": "UN", "O": "0", "AH": 45000, "AN": "EXT1"},
		{"C": "RK002", "D": "SKU2", "E": "ST1", "F": "2", "H": "12", "I": "CJ", "O": "9", "AH": "15/03/2023", "AN": "EXT2"},
	})

	src, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer src.Close()

	ex, err := NewExtractor(SchemaFor("recepcion"), nil).Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ex.SheetUsed != "Detail" {
		t.Errorf("SheetUsed = %q", ex.SheetUsed)
	}
	if len(ex.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(ex.Rows))
	}

	first := ex.Rows[0]
	if got := first.Values[0]; got != "RK001" {
		t.Errorf("key = %q", got)
	}
	if got := first.Values[4]; got != "5,50000" {
		t.Errorf("fractional quantity = %q", got)
	}
	if got := first.Values[6]; got != "0 - Pendiente" {
		t.Errorf("status = %q", got)
	}
	if got := first.Values[7]; got != "15/03/2023" {
		t.Errorf("date display = %q", got)
	}
	if got := first.DateCompare; got != "2023-03-15" {
		t.Errorf("date compare = %q", got)
	}

	second := ex.Rows[1]
	if got := second.Values[6]; got != "9 - Completado" {
		t.Errorf("status = %q", got)
	}
	if got := second.Values[4]; got != "12" {
		t.Errorf("whole quantity = %q", got)
	}
	if got := second.DateCompare; got != "2023-03-15" {
		t.Errorf("text date compare = %q", got)
	}
}

func TestExtractDropsEmptyRows(t *testing.T) {
	path := writeReceptionWorkbook(t, "Detail", []map[string]any{
		{"C": "RK001", "H": "10"},
		{"C": "", "H": "0"},
	})

	src, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer src.Close()

	ex, err := NewExtractor(SchemaFor("recepcion"), nil).Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ex.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(ex.Rows))
	}
}

func TestSheetFallback(t *testing.T) {
	path := writeReceptionWorkbook(t, "DETALLE", []map[string]any{
		{"C": "RK001", "H": "10"},
	})

	src, err := OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer src.Close()
	if src.SheetName() != "DETALLE" {
		t.Errorf("SheetName = %q", src.SheetName())
	}
}
