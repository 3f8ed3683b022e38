package repository

import (
	"testing"

	"github.com/facbol/billing-intake/internal/extract"
)

func TestSplitLots(t *testing.T) {
	rows := make([]map[string]string, 439)
	lots := SplitLots(rows, 190)
	if len(lots) != 3 {
		t.Fatalf("lots = %d, want 3", len(lots))
	}
	if len(lots[0]) != 190 || len(lots[1]) != 190 || len(lots[2]) != 59 {
		t.Errorf("lot sizes = %d/%d/%d", len(lots[0]), len(lots[1]), len(lots[2]))
	}

	if got := SplitLots(nil, 190); len(got) != 0 {
		t.Errorf("empty input should yield no lots, got %d", len(got))
	}
	if got := SplitLots(rows[:5], 0); len(got) != 5 {
		t.Errorf("non-positive size should fall back to 1, got %d lots", len(got))
	}
}

func TestDetailColumns(t *testing.T) {
	schema := extract.SchemaFor("recepcion")
	cols := detailColumns(schema)
	if len(cols) != len(schema.Fields) {
		t.Fatalf("columns = %d, want %d", len(cols), len(schema.Fields))
	}
	if cols[0] != "receiptkey" {
		t.Errorf("first column = %q", cols[0])
	}
	if cols[4] != "qtyreceived" {
		t.Errorf("quantity column = %q", cols[4])
	}
}

func TestDetailValue(t *testing.T) {
	schema := extract.SchemaFor("recepcion")

	if got := detailValue(schema, "DATERECEIVED", "15/03/2023"); got != "2023-03-15" {
		t.Errorf("date value = %v", got)
	}
	if got := detailValue(schema, "DATERECEIVED", "sin fecha"); got != "sin fecha" {
		t.Errorf("unparseable date should pass through, got %v", got)
	}
	if got := detailValue(schema, "RECEIPTKEY", "RK001"); got != "RK001" {
		t.Errorf("non-date value = %v", got)
	}
}
