package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/facbol/billing-intake/internal/chunkstore"
	"github.com/facbol/billing-intake/internal/common"
)

// stubSource feeds fixed raw rows, header included, as if read from a sheet.
type stubSource struct {
	rows [][]string
}

func (s *stubSource) SheetName() string         { return "Detail" }
func (s *stubSource) Rows() ([][]string, error) { return s.rows, nil }
func (s *stubSource) Close() error              { return nil }

// rawReceptionRow places values at the reception source column positions.
func rawReceptionRow(key, qty, date string) []string {
	row := make([]string, 40)
	row[2] = key   // C
	row[7] = qty   // H
	row[33] = date // AH
	return row
}

func newTestStore(t *testing.T, chunkSize int) *chunkstore.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := chunkstore.New(common.CacheConfig{
		CacheDir:  dir + "/cache",
		ChunksDir: dir + "/chunks",
		ChunkSize: chunkSize,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestProcessSmallFileStaysInline(t *testing.T) {
	rows := [][]string{rawReceptionRow("HEADER", "", "")}
	for i := 0; i < 5; i++ {
		rows = append(rows, rawReceptionRow(fmt.Sprintf("RK%03d", i), "10", "15/03/2023"))
	}

	p := NewProcessor(newTestStore(t, 10), 100, nil)
	res, err := p.Process(context.Background(), &stubSource{rows: rows}, Request{Type: "recepcion"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Success {
		t.Error("expected success")
	}
	if res.Token != "" || res.TotalChunks != 0 {
		t.Errorf("small result should not be chunked: token=%q chunks=%d", res.Token, res.TotalChunks)
	}
	if res.TotalRecords != 5 || len(res.Data) != 5 {
		t.Errorf("records = %d, preview = %d", res.TotalRecords, len(res.Data))
	}
	if res.SheetUsed != "Detail" {
		t.Errorf("sheet = %q", res.SheetUsed)
	}
}

func TestProcessLargeFileIsChunked(t *testing.T) {
	rows := [][]string{rawReceptionRow("HEADER", "", "")}
	for i := 0; i < 25; i++ {
		rows = append(rows, rawReceptionRow(fmt.Sprintf("RK%03d", i), "2", "15/03/2023"))
	}

	store := newTestStore(t, 10)
	p := NewProcessor(store, 4, nil)
	res, err := p.Process(context.Background(), &stubSource{rows: rows}, Request{Type: "recepcion"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a chunk token")
	}
	if res.TotalChunks != 3 {
		t.Errorf("total chunks = %d, want 3", res.TotalChunks)
	}
	if res.TotalRecords != 25 {
		t.Errorf("records = %d", res.TotalRecords)
	}
	if len(res.Data) != 4 {
		t.Errorf("preview = %d, want 4", len(res.Data))
	}
	if res.Stats.Showing != 4 {
		t.Errorf("showing = %d", res.Stats.Showing)
	}

	// The stored set must be readable back through the chunk reader.
	page, err := chunkstore.NewReader(store, nil).Read(context.Background(), res.Token, 1, 10)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if page.TotalRecords != 25 || len(page.Data) != 10 {
		t.Errorf("page records = %d, rows = %d", page.TotalRecords, len(page.Data))
	}
	if page.Stats.Showing != 10 {
		t.Errorf("page showing = %d, want the page length", page.Stats.Showing)
	}
	if page.Stats.TotalRows != 25 {
		t.Errorf("page stats total = %d", page.Stats.TotalRows)
	}
}

func TestProcessUnknownType(t *testing.T) {
	p := NewProcessor(newTestStore(t, 10), 100, nil)
	_, err := p.Process(context.Background(), &stubSource{}, Request{Type: "facturacion"})
	if err == nil {
		t.Fatal("expected error for unknown document type")
	}
}
