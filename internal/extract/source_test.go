package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCSV(t *testing.T) {
	t.Run("semicolon delimiter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")
		content := "A;B;C\n1;2;3\n4;5;6\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		src, err := OpenFile(path, nil)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		defer src.Close()

		rows, err := src.Rows()
		if err != nil {
			t.Fatalf("Rows: %v", err)
		}
		if len(rows) != 3 || len(rows[1]) != 3 || rows[1][1] != "2" {
			t.Errorf("unexpected rows: %v", rows)
		}
	})

	t.Run("comma delimiter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")
		if err := os.WriteFile(path, []byte("A,B\n1,2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		src, err := OpenFile(path, nil)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		defer src.Close()

		rows, err := src.Rows()
		if err != nil {
			t.Fatalf("Rows: %v", err)
		}
		if len(rows) != 2 || rows[1][0] != "1" {
			t.Errorf("unexpected rows: %v", rows)
		}
	})
}

func TestOpenFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xls")
	if err := os.WriteFile(path, []byte("legacy"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path, nil); err == nil {
		t.Fatal("expected error for .xls upload")
	}
}

func TestSniffDelimiter(t *testing.T) {
	if sniffDelimiter("a;b;c\n1,2;3") != ';' {
		t.Error("expected semicolon")
	}
	if sniffDelimiter("a,b,c") != ',' {
		t.Error("expected comma")
	}
}
