package extract

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/facbol/billing-intake/constants"
	"github.com/facbol/billing-intake/internal/common"
)

// Source is a resolved tabular sheet: raw cell values including the header
// row, plus the name of the sheet the data came from.
type Source interface {
	SheetName() string
	Rows() ([][]string, error)
	Close() error
}

// OpenFile opens a spreadsheet source by file extension.
func OpenFile(path string, logger *slog.Logger) (Source, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.AllowedExt(ext) {
		return nil, common.InputErrorf("formato no válido: .%s (solo .xlsx o .csv)", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, common.WrapError(err, "open upload")
	}
	switch ext {
	case "csv":
		defer f.Close()
		return openCSV(f)
	default:
		defer f.Close()
		return openWorkbook(f, logger)
	}
}

// workbookSource reads one resolved sheet of an OOXML workbook.
type workbookSource struct {
	file  *excelize.File
	sheet string
}

// openWorkbook loads a workbook and resolves the working sheet:
// exact "Detail", exact "DETALLE", case-insensitive match, name containing
// "detail", then the active sheet as last resort.
func openWorkbook(r io.Reader, logger *slog.Logger) (Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.NewAppError("INPUT_ERROR", "no se pudo leer el archivo Excel", errors.Join(common.ErrInvalidInput, err))
	}
	sheet, err := resolveSheet(f)
	if err != nil {
		cerr := f.Close()
		_ = cerr
		return nil, err
	}
	if logger != nil && !strings.EqualFold(sheet, "Detail") {
		logger.Warn("extract.sheet.fallback", "sheet", sheet)
	}
	return &workbookSource{file: f, sheet: sheet}, nil
}

func resolveSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", common.NewAppError("SHEET_NOT_FOUND", "el archivo no contiene hojas", common.ErrSheetNotFound)
	}
	for _, want := range []string{"Detail", "DETALLE"} {
		for _, name := range sheets {
			if name == want {
				return name, nil
			}
		}
	}
	for _, name := range sheets {
		if strings.EqualFold(name, "detail") || strings.EqualFold(name, "detalle") {
			return name, nil
		}
	}
	for _, name := range sheets {
		if strings.Contains(strings.ToLower(name), "detail") {
			return name, nil
		}
	}
	active := f.GetSheetName(f.GetActiveSheetIndex())
	if active == "" {
		return "", common.NewAppError("SHEET_NOT_FOUND", "no se encontró la hoja Detail", common.ErrSheetNotFound)
	}
	return active, nil
}

func (w *workbookSource) SheetName() string {
	return w.sheet
}

func (w *workbookSource) Rows() ([][]string, error) {
	rows, err := w.file.GetRows(w.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, common.WrapError(err, "read sheet rows")
	}
	return rows, nil
}

func (w *workbookSource) Close() error {
	return w.file.Close()
}

// csvSource reads an entire CSV export as one sheet named "CSV".
type csvSource struct {
	rows [][]string
}

func openCSV(r io.Reader) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.WrapError(err, "read csv")
	}
	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.Comma = sniffDelimiter(string(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, common.NewAppError("INPUT_ERROR", "no se pudo leer el archivo CSV", errors.Join(common.ErrInvalidInput, err))
	}
	return &csvSource{rows: rows}, nil
}

// sniffDelimiter picks ';' when the first line uses it more than ','.
// Warehouse exports converted through the legacy path are semicolon-separated.
func sniffDelimiter(data string) rune {
	line := data
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func (c *csvSource) SheetName() string {
	return "CSV"
}

func (c *csvSource) Rows() ([][]string, error) {
	return c.rows, nil
}

func (c *csvSource) Close() error {
	return nil
}
