package extract

import (
	"context"
	"log/slog"
)

// RawRow is one extracted, coerced source row. Values are ordered per the
// schema; DateCompare carries the ISO comparison date and is never emitted.
type RawRow struct {
	Values      []string
	DateCompare string
}

// Extraction is the output of one extractor run: the resolved sheet and
// every valid row, in source order.
type Extraction struct {
	SheetUsed string
	Rows      []RawRow
}

// Extractor pulls a fixed schema of columns out of a spreadsheet source,
// applying per-field coercion and discarding rows with no usable data.
type Extractor struct {
	schema *Schema
	logger *slog.Logger
}

func NewExtractor(schema *Schema, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{schema: schema, logger: logger}
}

// Extract reads every data row (row 1 is the header) and returns the valid
// ones. Rows where every field is empty or a zero sentinel never reach the
// filter stage.
func (e *Extractor) Extract(ctx context.Context, src Source) (*Extraction, error) {
	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}

	out := &Extraction{SheetUsed: src.SheetName()}
	dropped := 0
	for n, row := range rows {
		if n == 0 {
			continue
		}
		if n%5000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		raw := RawRow{Values: make([]string, len(e.schema.Fields))}
		valid := false
		for i, field := range e.schema.Fields {
			var cell string
			if idx := e.schema.Index(i); idx >= 0 && idx < len(row) {
				cell = row[idx]
			}

			var v string
			if field.Name == e.schema.DateField && e.schema.DateField != "" {
				v, raw.DateCompare = NormalizeDate(cell)
			} else {
				v = e.schema.coerce(field, cell)
			}
			raw.Values[i] = v

			if !IsZeroSentinel(v) {
				valid = true
			}
		}

		if valid {
			out.Rows = append(out.Rows, raw)
		} else {
			dropped++
		}
	}

	e.logger.Info("extract.ok",
		"sheet", out.SheetUsed,
		"rows", len(out.Rows),
		"dropped_empty", dropped,
	)
	return out, nil
}
