package pipeline

import (
	"fmt"

	"github.com/facbol/billing-intake/internal/entity"
	"github.com/facbol/billing-intake/internal/extract"
)

// assemble builds the extraction response: headers, a bounded preview of
// the passing rows, and the statistics block. total_registros reflects the
// full passing count, not the preview length, so callers can detect
// truncation.
func assemble(schema *extract.Schema, out *Outcome, sheetUsed string, previewRows int) *entity.ExtractionResult {
	preview := make([][]string, 0, min(previewRows, len(out.Passing)))
	for _, row := range out.Passing {
		if len(preview) >= previewRows {
			break
		}
		preview = append(preview, row.Values)
	}

	stats := out.Stats
	stats.Showing = len(preview)

	res := &entity.ExtractionResult{
		Success:      true,
		TotalRecords: stats.TotalRows,
		Headers:      schema.Headers(),
		Data:         preview,
		Stats:        stats,
		SheetUsed:    sheetUsed,
	}
	if stats.FilteredZeroQuantity > 0 {
		res.Message = fmt.Sprintf("Se filtraron %d registros con cantidad cero", stats.FilteredZeroQuantity)
	}
	if stats.FilteredByDate > 0 {
		res.DateMessage = fmt.Sprintf("Se filtraron %d registros por rango de fechas", stats.FilteredByDate)
	}
	return res
}
