package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/facbol/billing-intake/internal/chunkstore"
	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/entity"
	"github.com/facbol/billing-intake/internal/extract"
	"github.com/facbol/billing-intake/internal/progress"
)

// Request carries everything one extraction run needs besides the source.
type Request struct {
	Type     entity.DocumentType
	Dates    DateRange
	Progress *progress.Handle
}

// Processor runs the full extraction pipeline: raw rows out of the source,
// classification and statistics, then the paged response. Row sets larger
// than the chunk size are written to the chunk store and addressed by token
// instead of being returned inline.
type Processor struct {
	store       *chunkstore.Store
	logger      *slog.Logger
	previewRows int
}

func NewProcessor(store *chunkstore.Store, previewRows int, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, logger: logger, previewRows: previewRows}
}

// Process executes one extraction against an open source. The source is not
// closed here; the caller owns it.
func (p *Processor) Process(ctx context.Context, src extract.Source, req Request) (*entity.ExtractionResult, error) {
	started := time.Now()
	schema := extract.SchemaFor(req.Type)
	if schema == nil {
		return nil, common.InputErrorf("tipo de módulo no soportado: %s", req.Type)
	}

	req.Progress.Update(5, "Leyendo archivo")
	extraction, err := extract.NewExtractor(schema, p.logger).Extract(ctx, src)
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "type", req.Type, "error", err)
		req.Progress.Fail(err)
		return nil, err
	}

	req.Progress.Update(50, "Aplicando filtros")
	out := NewFilter(schema, req.Dates).Run(extraction.Rows)

	res := assemble(schema, out, extraction.SheetUsed, p.previewRows)
	res.ProcessID = req.Progress.ID()

	if len(out.Passing) > p.store.ChunkSize() {
		req.Progress.Update(75, "Almacenando resultados")
		rows := make([][]string, len(out.Passing))
		for i, row := range out.Passing {
			rows[i] = row.Values
		}
		token := chunkstore.NewToken()
		meta, err := p.store.Store(token, rows, res.Stats)
		if err != nil {
			req.Progress.Fail(err)
			return nil, err
		}
		res.Token = token
		res.TotalChunks = meta.TotalChunks
	}

	req.Progress.Finish(fmt.Sprintf("Procesados %d registros", res.TotalRecords))
	p.logger.Info("pipeline.ok",
		"type", req.Type,
		"sheet", extraction.SheetUsed,
		"rows", res.TotalRecords,
		"chunks", res.TotalChunks,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return res, nil
}
