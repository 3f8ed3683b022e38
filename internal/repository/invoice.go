package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facbol/billing-intake/constants"
	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/entity"
	"github.com/facbol/billing-intake/internal/extract"
	"github.com/facbol/billing-intake/internal/progress"
)

// InvoiceRepository persists extracted detail rows against invoice headers.
type InvoiceRepository interface {
	// SaveDetail writes the detail rows for one module inside a single
	// transaction. A request without an invoice id creates the header;
	// otherwise the module's existing detail rows are replaced.
	SaveDetail(ctx context.Context, req entity.InvoiceSave, p *progress.Handle) (*entity.InvoiceSaveResult, error)
}

type invoiceRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewInvoiceRepository(pool *pgxpool.Pool, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{pool: pool, logger: logger}
}

func (r *invoiceRepository) SaveDetail(ctx context.Context, req entity.InvoiceSave, p *progress.Handle) (*entity.InvoiceSaveResult, error) {
	started := time.Now()

	docType, err := entity.ParseDocumentType(req.Module)
	if err != nil {
		return nil, common.InputErrorf("tipo de módulo no soportado: %s", req.Module)
	}
	schema := extract.SchemaFor(docType)
	if len(req.Rows) == 0 {
		return nil, common.InputError("No hay datos para guardar")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, common.WrapError(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	p.Update(5, "Guardando factura")
	invoiceID, err := r.upsertHeader(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	table := "facturas_" + string(docType)
	columns := detailColumns(schema)
	inserted := 0
	lots := SplitLots(req.Rows, constants.InsertLotSize)
	for i, lot := range lots {
		if err := insertLot(ctx, tx, table, columns, schema, invoiceID, lot); err != nil {
			r.logger.Error("invoice.save.failed", "table", table, "lot", i, "error", err)
			return nil, err
		}
		inserted += len(lot)
		p.Update(10+85*(i+1)/len(lots), fmt.Sprintf("Insertados %d de %d registros", inserted, len(req.Rows)))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapError(err, "commit transaction")
	}

	elapsed := time.Since(started)
	r.logger.Info("invoice.save.ok",
		"invoice_id", invoiceID,
		"module", req.Module,
		"rows", inserted,
		"elapsed", elapsed.Round(time.Millisecond),
	)
	return &entity.InvoiceSaveResult{InvoiceID: invoiceID, Inserted: inserted, Elapsed: elapsed}, nil
}

// upsertHeader creates the invoice header or, for an existing invoice,
// clears the module's previous detail rows and stamps the new file on the
// header.
func (r *invoiceRepository) upsertHeader(ctx context.Context, tx pgx.Tx, req entity.InvoiceSave) (int64, error) {
	module := req.Module
	if req.InvoiceID == nil {
		var id int64
		query := fmt.Sprintf(
			`INSERT INTO facturas (cliente_id, cliente_codigo, usuario_id, usuario_nombre, %s_archivo, %s_completado)
			 VALUES ($1, $2, $3, $4, $5, 1) RETURNING id`,
			module, module,
		)
		err := tx.QueryRow(ctx, query, req.ClientID, req.ClientCode, req.UserID, req.UserName, req.FileName).Scan(&id)
		if err != nil {
			return 0, common.NewAppError("DB_ERROR", "insert invoice header", err)
		}
		return id, nil
	}

	id := *req.InvoiceID
	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM facturas_%s WHERE factura_id = $1", module), id); err != nil {
		return 0, common.NewAppError("DB_ERROR", "clear previous detail", err)
	}
	query := fmt.Sprintf(
		`UPDATE facturas SET %s_archivo = $1, %s_completado = 1, usuario_id = $2, usuario_nombre = $3 WHERE id = $4`,
		module, module,
	)
	if _, err := tx.Exec(ctx, query, req.FileName, req.UserID, req.UserName, id); err != nil {
		return 0, common.NewAppError("DB_ERROR", "update invoice header", err)
	}
	return id, nil
}

// insertLot writes one lot as a single multi-row INSERT.
func insertLot(ctx context.Context, tx pgx.Tx, table string, columns []string, schema *extract.Schema, invoiceID int64, lot []map[string]string) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (factura_id, ")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(lot)*(len(columns)+1))
	n := 1
	for i, row := range lot {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := 0; j <= len(columns); j++ {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", n)
			n++
		}
		sb.WriteByte(')')

		args = append(args, invoiceID)
		for _, f := range schema.Fields {
			args = append(args, detailValue(schema, f.Name, row[f.Name]))
		}
	}

	if _, err := tx.Exec(ctx, sb.String(), args...); err != nil {
		return common.NewAppError("DB_ERROR", "insert detail rows", err)
	}
	return nil
}

// detailColumns maps schema field names to their detail table columns.
func detailColumns(schema *extract.Schema) []string {
	out := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		out[i] = strings.ToLower(f.Name)
	}
	return out
}

// detailValue converts a display value to its stored form. Dates arrive as
// DD/MM/YYYY and are stored in ISO form; anything unparseable is stored as
// received.
func detailValue(schema *extract.Schema, field, value string) any {
	if field == schema.DateField && value != "" {
		if t, err := time.Parse("02/01/2006", value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}

// SplitLots divides rows into insert lots of at most size rows.
func SplitLots(rows []map[string]string, size int) [][]map[string]string {
	if size < 1 {
		size = 1
	}
	lots := make([][]map[string]string, 0, (len(rows)+size-1)/size)
	for lo := 0; lo < len(rows); lo += size {
		hi := min(lo+size, len(rows))
		lots = append(lots, rows[lo:hi])
	}
	return lots
}
