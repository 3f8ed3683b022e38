package entity

import "time"

// InvoiceSave is the persistence request for one module's detail rows.
// A nil InvoiceID creates a new invoice header; otherwise the existing
// invoice's detail rows are replaced.
type InvoiceSave struct {
	InvoiceID  *int64              `json:"factura_id"`
	ClientID   int64               `json:"cliente_id"`
	ClientCode string              `json:"cliente_codigo"`
	UserID     int64               `json:"usuario_id"`
	UserName   string              `json:"usuario_nombre"`
	FileName   string              `json:"archivo_nombre"`
	Module     string              `json:"tipo_modulo"`
	Rows       []map[string]string `json:"datos"`
}

// InvoiceSaveResult reports a completed save.
type InvoiceSaveResult struct {
	InvoiceID int64
	Inserted  int
	Elapsed   time.Duration
}
