package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/entity"
)

type invoiceSaveResponse struct {
	Success   bool    `json:"success"`
	InvoiceID int64   `json:"factura_id"`
	Saved     int     `json:"registros_guardados"`
	Elapsed   float64 `json:"tiempo_segundos"`
	Message   string  `json:"mensaje"`
}

// handleInvoiceSave persists extracted rows against an invoice header.
func (s *Server) handleInvoiceSave(w http.ResponseWriter, r *http.Request) {
	var req entity.InvoiceSave
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, common.InputError("Cuerpo de solicitud inválido"))
		return
	}
	if len(req.Rows) == 0 {
		s.writeError(w, common.InputError("No hay datos para guardar"))
		return
	}

	handle := s.registry.Start(len(req.Rows), "Guardando registros")
	res, err := s.invoices.SaveDetail(r.Context(), req, handle)
	if err != nil {
		handle.Fail(err)
		s.writeError(w, err)
		return
	}
	handle.Finish(fmt.Sprintf("Guardados %d registros", res.Inserted))

	s.writeJSON(w, http.StatusOK, invoiceSaveResponse{
		Success:   true,
		InvoiceID: res.InvoiceID,
		Saved:     res.Inserted,
		Elapsed:   res.Elapsed.Seconds(),
		Message:   fmt.Sprintf("Se guardaron %d registros correctamente", res.Inserted),
	})
}
