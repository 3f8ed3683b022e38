package server

import (
	"net/http"

	"github.com/facbol/billing-intake/internal/common"
)

// handleProgress returns the snapshot of a tracked process.
// Query: proceso_id (required).
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("proceso_id")
	if id == "" {
		s.writeError(w, common.InputError("proceso_id no proporcionado"))
		return
	}

	handle := s.registry.Get(id)
	if handle == nil {
		s.writeError(w, common.NewAppError("NOT_FOUND", "Proceso no encontrado", common.ErrNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, handle.Snapshot())
}
