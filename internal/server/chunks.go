package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/facbol/billing-intake/internal/common"
)

// handleChunkPage serves one page of a stored result set.
// Query: token (required), pagina (default 1), por_pagina (default preview size).
func (s *Server) handleChunkPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.writeError(w, common.InputError("Token no proporcionado"))
		return
	}

	page := queryInt(r, "pagina", 1)
	perPage := queryInt(r, "por_pagina", s.cfg.Extract.PreviewRows)

	ctx, cancel := s.chunkContext(r)
	defer cancel()
	res, err := s.reader.Read(ctx, token, page, perPage)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleChunkRaw serves one chunk file verbatim.
// Query: token (required), chunk (default 0).
func (s *Server) handleChunkRaw(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.writeError(w, common.InputError("Token no proporcionado"))
		return
	}

	index := queryInt(r, "chunk", 0)
	ctx, cancel := s.chunkContext(r)
	defer cancel()
	data, err := s.reader.RawChunk(ctx, token, index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("http.write.failed", "error", err)
	}
}

// chunkContext bounds chunk reads with the configured short timeout.
func (s *Server) chunkContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.Extract.ChunkTimeout > 0 {
		return common.WithTimeout(r.Context(), s.cfg.Extract.ChunkTimeout)
	}
	return context.WithCancel(r.Context())
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
