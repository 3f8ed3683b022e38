package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/facbol/billing-intake/constants"
	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/entity"
	"github.com/facbol/billing-intake/internal/extract"
	"github.com/facbol/billing-intake/internal/pipeline"
)

// handleExtract receives a multipart upload and runs the extraction
// pipeline synchronously. Fields: archivo (file), tipo_modulo, and the
// optional fecha_desde / fecha_hasta bounds in ISO form.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Extract.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, common.InputError("No se pudo leer el archivo enviado"))
		return
	}

	docType, err := entity.ParseDocumentType(r.FormValue("tipo_modulo"))
	if err != nil {
		s.writeError(w, common.InputErrorf("tipo de módulo no soportado: %s", r.FormValue("tipo_modulo")))
		return
	}

	dates, err := parseDateRange(r.FormValue("fecha_desde"), r.FormValue("fecha_hasta"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	file, header, err := r.FormFile("archivo")
	if err != nil {
		s.writeError(w, common.InputError("No se proporcionó ningún archivo"))
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if !constants.AllowedExt(ext) {
		s.writeError(w, common.InputErrorf("Formato de archivo no soportado: %s", ext))
		return
	}

	s.logger.Info("extract.request",
		"request_id", common.RequestIDFromContext(r.Context()),
		"tipo_modulo", docType,
		"archivo", header.Filename,
	)

	path, err := s.saveUpload(file, ext)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer os.Remove(path)

	src, err := extract.OpenFile(path, s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer src.Close()

	ctx, cancel := common.WithTimeout(r.Context(), s.cfg.Extract.Timeout)
	defer cancel()

	handle := s.registry.Start(100, "Iniciando extracción")
	res, err := s.processor.Process(ctx, src, pipeline.Request{
		Type:     docType,
		Dates:    dates,
		Progress: handle,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// saveUpload spools the uploaded stream to the uploads directory so the
// workbook reader can seek it.
func (s *Server) saveUpload(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.cfg.Cache.UploadsDir, 0o755); err != nil {
		return "", common.WrapError(err, "create uploads dir")
	}
	path := filepath.Join(s.cfg.Cache.UploadsDir, fmt.Sprintf("%s.%s", uuid.NewString(), ext))
	dst, err := os.Create(path)
	if err != nil {
		return "", common.WrapError(err, "create upload file")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", common.WrapError(err, "write upload file")
	}
	return path, nil
}

// parseDateRange validates the optional ISO bounds.
func parseDateRange(from, to string) (pipeline.DateRange, error) {
	for _, v := range []string{from, to} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return pipeline.DateRange{}, common.InputErrorf("Fecha inválida: %s", v)
		}
	}
	return pipeline.DateRange{From: from, To: to}, nil
}
