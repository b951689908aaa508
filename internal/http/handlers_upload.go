package http

import (
	"log/slog"
	"net/http"
)

// maxUploadFormMemory bounds the in-memory part of multipart parsing,
// larger files spill to disk.
const maxUploadFormMemory = 32 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploads == nil {
		writeError(w, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	report := s.uploads.ProcessBatch(r.Context(), files)

	slog.InfoContext(r.Context(), "Upload batch handled",
		"files", len(files),
		"accepted", report.Accepted,
		"failed", report.Failed)

	writeJSON(w, http.StatusOK, report)
}
