package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paperdigest/batch"
)

// summarizeResponse is the payload for POST /api/summarize. BatchID is set
// only when the history store accepted the result.
type summarizeResponse struct {
	BatchID string `json:"batch_id,omitempty"`
	*batch.Result
}

// handleSummarize accepts a multipart form with a repeated "files" field and
// optional "length" and "instructions" fields. Per-document problems come
// back inside the result; only an empty file list fails the request.
func (s *Service) handleSummarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	var uploads []batch.Upload
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "open uploaded file: "+err.Error())
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "read uploaded file: "+err.Error())
			return
		}
		uploads = append(uploads, batch.Upload{Filename: fh.Filename, Data: data})
	}

	opts := batch.Options{
		Length:       r.FormValue("length"),
		Instructions: r.FormValue("instructions"),
	}
	if opts.Length == "" {
		opts.Length = "medium"
	}

	res, err := s.orch.Process(r.Context(), uploads, opts)
	if err != nil {
		if errors.Is(err, batch.ErrNoFiles) {
			writeError(w, http.StatusBadRequest, "No files uploaded")
			return
		}
		s.logger.Error("Batch processing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	resp := summarizeResponse{Result: res}
	if s.store != nil {
		id, err := s.store.Save(r.Context(), opts, res)
		if err != nil {
			// History is best-effort; the summaries still go back.
			s.logger.Warn("Failed to save batch", "error", err)
		} else {
			resp.BatchID = id
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleListBatches(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history not enabled")
		return
	}
	batches, err := s.store.List(r.Context(), 50)
	if err != nil {
		s.logger.Error("List batches failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

func (s *Service) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	b, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("Get batch failed", "batch_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}
