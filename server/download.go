package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// downloadRequest carries a summary to render as a file attachment.
type downloadRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func decodeDownload(w http.ResponseWriter, r *http.Request) (*downloadRequest, bool) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return nil, false
	}
	if req.Filename == "" {
		req.Filename = "summary"
	}
	// Strip any path and extension from the client-supplied name.
	base := filepath.Base(req.Filename)
	req.Filename = strings.TrimSuffix(base, filepath.Ext(base))
	return &req, true
}

func (s *Service) handleDownloadTxt(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDownload(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+req.Filename+`.txt"`)
	w.Write([]byte(req.Content))
}

func (s *Service) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDownload(w, r)
	if !ok {
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(req.Filename, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, req.Filename, "", "L", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	// Core PDF fonts only cover cp1252; replace anything else.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(0, 6, tr(req.Content), "", "L", false)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+req.Filename+`.pdf"`)
	if err := pdf.Output(w); err != nil {
		s.logger.Error("PDF generation failed", "error", err)
	}
}
