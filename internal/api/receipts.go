package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/receipt"
)

// maxReceiptBytes caps receipt uploads at 20 MB.
const maxReceiptBytes = 20 << 20

// handleProcessReceipt handles POST /receipts/process. Expects a
// multipart form with one "receipt" file (pdf/png/jpg/jpeg) and responds
// with the extracted candidates.
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "missing receipt file")
		return
	}
	defer file.Close()

	candidates, err := s.receipts.Process(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, receipt.ErrUnsupportedFormat) {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
			return
		}
		slog.Error("Receipt processing failed", "file", header.Filename, "error", err)
		writeJSONError(w, http.StatusBadGateway, "extraction_failed", "receipt could not be processed")
		return
	}

	if candidates == nil {
		candidates = []models.ReceiptCandidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}
