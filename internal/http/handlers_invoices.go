package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"factures/internal/storage"
)

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.reports.AllInvoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list invoices", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

func (s *Server) handleListNoVAT(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.reports.NoVATInvoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list no-VAT invoices", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	var body struct {
		IsPaid *bool `json:"is_paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.IsPaid == nil {
		writeError(w, http.StatusBadRequest, "is_paid is required")
		return
	}

	if err := s.store.SetInvoicePaid(r.Context(), id, *body.IsPaid); err != nil {
		if errors.Is(err, storage.ErrInvoiceNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update invoice", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update invoice")
		return
	}

	inv, err := s.store.GetInvoice(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to reload invoice", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load invoice")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"invoice": inv})
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	if err := s.store.DeleteInvoice(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrInvoiceNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete invoice", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete invoice")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
