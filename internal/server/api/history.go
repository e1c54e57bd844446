package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/hasta/internal/history"
)

// HistoryHandler serves persisted evaluation records.
type HistoryHandler struct {
	history *history.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(h *history.Store) *HistoryHandler {
	return &HistoryHandler{history: h}
}

type listHistoryResponse struct {
	Records []history.Record `json:"records"`
}

// ServeHTTP handles GET /api/history. Query parameters: n limits the
// result to the N most recent records, revision looks up a single one.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if revision := r.URL.Query().Get("revision"); revision != "" {
		records, err := h.history.ByRevision(revision)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load history")
			return
		}
		if len(records) == 0 {
			writeError(w, http.StatusNotFound, "No record for revision")
			return
		}
		writeJSON(w, http.StatusOK, listHistoryResponse{Records: records})
		return
	}

	var (
		records []history.Record
		err     error
	)
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		n, convErr := strconv.Atoi(nStr)
		if convErr != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid n")
			return
		}
		records, err = h.history.Recent(n)
	} else {
		records, err = h.history.Load()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, listHistoryResponse{Records: records})
}
