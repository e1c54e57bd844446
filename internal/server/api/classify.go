// Package api provides the HTTP API handlers for the gesture service.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/hasta/internal/detector"
	"github.com/ayusman/hasta/internal/gesture"
)

// ClassifyHandler classifies a single posted hand snapshot.
type ClassifyHandler struct {
	classifier *gesture.Classifier
}

// NewClassifyHandler creates a new ClassifyHandler with the given classifier.
func NewClassifyHandler(c *gesture.Classifier) *ClassifyHandler {
	return &ClassifyHandler{classifier: c}
}

type classifyRequest struct {
	Landmarks  []detector.Landmark `json:"landmarks"`
	Handedness string              `json:"handedness"`
	Score      float64             `json:"score"`
}

type classifyResponse struct {
	Gesture    gesture.Label         `json:"gesture"`
	Confidence float64               `json:"confidence"`
	Fingers    []gesture.FingerState `json:"fingers"`
}

// ServeHTTP handles POST /api/classify.
func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	hand, err := detector.HandFromSlice(req.Landmarks, req.Handedness, req.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.classifier.Classify(hand)
	writeJSON(w, http.StatusOK, classifyResponse{
		Gesture:    result.Label,
		Confidence: result.Confidence,
		Fingers:    result.Fingers[:],
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
