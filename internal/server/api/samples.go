package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/store"
)

// Stager stages the most recent live observation as a labeled sample.
type Stager interface {
	StageSample(label gesture.Label) (*store.Sample, error)
}

// SamplesHandler handles HTTP requests for staged sample resources.
type SamplesHandler struct {
	store  *store.Store
	stager Stager
}

// NewSamplesHandler creates a new SamplesHandler. The stager may be nil
// when no live pipeline is running, in which case POST is rejected.
func NewSamplesHandler(s *store.Store, stager Stager) *SamplesHandler {
	return &SamplesHandler{store: s, stager: stager}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/samples
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.stage(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type stageSampleRequest struct {
	Gesture string `json:"gesture"`
}

type sampleResponse struct {
	ID         string  `json:"id"`
	Gesture    string  `json:"gesture"`
	Handedness string  `json:"handedness"`
	Predicted  string  `json:"predicted"`
	Confidence float64 `json:"confidence"`
	Promoted   bool    `json:"promoted"`
	CreatedAt  string  `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

func toSampleResponse(s *store.Sample) sampleResponse {
	return sampleResponse{
		ID:         s.ID,
		Gesture:    string(s.Gesture),
		Handedness: s.Hand.Handedness,
		Predicted:  string(s.Predicted),
		Confidence: s.Confidence,
		Promoted:   s.Promoted,
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/samples. With ?pending=true only samples not
// yet promoted into the corpus are returned.
func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request) {
	pendingOnly := r.URL.Query().Get("pending") == "true"

	samples, err := h.store.Samples().List(pendingOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}
	for _, s := range samples {
		response.Samples = append(response.Samples, toSampleResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// stage handles POST /api/samples: it labels the most recent live
// observation and stores it for later promotion.
func (h *SamplesHandler) stage(w http.ResponseWriter, r *http.Request) {
	if h.stager == nil {
		writeError(w, http.StatusServiceUnavailable, "No capture pipeline running")
		return
	}

	var req stageSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sample, err := h.stager.StageSample(gesture.Label(req.Gesture))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toSampleResponse(sample))
}
