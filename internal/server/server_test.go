package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/hasta/internal/detector"
	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/history"
	"github.com/ayusman/hasta/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(Config{
		Store:      s,
		History:    history.NewStore(filepath.Join(tmpDir, "eval_history.json")),
		Classifier: gesture.New(gesture.DefaultConfig()),
	})
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestServer_Health_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServer_Classify(t *testing.T) {
	srv := newTestServer(t)

	hand := detector.OpenPalmHand()
	payload, err := json.Marshal(map[string]any{
		"landmarks":  hand.Points[:],
		"handedness": hand.Handedness,
		"score":      hand.Score,
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Gesture    string  `json:"gesture"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Gesture != "OPEN_PALM" {
		t.Errorf("gesture = %s, want OPEN_PALM", body.Gesture)
	}
	if body.Confidence < 0.9 {
		t.Errorf("confidence = %f, want >= 0.9", body.Confidence)
	}
}

func TestServer_Classify_BadLandmarkCount(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"landmarks":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Right"}`
	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a 1-landmark hand", rec.Code)
	}
}

func TestServer_Samples_ListEmpty(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/samples", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Samples []any `json:"samples"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Samples) != 0 {
		t.Errorf("got %d samples, want 0", len(body.Samples))
	}
}

func TestServer_Samples_StageWithoutPipeline(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/samples", strings.NewReader(`{"gesture":"FIST"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when no pipeline is running", rec.Code)
	}
}

func TestServer_History(t *testing.T) {
	tmpDir := t.TempDir()
	hist := history.NewStore(filepath.Join(tmpDir, "eval_history.json"))

	if err := hist.Append(history.Record{Revision: "rev-a", OverallAccuracy: 0.9}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := hist.Append(history.Record{Revision: "rev-b", OverallAccuracy: 0.95}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	srv := New(Config{History: hist})

	req := httptest.NewRequest(http.MethodGet, "/api/history?n=1", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Records []history.Record `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Records) != 1 || body.Records[0].Revision != "rev-b" {
		t.Errorf("got %+v, want only rev-b", body.Records)
	}
}

func TestServer_History_UnknownRevision(t *testing.T) {
	tmpDir := t.TempDir()
	srv := New(Config{History: history.NewStore(filepath.Join(tmpDir, "eval_history.json"))})

	req := httptest.NewRequest(http.MethodGet, "/api/history?revision=nope", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServer_NoRoutesWithoutConfig(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/classify", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no classifier is configured", rec.Code)
	}
}
