package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestHealthEndpointReturnsOK(t *testing.T) {
	startedAt := time.Now().Add(-time.Minute)

	r := chi.NewRouter()
	r.Get("/health", healthHandler(startedAt))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Status    string `json:"status"`
			Timestamp string `json:"timestamp"`
			Uptime    string `json:"uptime"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.Status != "ok" {
		t.Fatalf("expected status ok, got %q", envelope.Data.Status)
	}
	if envelope.Data.Timestamp == "" {
		t.Fatal("expected a non-empty timestamp")
	}
	if envelope.Data.Uptime == "" {
		t.Fatal("expected a non-empty uptime")
	}
}

