package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"placementprep/interview/internal/llm"
	"placementprep/interview/internal/prompts"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

type upProvider struct{}

func (upProvider) Generate(ctx context.Context, prompt string, hint llm.TaskHint, opts llm.Options) (*llm.Result, error) {
	return &llm.Result{Text: "ok", ProviderUsed: "stub", Model: "stub"}, nil
}

func (upProvider) GetProviderName() string { return "stub" }

func healthTestHandler(t *testing.T, store Pinger) *HealthHandler {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}
	gateway := llm.NewGateway(context.Background(), upProvider{}, upProvider{}, zap.NewNop())
	return NewHealthHandler(gateway, pm, store)
}

func TestHealthz(t *testing.T) {
	handler := healthTestHandler(t, &fakePinger{})
	rec := httptest.NewRecorder()

	handler.HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["service"] != "interview" {
		t.Fatalf("unexpected service name: %s", body["service"])
	}
}

func TestReadyz_AllUp(t *testing.T) {
	handler := healthTestHandler(t, &fakePinger{})
	rec := httptest.NewRecorder()

	handler.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ReadinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Status != "ready" {
		t.Fatalf("expected ready, got %s", resp.Status)
	}
}

func TestReadyz_MongoDown(t *testing.T) {
	handler := healthTestHandler(t, &fakePinger{err: errors.New("no reachable servers")})
	rec := httptest.NewRecorder()

	handler.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp ReadinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Checks["mongodb"].Status != "failed" {
		t.Fatalf("expected mongodb check to fail: %+v", resp.Checks)
	}
}

func TestReadyz_NoStore(t *testing.T) {
	handler := healthTestHandler(t, nil)
	rec := httptest.NewRecorder()

	handler.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
