package handlers

import (
	"context"
	"net/http"
	"time"

	"placementprep/interview/internal/llm"
	"placementprep/interview/internal/prompts"
	"placementprep/interview/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

// Pinger is the slice of the Mongo client readiness needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	gateway       *llm.Gateway
	promptManager prompts.PromptProvider
	store         Pinger
}

func NewHealthHandler(gateway *llm.Gateway, promptManager prompts.PromptProvider, store Pinger) *HealthHandler {
	return &HealthHandler{
		gateway:       gateway,
		promptManager: promptManager,
		store:         store,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.gateway == nil {
		checks["gateway"] = ReadinessCheck{
			Status:  "failed",
			Message: "generation gateway not initialized",
		}
		allChecksPass = false
	} else if !handler.gateway.HasFallback() {
		// Degraded but serving: the primary alone can still answer.
		checks["gateway"] = ReadinessCheck{
			Status:  "ok",
			Message: "fallback provider unavailable",
		}
	} else {
		checks["gateway"] = ReadinessCheck{Status: "ok"}
	}

	if handler.promptManager == nil || len(handler.promptManager.Kinds()) == 0 {
		checks["prompts"] = ReadinessCheck{
			Status:  "failed",
			Message: "prompt templates not loaded",
		}
		allChecksPass = false
	} else {
		checks["prompts"] = ReadinessCheck{Status: "ok"}
	}

	if handler.store == nil {
		checks["mongodb"] = ReadinessCheck{
			Status:  "failed",
			Message: "session store not initialized",
		}
		allChecksPass = false
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
		defer cancel()
		if err := handler.store.Ping(ctx); err != nil {
			checks["mongodb"] = ReadinessCheck{
				Status:  "failed",
				Message: err.Error(),
			}
			allChecksPass = false
		} else {
			checks["mongodb"] = ReadinessCheck{Status: "ok"}
		}
	}

	response := ReadinessResponse{
		Status:  "ready",
		Service: "interview",
		Checks:  checks,
	}
	status := http.StatusOK
	if !allChecksPass {
		response.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}

	utils.JSON(writer, status, response)
}
