package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"placementprep/interview/internal/interview"
	"placementprep/interview/internal/middleware"
	"placementprep/interview/internal/models"
	"placementprep/interview/internal/utils"
)

type InterviewHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewInterviewHandler(service *interview.Service, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger,
	}
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)
	subject := middleware.GetSubjectID(r)

	resp, err := h.service.Start(r.Context(), subject, req)
	if err != nil {
		h.writeError(w, "start", err)
		return
	}

	h.logger.Info("interview started",
		zap.String("session_id", resp.SessionID),
		zap.String("domain", req.Domain),
		zap.String("difficulty", req.Difficulty))

	utils.JSON(w, http.StatusCreated, resp)
}

func (h *InterviewHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)
	subject := middleware.GetSubjectID(r)

	resp, err := h.service.SubmitAnswer(r.Context(), subject, req)
	if err != nil {
		h.writeError(w, "submit_answer", err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CompleteInterviewRequest](r)
	subject := middleware.GetSubjectID(r)

	resp, err := h.service.Complete(r.Context(), subject, req.SessionID)
	if err != nil {
		h.writeError(w, "complete", err)
		return
	}

	h.logger.Info("interview completed",
		zap.String("session_id", req.SessionID),
		zap.Int("duration_minutes", resp.DurationMinutes))

	utils.JSON(w, http.StatusOK, resp)
}

// writeError maps the service's error kinds onto HTTP statuses. Provider
// failures deliberately hide the upstream detail; the full error is logged,
// clients only learn that generation is unavailable.
func (h *InterviewHandler) writeError(w http.ResponseWriter, op string, err error) {
	kind := models.KindOf(err)
	message := err.Error()
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch kind {
	case models.KindInvalidInput:
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_input", Message: message})
	case models.KindNotFound:
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "not_found", Message: message})
	case models.KindForbidden:
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{Code: "forbidden", Message: "You do not own this session"})
	case models.KindTimeExpired:
		utils.JSON(w, http.StatusGone, models.ErrorResponse{Code: "time_expired", Message: "The interview time limit has passed"})
	case models.KindConflict:
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{Code: "conflict", Message: "The session was modified by another request, please retry"})
	case models.KindGenerationFailed, models.KindScoringFailed:
		h.logger.Error("generation providers failed",
			zap.String("operation", op),
			zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{Code: "generation_unavailable", Message: "Question generation is temporarily unavailable, please retry"})
	default:
		h.logger.Error("unhandled service error",
			zap.String("operation", op),
			zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Internal server error"})
	}
}
