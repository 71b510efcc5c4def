package models

import (
	"strings"
)

const (
	MinTimeLimitMinutes     = 10
	MaxTimeLimitMinutes     = 60
	DefaultTimeLimitMinutes = 40
)

type StartInterviewRequest struct {
	Domain           string `json:"domain"`
	Difficulty       string `json:"difficulty"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
}

// implements the Validator interface
func (r *StartInterviewRequest) Validate() error {
	r.Domain = strings.TrimSpace(r.Domain)
	if r.Domain == "" {
		return &ErrorResponse{
			Code:    "missing_domain",
			Message: "Domain field is required",
		}
	}

	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if r.Difficulty == "" {
		r.Difficulty = DifficultyMedium
	}
	if !ValidDifficulties[r.Difficulty] {
		return &ErrorResponse{
			Code:    "invalid_difficulty",
			Message: "Difficulty must be one of: easy, medium, hard",
		}
	}

	// Clamp rather than reject; zero means "use the default".
	if r.TimeLimitMinutes == 0 {
		r.TimeLimitMinutes = DefaultTimeLimitMinutes
	}
	if r.TimeLimitMinutes < MinTimeLimitMinutes {
		r.TimeLimitMinutes = MinTimeLimitMinutes
	}
	if r.TimeLimitMinutes > MaxTimeLimitMinutes {
		r.TimeLimitMinutes = MaxTimeLimitMinutes
	}

	return nil
}

type SubmitAnswerRequest struct {
	SessionID           string `json:"session_id"`
	Answer              string `json:"answer"`
	ResponseTimeSeconds int    `json:"response_time_seconds"`
}

// implements the Validator interface
func (r *SubmitAnswerRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return &ErrorResponse{
			Code:    "missing_session_id",
			Message: "Session ID field is required",
		}
	}
	if r.Answer == "" {
		return &ErrorResponse{
			Code:    "missing_answer",
			Message: "Answer field is required",
		}
	}
	if r.ResponseTimeSeconds < 0 {
		r.ResponseTimeSeconds = 0
	}
	return nil
}

type CompleteInterviewRequest struct {
	SessionID string `json:"session_id"`
}

// implements the Validator interface
func (r *CompleteInterviewRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return &ErrorResponse{
			Code:    "missing_session_id",
			Message: "Session ID field is required",
		}
	}
	return nil
}
