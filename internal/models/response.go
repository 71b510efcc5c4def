package models

// StartInterviewResponse is returned when a session is created.
type StartInterviewResponse struct {
	SessionID        string `json:"session_id"`
	WelcomeMessage   string `json:"welcome_message"`
	CurrentQuestion  string `json:"current_question"`
	CurrentTopic     string `json:"current_topic"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
}

// AnswerScoreView is the per-answer evaluation echoed back to the client.
type AnswerScoreView struct {
	Score      int     `json:"score"`
	Feedback   string  `json:"feedback"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// SubmitAnswerResponse is returned after a scored answer. When the answer was
// too short to score, Clarification is set instead of AnswerScore and the
// question/topic fields repeat the current state.
type SubmitAnswerResponse struct {
	NextQuestion         string           `json:"next_question"`
	CurrentTopic         string           `json:"current_topic"`
	TopicsCovered        []string         `json:"topics_covered"`
	ProgressPercent      int              `json:"progress_percent"`
	TimeRemainingMinutes int              `json:"time_remaining_minutes"`
	AnswerScore          *AnswerScoreView `json:"answer_score,omitempty"`
	Clarification        bool             `json:"clarification,omitempty"`
	Difficulty           string           `json:"difficulty"`
	AverageScore         float64          `json:"average_score"`
}

// CompleteInterviewResponse is the final report.
type CompleteInterviewResponse struct {
	DurationMinutes int         `json:"duration_minutes"`
	Scores          FinalScores `json:"scores"`
	TopicsCovered   []string    `json:"topics_covered"`
	TotalQuestions  int         `json:"total_questions"`
	Feedback        string      `json:"feedback"`
	Strengths       []string    `json:"strengths"`
	Improvements    []string    `json:"improvements"`
}

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// implements the error interface so Validate() can return it directly
func (e *ErrorResponse) Error() string {
	return e.Message
}
