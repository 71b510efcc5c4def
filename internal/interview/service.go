// Package interview owns the session lifecycle: start -> (answer -> score ->
// adapt -> ask)* -> complete. It orchestrates the gateway, scorer, and
// difficulty controller around a load -> transform -> save cycle against the
// session repository.
package interview

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placementprep/interview/internal/difficulty"
	"placementprep/interview/internal/llm"
	"placementprep/interview/internal/locks"
	"placementprep/interview/internal/metrics"
	"placementprep/interview/internal/models"
	"placementprep/interview/internal/prompts"
	"placementprep/interview/internal/repositories"
	"placementprep/interview/internal/scoring"
	"placementprep/interview/internal/utils"
)

// Answers shorter than this before cleaning get a clarification question
// instead of a score; the candidate is assumed to have stopped mid-thought,
// not to have failed.
const shortAnswerThreshold = 20

// AnswerScorer is the slice of the scorer the service depends on.
type AnswerScorer interface {
	ScoreAnswer(ctx context.Context, question, answer, topic, domain, difficulty string) (*scoring.AnswerScore, error)
	CalculateFinalScores(ctx context.Context, session *models.InterviewSession, durationMinutes int) (*scoring.FinalReport, error)
}

// Locker serializes requests per session. Optional; the repository's version
// guard is the hard backstop.
type Locker interface {
	Acquire(ctx context.Context, sessionID string) (func(), error)
}

type Service struct {
	repo          repositories.SessionRepository
	gateway       scoring.Generator
	scorer        AnswerScorer
	promptManager prompts.PromptProvider
	locker        Locker
	logger        *zap.Logger
	now           func() time.Time
}

func NewService(
	repo repositories.SessionRepository,
	gateway scoring.Generator,
	scorer AnswerScorer,
	promptManager prompts.PromptProvider,
	locker Locker,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:          repo,
		gateway:       gateway,
		scorer:        scorer,
		promptManager: promptManager,
		locker:        locker,
		logger:        logger,
		now:           time.Now,
	}
}

// questionPayload is the JSON shape shared by the opening, clarification, and
// follow-up templates.
type questionPayload struct {
	WelcomeMessage string `json:"welcome_message"`
	Question       string `json:"question"`
}

// Start creates a session and asks for the opening question. There is no
// offline fallback here: if both providers are down the interview cannot
// begin.
func (s *Service) Start(ctx context.Context, subjectID string, req *models.StartInterviewRequest) (*models.StartInterviewResponse, error) {
	if strings.TrimSpace(req.Domain) == "" {
		return nil, models.NewAppError(models.KindInvalidInput, "domain is required", nil)
	}

	prompt, err := s.promptManager.BuildPrompt(prompts.KindOpening, map[string]string{
		"Domain":     req.Domain,
		"Difficulty": req.Difficulty,
	})
	if err != nil {
		return nil, models.NewAppError(models.KindInternal, "failed to build opening prompt", err)
	}

	result, err := s.gateway.Generate(ctx, prompt, llm.TaskCreative, llm.Options{MaxTokens: 1024})
	if err != nil {
		return nil, models.NewAppError(models.KindGenerationFailed, "could not generate opening question", err)
	}

	var payload questionPayload
	if parseErr := utils.ParseJSONObject(result.Text, &payload); parseErr != nil || payload.Question == "" {
		// Opening output that is not JSON is still usable as a question.
		payload.Question = utils.StripFences(result.Text)
		payload.WelcomeMessage = "Welcome to your mock interview for " + req.Domain + ". Let's begin."
	}

	session := newSession(uuid.New().String(), subjectID, req.Domain, req.Difficulty, req.TimeLimitMinutes, payload.Question, s.now())
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, models.NewAppError(models.KindInternal, "failed to create session", err)
	}

	s.logger.Info("interview session started",
		zap.String("session_id", session.ID),
		zap.String("domain", session.Domain),
		zap.String("difficulty", session.InitialDifficulty),
		zap.String("provider", result.ProviderUsed))

	return &models.StartInterviewResponse{
		SessionID:        session.ID,
		WelcomeMessage:   payload.WelcomeMessage,
		CurrentQuestion:  session.CurrentQuestion,
		CurrentTopic:     session.CurrentTopic,
		TimeLimitMinutes: session.TimeLimitMinutes,
	}, nil
}

// SubmitAnswer runs one answer->score->adapt->ask cycle. Scoring or
// generation failures abort the call with the stored session untouched, so
// the client can retry the exact same request.
func (s *Service) SubmitAnswer(ctx context.Context, subjectID string, req *models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, req.SessionID)
		if err != nil {
			if errors.Is(err, locks.ErrAlreadyLocked) {
				return nil, models.NewAppError(models.KindConflict, "another submission for this session is in flight", err)
			}
			return nil, models.NewAppError(models.KindInternal, "failed to acquire session lock", err)
		}
		defer release()
	}

	session, err := s.loadOwned(ctx, req.SessionID, subjectID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// Time check first. This is the one place a failing request commits a
	// state change: the limit breach is a fact regardless of this request.
	if elapsedMinutes(session.StartedAt, now) >= session.TimeLimitMinutes {
		expired := withExpiry(session, now)
		if saveErr := s.repo.Update(ctx, expired); saveErr != nil {
			s.logger.Error("failed to persist session expiry",
				zap.String("session_id", session.ID), zap.Error(saveErr))
		} else {
			metrics.SessionExpired()
		}
		return nil, models.NewAppError(models.KindTimeExpired, "interview time limit reached", nil)
	}

	cleaned, _ := utils.CleanAnswer(req.Answer)
	if utils.IsNoiseAnswer(req.Answer) || len(cleaned) < 3 {
		return nil, models.NewAppError(models.KindInvalidInput, "answer is too short or contains no content", nil)
	}

	// Very short raw input: ask for clarification instead of scoring. No
	// history append, no difficulty change.
	if len(strings.TrimSpace(req.Answer)) < shortAnswerThreshold {
		return s.clarify(ctx, session, cleaned, now)
	}

	score, err := s.scorer.ScoreAnswer(ctx, session.CurrentQuestion, cleaned, session.CurrentTopic, session.Domain, session.CurrentDifficulty)
	if err != nil {
		return nil, err
	}

	record := models.AnswerRecord{
		Question:            session.CurrentQuestion,
		Answer:              cleaned,
		Topic:               session.CurrentTopic,
		Score:               score.Score,
		Feedback:            score.Feedback,
		Sentiment:           score.Sentiment,
		Confidence:          score.Confidence,
		ResponseTimeSeconds: req.ResponseTimeSeconds,
		Timestamp:           now,
	}

	scored := withAnswerScored(session, record, difficulty.Next(session.CurrentDifficulty, appendScore(session.RecentScores(difficulty.WindowSize), score.Score)))

	// Persist the advanced difficulty before asking for the next question; a
	// crash between the two writes leaves the session consistent, just
	// missing its next question text.
	if err := s.repo.Update(ctx, scored); err != nil {
		return nil, saveError(err)
	}

	nextTopic := s.analyzeTopic(ctx, session.CurrentQuestion, cleaned, session.CurrentTopic)

	question, err := s.generateFollowup(ctx, scored, nextTopic)
	if err != nil {
		// The client will retry the whole submit, so put the session back
		// exactly as it was before this call.
		restored := session.Clone()
		restored.Version = scored.Version
		if restoreErr := s.repo.Update(ctx, restored); restoreErr != nil {
			s.logger.Error("failed to roll back session after follow-up failure",
				zap.String("session_id", session.ID), zap.Error(restoreErr))
		}
		return nil, err
	}

	final := withNextQuestion(scored, question, nextTopic)
	final.Version = scored.Version
	if err := s.repo.Update(ctx, final); err != nil {
		return nil, saveError(err)
	}

	s.logger.Info("answer scored",
		zap.String("session_id", session.ID),
		zap.Int("score", score.Score),
		zap.String("difficulty", final.CurrentDifficulty),
		zap.String("topic", nextTopic))

	return &models.SubmitAnswerResponse{
		NextQuestion:         final.CurrentQuestion,
		CurrentTopic:         final.CurrentTopic,
		TopicsCovered:        final.TopicsCovered,
		ProgressPercent:      progressPercent(final, now),
		TimeRemainingMinutes: timeRemainingMinutes(final, now),
		AnswerScore: &models.AnswerScoreView{
			Score:      score.Score,
			Feedback:   score.Feedback,
			Sentiment:  score.Sentiment,
			Confidence: score.Confidence,
		},
		Difficulty:   final.CurrentDifficulty,
		AverageScore: final.AverageScore(),
	}, nil
}

// Complete seals the session. The status flip commits only after the report
// succeeds, so a failed completion is retryable.
func (s *Service) Complete(ctx context.Context, subjectID, sessionID string) (*models.CompleteInterviewResponse, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, sessionID)
		if err != nil {
			if errors.Is(err, locks.ErrAlreadyLocked) {
				return nil, models.NewAppError(models.KindConflict, "another request for this session is in flight", err)
			}
			return nil, models.NewAppError(models.KindInternal, "failed to acquire session lock", err)
		}
		defer release()
	}

	session, err := s.loadOwned(ctx, sessionID, subjectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	duration := elapsedMinutes(session.StartedAt, now)

	report, err := s.scorer.CalculateFinalScores(ctx, session, duration)
	if err != nil {
		return nil, err
	}

	completed := withCompletion(session, report, duration, now)
	if err := s.repo.Update(ctx, completed); err != nil {
		return nil, saveError(err)
	}

	s.logger.Info("interview session completed",
		zap.String("session_id", session.ID),
		zap.Int("duration_minutes", duration),
		zap.Int("questions", len(session.History)),
		zap.Int("overall_score", report.Scores.Overall))

	return &models.CompleteInterviewResponse{
		DurationMinutes: duration,
		Scores:          report.Scores,
		TopicsCovered:   completed.TopicsCovered,
		TotalQuestions:  len(completed.History),
		Feedback:        report.Feedback,
		Strengths:       report.Strengths,
		Improvements:    report.Improvements,
	}, nil
}

// ExpireOverdue force-completes every in-progress session whose time limit
// has lapsed. The sweeper calls this on a schedule so abandoned sessions do
// not stay open forever. Version conflicts are skipped, not retried: a
// conflicting writer either just expired the session itself or is about to
// hit the time check in SubmitAnswer.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()
	overdue, err := s.repo.FindExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range overdue {
		session := overdue[i]
		if err := s.repo.Update(ctx, withExpiry(&session, now)); err != nil {
			if errors.Is(err, repositories.ErrVersionConflict) {
				continue
			}
			s.logger.Error("failed to expire session",
				zap.String("session_id", session.ID), zap.Error(err))
			continue
		}
		metrics.SessionExpired()
		expired++
	}

	if expired > 0 {
		s.logger.Info("expired overdue sessions", zap.Int("count", expired))
	}
	return expired, nil
}

// loadOwned loads an in-progress session belonging to the subject.
func (s *Service) loadOwned(ctx context.Context, sessionID, subjectID string) (*models.InterviewSession, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewAppError(models.KindNotFound, "session not found", err)
	}
	if err != nil {
		return nil, models.NewAppError(models.KindInternal, "failed to load session", err)
	}
	if session.SubjectID != subjectID {
		return nil, models.NewAppError(models.KindForbidden, "session belongs to a different subject", nil)
	}
	if session.Status != models.StatusInProgress {
		return nil, models.NewAppError(models.KindNotFound, "session is not in progress", nil)
	}
	return session, nil
}

// clarify asks a brief follow-through question without scoring. Nothing is
// persisted; the candidate keeps answering the same question.
func (s *Service) clarify(ctx context.Context, session *models.InterviewSession, answer string, now time.Time) (*models.SubmitAnswerResponse, error) {
	prompt, err := s.promptManager.BuildPrompt(prompts.KindClarification, map[string]string{
		"Question": session.CurrentQuestion,
		"Answer":   answer,
	})
	if err != nil {
		return nil, models.NewAppError(models.KindInternal, "failed to build clarification prompt", err)
	}

	result, err := s.gateway.Generate(ctx, prompt, llm.TaskGeneral, llm.Options{MaxTokens: 256})
	if err != nil {
		return nil, models.NewAppError(models.KindGenerationFailed, "could not generate clarification", err)
	}

	var payload questionPayload
	if parseErr := utils.ParseJSONObject(result.Text, &payload); parseErr != nil || payload.Question == "" {
		payload.Question = utils.StripFences(result.Text)
	}

	return &models.SubmitAnswerResponse{
		NextQuestion:         payload.Question,
		CurrentTopic:         session.CurrentTopic,
		TopicsCovered:        session.TopicsCovered,
		ProgressPercent:      progressPercent(session, now),
		TimeRemainingMinutes: timeRemainingMinutes(session, now),
		Clarification:        true,
		Difficulty:           session.CurrentDifficulty,
		AverageScore:         session.AverageScore(),
	}, nil
}

// analyzeTopic asks the provider to pick the next subject area. Any failure
// keeps the current topic; this path never raises.
func (s *Service) analyzeTopic(ctx context.Context, question, answer, currentTopic string) string {
	prompt, err := s.promptManager.BuildPrompt(prompts.KindTopic, map[string]string{
		"Question":     question,
		"Answer":       answer,
		"CurrentTopic": currentTopic,
	})
	if err != nil {
		return currentTopic
	}

	result, err := s.gateway.Generate(ctx, prompt, llm.TaskAnalytical, llm.Options{Temperature: 0.1, MaxTokens: 128})
	if err != nil {
		s.logger.Warn("topic analysis failed, keeping current topic", zap.Error(err))
		return currentTopic
	}

	var payload struct {
		NextTopic string `json:"next_topic"`
	}
	if err := utils.ParseJSONObject(result.Text, &payload); err != nil {
		return currentTopic
	}
	return resolveTopic(strings.ToLower(strings.TrimSpace(payload.NextTopic)), currentTopic)
}

// generateFollowup asks for the next question at the session's advanced
// difficulty.
func (s *Service) generateFollowup(ctx context.Context, session *models.InterviewSession, topic string) (string, error) {
	lastScore := 0
	if len(session.History) > 0 {
		lastScore = session.History[len(session.History)-1].Score
	}

	prompt, err := s.promptManager.BuildPrompt(prompts.KindFollowup, map[string]string{
		"Domain":     session.Domain,
		"Difficulty": session.CurrentDifficulty,
		"Topic":      topic,
		"History":    recentExchanges(session.History, 3),
		"LastScore":  strconv.Itoa(lastScore),
	})
	if err != nil {
		return "", models.NewAppError(models.KindInternal, "failed to build follow-up prompt", err)
	}

	result, err := s.gateway.Generate(ctx, prompt, llm.TaskCreative, llm.Options{MaxTokens: 512})
	if err != nil {
		return "", models.NewAppError(models.KindGenerationFailed, "could not generate next question", err)
	}

	var payload questionPayload
	if parseErr := utils.ParseJSONObject(result.Text, &payload); parseErr != nil || payload.Question == "" {
		payload.Question = utils.StripFences(result.Text)
	}
	return payload.Question, nil
}

// recentExchanges renders the last n Q/A pairs for the follow-up prompt.
func recentExchanges(history []models.AnswerRecord, n int) string {
	start := 0
	if len(history) > n {
		start = len(history) - n
	}
	window := history[start:]
	if len(window) == 0 {
		return "(first question of the session)"
	}
	return scoring.FormatHistory(window)
}

func appendScore(scores []int, score int) []int {
	return append(scores, score)
}

func saveError(err error) error {
	if errors.Is(err, repositories.ErrVersionConflict) {
		return models.NewAppError(models.KindConflict, "session was modified by another request", err)
	}
	return models.NewAppError(models.KindInternal, "failed to save session", err)
}
