// Package scoring turns provider free text into bounded score records. Every
// response is treated as adversarial: fenced, padded, or malformed output is
// the normal case, not the exception.
package scoring

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"placementprep/interview/internal/llm"
	"placementprep/interview/internal/models"
	"placementprep/interview/internal/prompts"
	"placementprep/interview/internal/utils"
)

// Generator is the slice of the gateway the scorer needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, hint llm.TaskHint, opts llm.Options) (*llm.Result, error)
}

// AnswerScore is the normalized per-answer evaluation.
type AnswerScore struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Sentiment    string   `json:"sentiment"`
	Confidence   float64  `json:"confidence"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// FinalReport is the aggregate evaluation of a whole session.
type FinalReport struct {
	Scores       models.FinalScores `json:"scores"`
	Feedback     string             `json:"feedback"`
	Strengths    []string           `json:"strengths"`
	Improvements []string           `json:"improvements"`
}

type Scorer struct {
	gateway       Generator
	promptManager prompts.PromptProvider
	logger        *zap.Logger
}

func NewScorer(gateway Generator, promptManager prompts.PromptProvider, logger *zap.Logger) *Scorer {
	return &Scorer{
		gateway:       gateway,
		promptManager: promptManager,
		logger:        logger,
	}
}

// scoring runs near-greedy so repeated submissions of comparable answers get
// comparable scores
var scoringOptions = llm.Options{Temperature: 0.1, MaxTokens: 1024}

// ScoreAnswer evaluates one cleaned answer. Parse failures raise
// ScoringFailed; a fabricated default score would feed garbage into the
// difficulty controller, so there is no silent fallback here.
func (s *Scorer) ScoreAnswer(ctx context.Context, question, answer, topic, domain, difficulty string) (*AnswerScore, error) {
	prompt, err := s.promptManager.BuildPrompt(prompts.KindScoring, map[string]string{
		"Question":   question,
		"Answer":     answer,
		"Topic":      topic,
		"Domain":     domain,
		"Difficulty": difficulty,
	})
	if err != nil {
		return nil, models.NewAppError(models.KindInternal, "failed to build scoring prompt", err)
	}

	result, err := s.gateway.Generate(ctx, prompt, llm.TaskAnalytical, scoringOptions)
	if err != nil {
		return nil, models.NewAppError(models.KindGenerationFailed, "scoring generation failed", err)
	}

	var parsed AnswerScore
	if err := utils.ParseJSONObject(result.Text, &parsed); err != nil {
		s.logger.Warn("unparseable scoring response",
			zap.String("provider", result.ProviderUsed),
			zap.String("model", result.Model),
			zap.Error(err))
		return nil, models.NewAppError(models.KindScoringFailed, "provider returned unparseable scoring output", err)
	}

	normalize(&parsed)
	return &parsed, nil
}

// normalize clamps numeric fields and coerces the sentiment label; provider
// output is untrusted even when it parses.
func normalize(score *AnswerScore) {
	score.Score = utils.ClampInt(score.Score, 0, 100)
	score.Confidence = utils.ClampFloat(score.Confidence, 0.0, 1.0)
	switch strings.ToLower(strings.TrimSpace(score.Sentiment)) {
	case models.SentimentPositive:
		score.Sentiment = models.SentimentPositive
	case models.SentimentNegative:
		score.Sentiment = models.SentimentNegative
	default:
		score.Sentiment = models.SentimentNeutral
	}
}

// reportPayload mirrors the report template's JSON schema.
type reportPayload struct {
	Scores struct {
		Communication      int `json:"communication"`
		TechnicalKnowledge int `json:"technical_knowledge"`
		ProblemSolving     int `json:"problem_solving"`
		TimeManagement     int `json:"time_management"`
		Engagement         int `json:"engagement"`
		Overall            int `json:"overall"`
	} `json:"scores"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// CalculateFinalScores produces the aggregate report for a finished history.
// A gateway failure raises (the caller leaves the session in-progress and may
// retry); an unparseable report degrades to the heuristic aggregate instead,
// since at this stage the per-answer scores already exist and are trustworthy.
func (s *Scorer) CalculateFinalScores(ctx context.Context, session *models.InterviewSession, durationMinutes int) (*FinalReport, error) {
	prompt, err := s.promptManager.BuildPrompt(prompts.KindReport, map[string]string{
		"Domain":          session.Domain,
		"History":         FormatHistory(session.History),
		"DurationMinutes": strconv.Itoa(durationMinutes),
		"QuestionCount":   strconv.Itoa(len(session.History)),
	})
	if err != nil {
		return nil, models.NewAppError(models.KindInternal, "failed to build report prompt", err)
	}

	result, err := s.gateway.Generate(ctx, prompt, llm.TaskAnalytical, llm.Options{Temperature: 0.2, MaxTokens: 2048})
	if err != nil {
		return nil, models.NewAppError(models.KindGenerationFailed, "final report generation failed", err)
	}

	var parsed reportPayload
	if err := utils.ParseJSONObject(result.Text, &parsed); err != nil {
		s.logger.Warn("unparseable report response, using heuristic aggregate",
			zap.String("provider", result.ProviderUsed),
			zap.String("model", result.Model),
			zap.Error(err))
		return heuristicReport(session, durationMinutes), nil
	}

	report := &FinalReport{
		Scores: models.FinalScores{
			Communication:      utils.ClampInt(parsed.Scores.Communication, 0, 100),
			TechnicalKnowledge: utils.ClampInt(parsed.Scores.TechnicalKnowledge, 0, 100),
			ProblemSolving:     utils.ClampInt(parsed.Scores.ProblemSolving, 0, 100),
			TimeManagement:     utils.ClampInt(parsed.Scores.TimeManagement, 0, 100),
			Engagement:         utils.ClampInt(parsed.Scores.Engagement, 0, 100),
			Overall:            utils.ClampInt(parsed.Scores.Overall, 0, 100),
		},
		Feedback:     parsed.Feedback,
		Strengths:    parsed.Strengths,
		Improvements: parsed.Improvements,
	}
	return report, nil
}

// heuristicReport aggregates the recorded per-answer scores when the
// provider's report is unusable. Deterministic on purpose.
func heuristicReport(session *models.InterviewSession, durationMinutes int) *FinalReport {
	avg := int(session.AverageScore() + 0.5)

	positives := 0
	for _, rec := range session.History {
		if rec.Sentiment == models.SentimentPositive {
			positives++
		}
	}
	engagement := avg
	if n := len(session.History); n > 0 {
		engagement = utils.ClampInt((positives*100)/n/2+avg/2, 0, 100)
	}

	timeManagement := 70
	if session.TimeLimitMinutes > 0 && durationMinutes <= session.TimeLimitMinutes {
		timeManagement = 85
	}

	report := &FinalReport{
		Scores: models.FinalScores{
			Communication:      avg,
			TechnicalKnowledge: avg,
			ProblemSolving:     avg,
			TimeManagement:     timeManagement,
			Engagement:         engagement,
			Overall:            avg,
		},
		Feedback: fmt.Sprintf("Answered %d questions with an average score of %d.", len(session.History), avg),
	}
	for _, rec := range session.History {
		if rec.Score >= 80 {
			report.Strengths = append(report.Strengths, rec.Topic)
			break
		}
	}
	for _, rec := range session.History {
		if rec.Score < 50 {
			report.Improvements = append(report.Improvements, rec.Topic)
			break
		}
	}
	return report
}

// FormatHistory renders answer records for inclusion in a prompt.
func FormatHistory(history []models.AnswerRecord) string {
	if len(history) == 0 {
		return "(no answers recorded)"
	}
	var b strings.Builder
	for i, rec := range history {
		fmt.Fprintf(&b, "%d. [%s] Q: %s\n   A: %s\n   Score: %d (%s)\n",
			i+1, rec.Topic, rec.Question, rec.Answer, rec.Score, rec.Sentiment)
	}
	return strings.TrimSpace(b.String())
}
