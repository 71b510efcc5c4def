package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"placementprep/interview/internal/llm"
	"placementprep/interview/internal/models"
	"placementprep/interview/internal/prompts"
)

type fakeGateway struct {
	text string
	err  error
	last string
}

func (f *fakeGateway) Generate(ctx context.Context, prompt string, hint llm.TaskHint, opts llm.Options) (*llm.Result, error) {
	f.last = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Result{Text: f.text, ProviderUsed: "fake", Model: "fake-model"}, nil
}

func newTestScorer(t *testing.T, gw *fakeGateway) *Scorer {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}
	return NewScorer(gw, pm, zap.NewNop())
}

func TestScoreAnswer_ParsesAndClamps(t *testing.T) {
	gw := &fakeGateway{text: "```json\n{\"score\": 130, \"feedback\": \"solid\", \"sentiment\": \"POSITIVE\", \"confidence\": 1.4, \"strengths\": [\"depth\"], \"improvements\": []}\n```"}
	scorer := newTestScorer(t, gw)

	score, err := scorer.ScoreAnswer(context.Background(), "Q", "A", "technical", "Web Development", "medium")
	if err != nil {
		t.Fatalf("ScoreAnswer returned error: %v", err)
	}
	if score.Score != 100 {
		t.Fatalf("expected score clamped to 100, got %d", score.Score)
	}
	if score.Confidence != 1.0 {
		t.Fatalf("expected confidence clamped to 1.0, got %f", score.Confidence)
	}
	if score.Sentiment != models.SentimentPositive {
		t.Fatalf("expected normalized positive sentiment, got %s", score.Sentiment)
	}
	if !strings.Contains(gw.last, "Web Development") {
		t.Fatal("scoring prompt did not include the domain")
	}
}

func TestScoreAnswer_UnknownSentimentDefaultsNeutral(t *testing.T) {
	gw := &fakeGateway{text: `{"score": 50, "feedback": "ok", "sentiment": "ecstatic", "confidence": 0.5}`}
	scorer := newTestScorer(t, gw)

	score, err := scorer.ScoreAnswer(context.Background(), "Q", "A", "technical", "d", "easy")
	if err != nil {
		t.Fatalf("ScoreAnswer returned error: %v", err)
	}
	if score.Sentiment != models.SentimentNeutral {
		t.Fatalf("expected neutral sentiment, got %s", score.Sentiment)
	}
}

func TestScoreAnswer_UnparseableRaisesScoringFailed(t *testing.T) {
	gw := &fakeGateway{text: "I would give this answer a seven out of ten."}
	scorer := newTestScorer(t, gw)

	_, err := scorer.ScoreAnswer(context.Background(), "Q", "A", "technical", "d", "easy")
	if err == nil {
		t.Fatal("expected error for unparseable response")
	}
	if !models.IsKind(err, models.KindScoringFailed) {
		t.Fatalf("expected ScoringFailed, got kind %s", models.KindOf(err))
	}
}

func TestScoreAnswer_GatewayErrorRaisesGenerationFailed(t *testing.T) {
	gw := &fakeGateway{err: errors.New("everything is down")}
	scorer := newTestScorer(t, gw)

	_, err := scorer.ScoreAnswer(context.Background(), "Q", "A", "technical", "d", "easy")
	if !models.IsKind(err, models.KindGenerationFailed) {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
}

func testSession() *models.InterviewSession {
	return &models.InterviewSession{
		ID:               "s1",
		Domain:           "Web Development",
		TimeLimitMinutes: 40,
		StartedAt:        time.Now().Add(-20 * time.Minute),
		History: []models.AnswerRecord{
			{Question: "Q1", Answer: "A1", Topic: "introduction", Score: 80, Sentiment: models.SentimentPositive},
			{Question: "Q2", Answer: "A2", Topic: "technical", Score: 60, Sentiment: models.SentimentNeutral},
		},
	}
}

func TestCalculateFinalScores_ParsesReport(t *testing.T) {
	gw := &fakeGateway{text: `{"scores": {"communication": 70, "technical_knowledge": 65, "problem_solving": 72, "time_management": 80, "engagement": 68, "overall": 70}, "feedback": "decent", "strengths": ["clarity"], "improvements": ["depth"]}`}
	scorer := newTestScorer(t, gw)

	report, err := scorer.CalculateFinalScores(context.Background(), testSession(), 20)
	if err != nil {
		t.Fatalf("CalculateFinalScores returned error: %v", err)
	}
	if report.Scores.Overall != 70 {
		t.Fatalf("expected overall 70, got %d", report.Scores.Overall)
	}
	if len(report.Strengths) != 1 || report.Strengths[0] != "clarity" {
		t.Fatalf("unexpected strengths: %v", report.Strengths)
	}
}

func TestCalculateFinalScores_UnparseableFallsBackToHeuristic(t *testing.T) {
	gw := &fakeGateway{text: "the candidate did fine overall"}
	scorer := newTestScorer(t, gw)

	report, err := scorer.CalculateFinalScores(context.Background(), testSession(), 20)
	if err != nil {
		t.Fatalf("expected heuristic fallback, got error: %v", err)
	}
	if report.Scores.Overall != 70 {
		t.Fatalf("expected heuristic overall 70 (mean of 80 and 60), got %d", report.Scores.Overall)
	}
	if report.Scores.TimeManagement != 85 {
		t.Fatalf("expected time management 85 for an on-time session, got %d", report.Scores.TimeManagement)
	}
}

func TestCalculateFinalScores_GatewayErrorRaises(t *testing.T) {
	gw := &fakeGateway{err: errors.New("exhausted")}
	scorer := newTestScorer(t, gw)

	_, err := scorer.CalculateFinalScores(context.Background(), testSession(), 20)
	if !models.IsKind(err, models.KindGenerationFailed) {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
}

func TestFormatHistory(t *testing.T) {
	formatted := FormatHistory(testSession().History)
	if !strings.Contains(formatted, "Q1") || !strings.Contains(formatted, "Score: 60") {
		t.Fatalf("history formatting incomplete: %s", formatted)
	}
	if FormatHistory(nil) == "" {
		t.Fatal("empty history should render a placeholder")
	}
}
