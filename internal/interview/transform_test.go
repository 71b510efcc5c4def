package interview

import (
	"testing"
	"time"

	"placementprep/interview/internal/models"
	"placementprep/interview/internal/scoring"
)

func baseSession() *models.InterviewSession {
	return newSession("s1", "u1", "Web Development", models.DifficultyMedium, 40, "Q1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestNewSession(t *testing.T) {
	s := baseSession()
	if s.Status != models.StatusInProgress {
		t.Fatalf("expected in-progress, got %s", s.Status)
	}
	if s.CurrentTopic != "introduction" || len(s.TopicsCovered) != 1 || s.TopicsCovered[0] != "introduction" {
		t.Fatalf("unexpected topic state: %s %v", s.CurrentTopic, s.TopicsCovered)
	}
	if len(s.History) != 0 {
		t.Fatal("history must start empty")
	}
}

func TestWithAnswerScored_DoesNotMutateInput(t *testing.T) {
	s := baseSession()
	next := withAnswerScored(s, models.AnswerRecord{Question: "Q1", Answer: "a", Score: 90}, models.DifficultyHard)

	if len(s.History) != 0 || s.CurrentDifficulty != models.DifficultyMedium {
		t.Fatal("input session was mutated")
	}
	if len(next.History) != 1 || next.CurrentDifficulty != models.DifficultyHard {
		t.Fatalf("unexpected next state: %d entries, %s", len(next.History), next.CurrentDifficulty)
	}
}

func TestWithNextQuestion_TopicDeduped(t *testing.T) {
	s := baseSession()
	s = withNextQuestion(s, "Q2", "technical")
	s = withNextQuestion(s, "Q3", "technical")
	s = withNextQuestion(s, "Q4", "behavioral")

	want := []string{"introduction", "technical", "behavioral"}
	if len(s.TopicsCovered) != len(want) {
		t.Fatalf("unexpected topicsCovered: %v", s.TopicsCovered)
	}
	for i, topic := range want {
		if s.TopicsCovered[i] != topic {
			t.Fatalf("topicsCovered[%d] = %s, want %s", i, s.TopicsCovered[i], topic)
		}
	}
	if s.CurrentQuestion != "Q4" || s.CurrentTopic != "behavioral" {
		t.Fatalf("unexpected current: %s / %s", s.CurrentQuestion, s.CurrentTopic)
	}
}

func TestWithCompletion_SealsAtomically(t *testing.T) {
	s := baseSession()
	done := time.Date(2026, 3, 1, 10, 35, 0, 0, time.UTC)
	next := withCompletion(s, &scoring.FinalReport{
		Scores:   models.FinalScores{Overall: 80},
		Feedback: "good",
	}, 35, done)

	if next.Status != models.StatusCompleted || next.FinalScores == nil || next.CompletedAt == nil {
		t.Fatal("status, report, and timestamp must all be set")
	}
	if next.DurationMinutes != 35 {
		t.Fatalf("unexpected duration: %d", next.DurationMinutes)
	}
	if s.Status != models.StatusInProgress || s.FinalScores != nil {
		t.Fatal("input session was mutated")
	}
}

func TestWithExpiry_NoReport(t *testing.T) {
	s := baseSession()
	next := withExpiry(s, s.StartedAt.Add(45*time.Minute))
	if next.Status != models.StatusCompleted {
		t.Fatal("expired session must be completed")
	}
	if next.FinalScores != nil {
		t.Fatal("expiry must not attach a report")
	}
	if next.DurationMinutes != s.TimeLimitMinutes {
		t.Fatalf("expired duration should equal the limit, got %d", next.DurationMinutes)
	}
}

func TestResolveTopic(t *testing.T) {
	if got := resolveTopic("technical", "introduction"); got != "technical" {
		t.Fatalf("valid pick rejected: %s", got)
	}
	if got := resolveTopic("astrology", "technical"); got != "technical" {
		t.Fatalf("invalid pick must keep current topic, got %s", got)
	}
	if got := resolveTopic("", "behavioral"); got != "behavioral" {
		t.Fatalf("empty pick must keep current topic, got %s", got)
	}
}

func TestTimeHelpers(t *testing.T) {
	s := baseSession()
	at := func(m int) time.Time { return s.StartedAt.Add(time.Duration(m) * time.Minute) }

	if got := elapsedMinutes(s.StartedAt, at(12)); got != 12 {
		t.Fatalf("elapsed = %d", got)
	}
	if got := progressPercent(s, at(20)); got != 50 {
		t.Fatalf("progress at halfway = %d", got)
	}
	if got := progressPercent(s, at(60)); got != 100 {
		t.Fatalf("progress past limit must clamp, got %d", got)
	}
	if got := timeRemainingMinutes(s, at(45)); got != 0 {
		t.Fatalf("remaining past limit must clamp to 0, got %d", got)
	}
	if got := timeRemainingMinutes(s, at(10)); got != 30 {
		t.Fatalf("remaining = %d", got)
	}
}
