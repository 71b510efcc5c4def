package interview

import (
	"time"

	"placementprep/interview/internal/models"
	"placementprep/interview/internal/scoring"
)

// The transforms in this file are pure: they take the loaded session plus the
// generation results and return the next session state, leaving the input
// untouched. The service's job is only load -> transform -> save.

// Valid next-topic labels the topic analysis may pick.
var validTopics = map[string]bool{
	"technical":       true,
	"behavioral":      true,
	"problem_solving": true,
}

// newSession builds the initial in-progress document.
func newSession(id, subjectID, domain, difficulty string, timeLimitMinutes int, question string, startedAt time.Time) *models.InterviewSession {
	return &models.InterviewSession{
		ID:                id,
		SubjectID:         subjectID,
		Domain:            domain,
		Status:            models.StatusInProgress,
		InitialDifficulty: difficulty,
		CurrentDifficulty: difficulty,
		CurrentTopic:      "introduction",
		CurrentQuestion:   question,
		TopicsCovered:     []string{"introduction"},
		History:           []models.AnswerRecord{},
		TimeLimitMinutes:  timeLimitMinutes,
		StartedAt:         startedAt,
	}
}

// withAnswerScored appends the answer record and advances the difficulty.
// This is the state a crash should be able to recover from: difficulty
// already moved, next question still missing.
func withAnswerScored(session *models.InterviewSession, record models.AnswerRecord, newDifficulty string) *models.InterviewSession {
	next := session.Clone()
	next.History = append(next.History, record)
	next.CurrentDifficulty = newDifficulty
	return next
}

// withNextQuestion installs the follow-up question and topic. The topic is
// appended to TopicsCovered only when it is new; insertion order is kept.
func withNextQuestion(session *models.InterviewSession, question, topic string) *models.InterviewSession {
	next := session.Clone()
	next.CurrentQuestion = question
	next.CurrentTopic = topic
	if !next.HasTopic(topic) {
		next.TopicsCovered = append(next.TopicsCovered, topic)
	}
	return next
}

// withCompletion seals the session with the final report. The status flip and
// the report commit together, never separately.
func withCompletion(session *models.InterviewSession, report *scoring.FinalReport, durationMinutes int, completedAt time.Time) *models.InterviewSession {
	next := session.Clone()
	next.Status = models.StatusCompleted
	next.CompletedAt = &completedAt
	next.DurationMinutes = durationMinutes
	scores := report.Scores
	next.FinalScores = &scores
	next.Feedback = report.Feedback
	next.Strengths = append([]string(nil), report.Strengths...)
	next.Improvements = append([]string(nil), report.Improvements...)
	return next
}

// withExpiry force-completes a session whose time limit lapsed. No report is
// attached; the session simply stops accepting answers.
func withExpiry(session *models.InterviewSession, expiredAt time.Time) *models.InterviewSession {
	next := session.Clone()
	next.Status = models.StatusCompleted
	next.CompletedAt = &expiredAt
	next.DurationMinutes = session.TimeLimitMinutes
	return next
}

// resolveTopic validates the analysis result against the closed topic set,
// keeping the current topic when the pick is unusable. Topic drift is
// cosmetic, so this path degrades instead of raising.
func resolveTopic(picked, current string) string {
	if validTopics[picked] {
		return picked
	}
	return current
}

// elapsedMinutes rounds down to whole minutes.
func elapsedMinutes(startedAt, now time.Time) int {
	return int(now.Sub(startedAt) / time.Minute)
}

// progressPercent is time-based: how much of the session's window has been
// used, clamped to 100.
func progressPercent(session *models.InterviewSession, now time.Time) int {
	if session.TimeLimitMinutes <= 0 {
		return 0
	}
	pct := int(now.Sub(session.StartedAt) * 100 / (time.Duration(session.TimeLimitMinutes) * time.Minute))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// timeRemainingMinutes never goes negative.
func timeRemainingMinutes(session *models.InterviewSession, now time.Time) int {
	remaining := session.TimeLimitMinutes - elapsedMinutes(session.StartedAt, now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
