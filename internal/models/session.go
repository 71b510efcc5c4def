package models

import (
	"time"
)

// Session status values. The transition is one-way: in-progress -> completed.
const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Difficulty levels, ordered easy < medium < hard.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Sentiment values for a scored answer.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// AnswerRecord is one completed answer->score round trip. Records are
// append-only; once in the history they are never mutated.
type AnswerRecord struct {
	Question            string    `bson:"question" json:"question"`
	Answer              string    `bson:"answer" json:"answer"` // post-cleaning
	Topic               string    `bson:"topic" json:"topic"`
	Score               int       `bson:"score" json:"score"` // 0-100
	Feedback            string    `bson:"feedback" json:"feedback"`
	Sentiment           string    `bson:"sentiment" json:"sentiment"`
	Confidence          float64   `bson:"confidence" json:"confidence"` // 0.0-1.0
	ResponseTimeSeconds int       `bson:"response_time_seconds,omitempty" json:"response_time_seconds,omitempty"`
	Timestamp           time.Time `bson:"timestamp" json:"timestamp"`
}

// FinalScores is the per-dimension breakdown of a completed interview.
type FinalScores struct {
	Communication      int `bson:"communication" json:"communication"`
	TechnicalKnowledge int `bson:"technical_knowledge" json:"technical_knowledge"`
	ProblemSolving     int `bson:"problem_solving" json:"problem_solving"`
	TimeManagement     int `bson:"time_management" json:"time_management"`
	Engagement         int `bson:"engagement" json:"engagement"`
	Overall            int `bson:"overall" json:"overall"`
}

// InterviewSession is the persisted session document. Version is bumped on
// every save and used as the optimistic-concurrency guard in the repository
// update filter, so two writers racing from the same base state cannot both
// commit.
type InterviewSession struct {
	ID                string  `bson:"_id" json:"id"`
	SubjectID         string  `bson:"subject_id" json:"subject_id"`
	Domain            string  `bson:"domain" json:"domain"`
	Status            string  `bson:"status" json:"status"`
	InitialDifficulty string  `bson:"initial_difficulty" json:"initial_difficulty"`
	CurrentDifficulty string  `bson:"current_difficulty" json:"current_difficulty"`
	CurrentTopic      string  `bson:"current_topic" json:"current_topic"`
	CurrentQuestion   string  `bson:"current_question" json:"current_question"`
	TopicsCovered     []string `bson:"topics_covered" json:"topics_covered"`
	History           []AnswerRecord `bson:"history" json:"history"`
	TimeLimitMinutes  int     `bson:"time_limit_minutes" json:"time_limit_minutes"`
	StartedAt         time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt       *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	DurationMinutes   int     `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	FinalScores       *FinalScores `bson:"final_scores,omitempty" json:"final_scores,omitempty"`
	Feedback          string   `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Strengths         []string `bson:"strengths,omitempty" json:"strengths,omitempty"`
	Improvements      []string `bson:"improvements,omitempty" json:"improvements,omitempty"`
	Version           int64    `bson:"version" json:"-"`
}

// Clone returns a deep copy so the transform step can build the next state
// without touching the loaded document.
func (s *InterviewSession) Clone() *InterviewSession {
	out := *s
	out.TopicsCovered = append([]string(nil), s.TopicsCovered...)
	out.History = append([]AnswerRecord(nil), s.History...)
	out.Strengths = append([]string(nil), s.Strengths...)
	out.Improvements = append([]string(nil), s.Improvements...)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	if s.FinalScores != nil {
		fs := *s.FinalScores
		out.FinalScores = &fs
	}
	return &out
}

// RecentScores returns the trailing window of up to n history scores,
// oldest-to-newest.
func (s *InterviewSession) RecentScores(n int) []int {
	start := 0
	if len(s.History) > n {
		start = len(s.History) - n
	}
	scores := make([]int, 0, n)
	for _, rec := range s.History[start:] {
		scores = append(scores, rec.Score)
	}
	return scores
}

// AverageScore is the mean over the whole history, 0 when empty.
func (s *InterviewSession) AverageScore() float64 {
	if len(s.History) == 0 {
		return 0
	}
	sum := 0
	for _, rec := range s.History {
		sum += rec.Score
	}
	return float64(sum) / float64(len(s.History))
}

// HasTopic reports whether the topic label is already in TopicsCovered.
func (s *InterviewSession) HasTopic(topic string) bool {
	for _, t := range s.TopicsCovered {
		if t == topic {
			return true
		}
	}
	return false
}

// ValidDifficulties for request validation (in lowercase).
var ValidDifficulties = map[string]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

func ValidDifficultiesList() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}
