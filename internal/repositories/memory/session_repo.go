// Package memory is an in-process SessionRepository with the same
// version-guard semantics as the Mongo implementation. It backs unit tests,
// including the simulated concurrent read-modify-write property.
package memory

import (
	"context"
	"sync"
	"time"

	"placementprep/interview/internal/models"
	"placementprep/interview/internal/repositories"
)

type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*models.InterviewSession
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		sessions: make(map[string]*models.InterviewSession),
	}
}

func (r *SessionRepo) Create(ctx context.Context, session *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.Version = 1
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *SessionRepo) FindByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return session.Clone(), nil
}

func (r *SessionRepo) Update(ctx context.Context, session *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok || stored.Version != session.Version {
		return repositories.ErrVersionConflict
	}
	session.Version++
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *SessionRepo) FindExpired(ctx context.Context, now time.Time) ([]models.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.InterviewSession
	for _, session := range r.sessions {
		if session.Status != models.StatusInProgress {
			continue
		}
		deadline := session.StartedAt.Add(time.Duration(session.TimeLimitMinutes) * time.Minute)
		if deadline.Before(now) {
			out = append(out, *session.Clone())
		}
	}
	return out, nil
}
