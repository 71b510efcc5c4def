package repositories

import (
	"context"
	"errors"
	"time"

	"placementprep/interview/internal/models"
)

var (
	// ErrNotFound is returned when no session matches the id.
	ErrNotFound = errors.New("session not found")
	// ErrVersionConflict is returned when a save's version guard matches no
	// document: another writer committed from the same base state first.
	ErrVersionConflict = errors.New("session was modified concurrently")
)

// SessionRepository is the persistence boundary for interview sessions.
// Update is a version-guarded full-document replace, making the
// read-modify-write cycle the single serialization point the design relies
// on: a stale writer matches nothing and gets ErrVersionConflict instead of
// silently dropping the other writer's append.
type SessionRepository interface {
	Create(ctx context.Context, session *models.InterviewSession) error
	FindByID(ctx context.Context, id string) (*models.InterviewSession, error)
	Update(ctx context.Context, session *models.InterviewSession) error
	// FindExpired returns in-progress sessions whose time limit had already
	// elapsed at the given instant.
	FindExpired(ctx context.Context, now time.Time) ([]models.InterviewSession, error)
}
