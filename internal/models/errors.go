package models

import "errors"

// Error kinds for the interview operations. Handlers map these onto HTTP
// statuses; everything else about the failure stays in logs.
type ErrorKind string

const (
	KindInvalidInput     ErrorKind = "invalid_input"
	KindNotFound         ErrorKind = "not_found"
	KindForbidden        ErrorKind = "forbidden"
	KindTimeExpired      ErrorKind = "time_expired"
	KindGenerationFailed ErrorKind = "generation_failed"
	KindScoringFailed    ErrorKind = "scoring_failed"
	KindConflict         ErrorKind = "conflict"
	KindInternal         ErrorKind = "internal"
)

// AppError carries a kind, a message safe to show to operators, and an
// optional wrapped cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the error kind, defaulting to KindInternal for errors that
// did not come from this package.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
