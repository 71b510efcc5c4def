package jobs

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeExpirer struct {
	expired int
	err     error
	calls   int
}

func (f *fakeExpirer) ExpireOverdue(ctx context.Context) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.expired, nil
}

func TestRunSweep(t *testing.T) {
	expirer := &fakeExpirer{expired: 2}
	job := NewSessionExpirerJob(expirer, &ExpirerConfig{Schedule: "*/5 * * * *", Enabled: true}, zap.NewNop())

	if err := job.RunSweep(); err != nil {
		t.Fatalf("RunSweep returned error: %v", err)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected 1 call, got %d", expirer.calls)
	}
}

func TestRunSweep_ServiceError(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("store down")}
	job := NewSessionExpirerJob(expirer, &ExpirerConfig{Schedule: "*/5 * * * *", Enabled: true}, zap.NewNop())

	if err := job.RunSweep(); err == nil {
		t.Fatal("expected error from failing sweep")
	}
}

func TestStart_Disabled(t *testing.T) {
	expirer := &fakeExpirer{}
	job := NewSessionExpirerJob(expirer, &ExpirerConfig{Schedule: "*/5 * * * *", Enabled: false}, zap.NewNop())

	if err := job.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer job.Stop()
	if expirer.calls != 0 {
		t.Fatal("disabled job must not run")
	}
}

func TestStart_BadSchedule(t *testing.T) {
	job := NewSessionExpirerJob(&fakeExpirer{}, &ExpirerConfig{Schedule: "not a schedule", Enabled: true}, zap.NewNop())
	if err := job.Start(); err == nil {
		t.Fatal("invalid schedule must be rejected")
	}
}
