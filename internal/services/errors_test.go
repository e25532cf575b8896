package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ffstats/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrProcessExit, "ffmpeg", "wait", "exit status 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrProcessExit) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"ffmpeg", "wait", "exit status 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, services.ErrProcessExit) {
		t.Fatalf("nil marker should fall back to ErrProcessExit, got %v", err)
	}
	if !strings.Contains(err.Error(), "unspecified failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.Outcome
	}{
		{"nil", nil, services.OutcomeCompleted},
		{"cancelled marker", services.Wrap(services.ErrCancelled, "monitor", "run", "interrupted", nil), services.OutcomeCancelled},
		{"context cancelled", fmt.Errorf("read: %w", context.Canceled), services.OutcomeCancelled},
		{"protocol", services.Wrap(services.ErrProtocol, "ffmpeg", "parse", "fps", errors.New("bad")), services.OutcomeFailed},
		{"plain", errors.New("io"), services.OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.OutcomeOf(tt.err); got != tt.want {
				t.Fatalf("OutcomeOf(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}
