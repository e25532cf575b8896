package services_test

import (
	"context"
	"testing"

	"ffstats/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "c0ffee")
	ctx = services.WithStage(ctx, "encode")
	ctx = services.WithInput(ctx, "/media/in.mkv")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "c0ffee" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "encode" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if input, ok := services.InputFromContext(ctx); !ok || input != "/media/in.mkv" {
		t.Fatalf("unexpected input: %v %v", input, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithSessionID(ctx, "")
	ctx = services.WithInput(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session id")
	}
	if _, ok := services.InputFromContext(ctx); ok {
		t.Fatal("expected no input")
	}
}
