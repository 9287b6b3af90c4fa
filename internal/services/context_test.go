package services_test

import (
	"context"
	"testing"

	"dupereview/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithPage(ctx, 3)
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-1" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if page, ok := services.PageFromContext(ctx); !ok || page != 3 {
		t.Fatalf("unexpected page: %v %v", page, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "")
	ctx = services.WithPage(ctx, 0)
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session id")
	}
	if _, ok := services.PageFromContext(ctx); ok {
		t.Fatal("expected no page value")
	}
}
