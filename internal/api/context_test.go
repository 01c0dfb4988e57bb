package api

import (
	"context"
	"errors"
	"testing"

	"github.com/startupcopilot/copilot/internal/api/ctxkeys"
)

func TestWithOwnerIDAndGetOwnerID_Success(t *testing.T) {
	t.Parallel()

	ctx := WithOwnerID(context.Background(), "owner-123")
	got, err := GetOwnerID(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "owner-123" {
		t.Fatalf("expected owner-123, got %q", got)
	}
}

func TestGetOwnerID_Missing_ReturnsExpectedError(t *testing.T) {
	t.Parallel()

	_, err := GetOwnerID(context.Background())
	if !errors.Is(err, ErrMissingOwnerID) {
		t.Fatalf("expected ErrMissingOwnerID, got %v", err)
	}
}

func TestGetOwnerID_EmptyValue_ReturnsExpectedError(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxkeys.OwnerID, "")
	_, err := GetOwnerID(ctx)
	if !errors.Is(err, ErrMissingOwnerID) {
		t.Fatalf("expected ErrMissingOwnerID, got %v", err)
	}
}
