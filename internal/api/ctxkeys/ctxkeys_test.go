package ctxkeys

import (
	"context"
	"testing"
)

func TestWithValue_SetsAndGetsTypedKey(t *testing.T) {
	t.Parallel()

	ctx := WithValue(context.Background(), OwnerID, "owner-999")
	got, ok := ctx.Value(OwnerID).(string)
	if !ok {
		t.Fatalf("expected string value")
	}
	if got != "owner-999" {
		t.Fatalf("expected owner-999, got %q", got)
	}
}

func TestTypedKey_NoCollisionWithPlainString(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "owner_id", "plain") //nolint:staticcheck
	if v := ctx.Value(OwnerID); v != nil {
		t.Fatalf("typed key read plain-string value %v; want nil", v)
	}
}
