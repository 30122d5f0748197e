package memory

import (
	"context"
	"testing"

	"classgroup-service/internal/domain"
)

func TestPreferenceStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPreferenceStore()

	if _, err := store.Theme(ctx, "room-1"); err == nil {
		t.Fatalf("expected error for unset preference")
	}

	if err := store.SetTheme(ctx, "room-1", "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	theme, err := store.Theme(ctx, "room-1")
	if err != nil {
		t.Fatalf("read theme: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("expected dark, got %q", theme)
	}

	if err := store.SetTheme(ctx, "room-1", "sepia"); err != domain.ErrInvalidTheme {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}
