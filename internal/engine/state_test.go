package engine

import (
	"context"
	"testing"

	"resumeSync/internal/resume"
)

func TestSnapshotMarshal_StableKeyOrder(t *testing.T) {
	snap := Snapshot{"title": "Analyst", "name": "Ada"}
	got, err := snap.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"name":"Ada","title":"Analyst"}`; got != want {
		t.Fatalf("Marshal = %s, want %s", got, want)
	}
}

func TestParseSnapshot_Rejects(t *testing.T) {
	for _, raw := range []string{"", "null", "[]", "42", `{"name":true}`} {
		if _, err := ParseSnapshot(raw); err == nil {
			t.Fatalf("ParseSnapshot(%q) succeeded", raw)
		}
	}
}

func TestLoadTheme_FallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()

	if th, err := LoadTheme(ctx, store); err != nil || th != resume.ThemeModern {
		t.Fatalf("absent theme = %q, %v", th, err)
	}
	store.data[ThemeKey] = "neon"
	if th, err := LoadTheme(ctx, store); err != nil || th != resume.ThemeModern {
		t.Fatalf("unknown theme = %q, %v", th, err)
	}
	store.data[ThemeKey] = "classic"
	if th, _ := LoadTheme(ctx, store); th != resume.ThemeClassic {
		t.Fatalf("classic theme = %q", th)
	}
}
