package resume

import "testing"

func TestFieldsAreUniqueAndHaveDefaults(t *testing.T) {
	if len(Fields) != 10 {
		t.Fatalf("expected 10 fields, got %d", len(Fields))
	}
	for _, f := range Fields {
		got, ok := DefaultValue(f.Preview)
		if !ok || got == "" {
			t.Fatalf("preview %q has no default", f.Preview)
		}
		if looked, ok := Lookup(f.Input); !ok || looked.Preview != f.Preview {
			t.Fatalf("lookup %q = %+v, %v", f.Input, looked, ok)
		}
	}
}

func TestMultilineFields(t *testing.T) {
	want := map[InputID]bool{"experience": true, "education": true, "skills": true}
	for _, f := range Fields {
		if f.Multiline != want[f.Input] {
			t.Fatalf("field %q multiline=%v", f.Input, f.Multiline)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("nickname"); ok {
		t.Fatal("unknown input id should not resolve")
	}
}

func TestParseTheme(t *testing.T) {
	if th, ok := ParseTheme("classic"); !ok || th != ThemeClassic {
		t.Fatalf("ParseTheme(classic) = %q, %v", th, ok)
	}
	if _, ok := ParseTheme("neon"); ok {
		t.Fatal("unknown theme accepted")
	}
	if got := ThemeModern.Stylesheet(); got != "theme-modern.css" {
		t.Fatalf("Stylesheet() = %q", got)
	}
}
