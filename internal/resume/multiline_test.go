package resume

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatMultiline_MixedLines(t *testing.T) {
	got := FormatMultiline("- a\n\nb\n• c")
	want := Rendered{Blocks: []Block{
		{Kind: BlockBullet, Text: "- a"},
		{Kind: BlockPlain, Text: "b"},
		{Kind: BlockBullet, Text: "• c"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected blocks (-want +got):\n%s", diff)
	}
}

func TestFormatMultiline_TrimsAndHandlesCRLF(t *testing.T) {
	got := FormatMultiline("  Led team  \r\n\r\n   \r\n  - shipped v2 ")
	want := []Block{
		{Kind: BlockPlain, Text: "Led team"},
		{Kind: BlockBullet, Text: "- shipped v2"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Fatalf("unexpected blocks (-want +got):\n%s", diff)
	}
}

func TestFormatMultiline_EmptyIsPlain(t *testing.T) {
	got := FormatMultiline("")
	if got.IsBlocks() {
		t.Fatalf("expected plain text for empty content, got %+v", got)
	}
	if got.Text != "" {
		t.Fatalf("expected empty text, got %q", got.Text)
	}
}

func TestFormatMultiline_Deterministic(t *testing.T) {
	in := "• one\ntwo\n- three"
	if diff := cmp.Diff(FormatMultiline(in), FormatMultiline(in)); diff != "" {
		t.Fatalf("same input produced different output:\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	name, _ := Lookup("name")
	skills, _ := Lookup("skills")

	tests := []struct {
		label string
		field Field
		raw   string
		want  Rendered
	}{
		{"trimmed value", name, "  Ada Lovelace ", Plain("Ada Lovelace")},
		{"blank uses default", name, "   \t", Plain(name.Default)},
		{"multiline formats", skills, "- Go\nSQL", Rendered{Blocks: []Block{
			{Kind: BlockBullet, Text: "- Go"},
			{Kind: BlockPlain, Text: "SQL"},
		}}},
		{"multiline default stays plain", skills, "", Plain(skills.Default)},
		{"multiline typed default stays plain", skills, skills.Default, Plain(skills.Default)},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Render(tt.field, tt.raw)); diff != "" {
				t.Fatalf("Render (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	got := RenderHTML(Rendered{Blocks: []Block{
		{Kind: BlockBullet, Text: "• <b>Go</b>"},
		{Kind: BlockPlain, Text: "R&D"},
	}})
	want := `<div class="bullet-item">• &lt;b&gt;Go&lt;/b&gt;</div><div class="plain-item">R&amp;D</div>`
	if got != want {
		t.Fatalf("RenderHTML = %q, want %q", got, want)
	}

	if got := RenderHTML(Plain(`<script>alert(1)</script>Ada`)); strings.Contains(got, "<script>") || !strings.Contains(got, "Ada") {
		t.Fatalf("plain text not escaped: %q", got)
	}
}

func TestRenderHTML_KeepsAngleBracketText(t *testing.T) {
	name, _ := Lookup("name")
	skills, _ := Lookup("skills")

	tests := []struct {
		label string
		field Field
		raw   string
		want  string
	}{
		{"email in brackets", name, "Ada <ada@example.com>", "Ada &lt;ada@example.com&gt;"},
		{"bare tag-like word", name, "x <y> z", "x &lt;y&gt; z"},
		{"ampersand not doubled", name, "R&D", "R&amp;D"},
		{
			"multiline generics",
			skills,
			"- Go <generics>\nList<T>",
			`<div class="bullet-item">- Go &lt;generics&gt;</div><div class="plain-item">List&lt;T&gt;</div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := RenderHTML(Render(tt.field, tt.raw)); got != tt.want {
				t.Fatalf("RenderHTML = %q, want %q", got, tt.want)
			}
		})
	}
}
