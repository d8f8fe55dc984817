package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"resumeSync/internal/resume"
)

type harness struct {
	page    *fakePage
	store   *mapStore
	sched   *manualScheduler
	confirm *fixedAnswer
	printed int
	engine  *Engine
}

func newHarness(t *testing.T, missing ...resume.InputID) *harness {
	t.Helper()
	h := &harness{
		page:    newFakePage(missing...),
		store:   newMapStore(),
		sched:   &manualScheduler{},
		confirm: &fixedAnswer{},
	}
	h.engine = New(h.page, h.store, h.sched,
		WithConfirmer(h.confirm),
		WithPrinter(PrinterFunc(func(context.Context) error {
			h.printed++
			return nil
		})),
		WithAssetPath("/assets/"),
	)
	return h
}

func TestOnFieldChange_PreviewShowsTrimmedValueOrDefault(t *testing.T) {
	ctx := context.Background()
	for _, f := range resume.Fields {
		h := newHarness(t)

		h.engine.OnFieldChange(ctx, f.Input, "  value  ")
		got := h.page.previews[f.Preview]
		if f.Multiline {
			want := resume.Rendered{Blocks: []resume.Block{{Kind: resume.BlockPlain, Text: "value"}}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%s preview (-want +got):\n%s", f.Input, diff)
			}
		} else if got.Text != "value" {
			t.Fatalf("%s preview = %q, want %q", f.Input, got.Text, "value")
		}

		h.engine.OnFieldChange(ctx, f.Input, "   ")
		if got := h.page.previews[f.Preview]; got.IsBlocks() || got.Text != f.Default {
			t.Fatalf("%s preview = %+v, want default %q", f.Input, got, f.Default)
		}
	}
}

func TestOnFieldChange_UnknownFieldIsIgnored(t *testing.T) {
	h := newHarness(t)

	h.engine.OnFieldChange(context.Background(), "nickname", "Ada")

	if h.store.writes != 0 || len(h.store.data) != 0 {
		t.Fatalf("unknown field touched the store: writes=%d data=%v", h.store.writes, h.store.data)
	}
}

func TestOnFieldChange_PersistsFullSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.engine.Initialize(ctx)

	h.page.typeInto("name", "Ada")
	h.page.typeInto("skills", "- Go\n- SQL")

	snap, ok, err := LoadSnapshot(ctx, h.store)
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot = %v, %v", ok, err)
	}
	if len(snap) != len(resume.Fields) {
		t.Fatalf("snapshot has %d keys, want %d", len(snap), len(resume.Fields))
	}
	if snap["name"] != "Ada" || snap["skills"] != "- Go\n- SQL" {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}

func TestSaveSnapshot_Idempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.page.inputs["email"] = "ada@example.com"

	if err := h.engine.SaveSnapshot(ctx); err != nil {
		t.Fatalf("first save: %v", err)
	}
	first := h.store.data[SnapshotKey]
	if err := h.engine.SaveSnapshot(ctx); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second := h.store.data[SnapshotKey]; second != first {
		t.Fatalf("snapshot changed between saves:\n%s\n%s", first, second)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	values := map[resume.InputID]string{
		"name":       "Ada Lovelace",
		"title":      "Analyst",
		"experience": "• Analytical Engine notes\n- Bernoulli numbers",
		"summary":    "",
	}
	for id, v := range values {
		h.page.inputs[id] = v
	}
	if err := h.engine.SaveSnapshot(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh := newFakePage()
	reloaded := New(fresh, h.store, &manualScheduler{})
	reloaded.LoadSnapshot(ctx)

	for id, v := range values {
		if fresh.inputs[id] != v {
			t.Fatalf("input %q = %q, want %q", id, fresh.inputs[id], v)
		}
	}
	exp, _ := resume.Lookup("experience")
	if got := fresh.previews[exp.Preview]; len(got.Blocks) != 2 {
		t.Fatalf("experience preview not re-derived: %+v", got)
	}
}

func TestLoadSnapshot_CorruptDataIsNoop(t *testing.T) {
	for _, raw := range []string{"{not json", "null", `["a"]`, `{"name": 7}`} {
		h := newHarness(t)
		h.store.data[SnapshotKey] = raw

		h.engine.Initialize(context.Background())

		if h.page.inputs["name"] != "" {
			t.Fatalf("%q: input changed to %q", raw, h.page.inputs["name"])
		}
		if h.store.data[SnapshotKey] != raw {
			t.Fatalf("%q: stored snapshot rewritten", raw)
		}
	}
}

func TestLoadSnapshot_StoreErrorIsNoop(t *testing.T) {
	h := newHarness(t)
	h.store.getErr = errBroken

	h.engine.Initialize(context.Background())

	if h.engine.State().Theme != resume.ThemeModern {
		t.Fatalf("theme = %q", h.engine.State().Theme)
	}
}

func TestLoadSnapshot_IgnoresUnknownAndMissingSlots(t *testing.T) {
	h := newHarness(t, "link")
	h.store.data[SnapshotKey] = `{"name":"Ada","link":"example.com","nickname":"A"}`

	h.engine.LoadSnapshot(context.Background())

	if h.page.inputs["name"] != "Ada" {
		t.Fatalf("name = %q", h.page.inputs["name"])
	}
	if _, ok := h.page.inputs["link"]; ok {
		t.Fatal("missing slot should stay missing")
	}
	snap, _, _ := LoadSnapshot(context.Background(), h.store)
	if _, ok := snap["nickname"]; ok {
		t.Fatal("unknown key should be dropped on the next save")
	}
}

func TestInitialize_WiresListenersOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.engine.Initialize(ctx)
	h.engine.Initialize(ctx)

	if n := len(h.page.inputListeners["name"]); n != 1 {
		t.Fatalf("name has %d input listeners, want 1", n)
	}
	if n := len(h.page.teardown); n != 1 {
		t.Fatalf("%d teardown hooks, want 1", n)
	}
}

func TestInitialize_RestoresTheme(t *testing.T) {
	h := newHarness(t)
	h.engine.Initialize(context.Background())
	if h.page.stylesheet != "/assets/theme-modern.css" || !h.page.active[resume.ThemeModern] {
		t.Fatalf("default theme not applied: %q %v", h.page.stylesheet, h.page.active)
	}
}

func TestSwitchTheme_PersistsAndMarksSelector(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.engine.Initialize(ctx)

	if err := h.engine.SwitchTheme(ctx, "classic"); err != nil {
		t.Fatalf("SwitchTheme: %v", err)
	}

	fresh := newFakePage()
	reloaded := New(fresh, h.store, &manualScheduler{}, WithAssetPath("/assets/"))
	reloaded.Initialize(ctx)

	if got := reloaded.State().Theme; got != resume.ThemeClassic {
		t.Fatalf("reloaded theme = %q", got)
	}
	if !fresh.active[resume.ThemeClassic] || fresh.active[resume.ThemeModern] {
		t.Fatalf("selector flags = %v", fresh.active)
	}
	if fresh.stylesheet != "/assets/theme-classic.css" {
		t.Fatalf("stylesheet = %q", fresh.stylesheet)
	}
}

func TestSwitchTheme_ViaClick(t *testing.T) {
	h := newHarness(t)
	h.engine.Initialize(context.Background())

	h.page.click(ThemeControl(resume.ThemeClassic))

	if h.store.data[ThemeKey] != "classic" {
		t.Fatalf("theme key = %q", h.store.data[ThemeKey])
	}
}

func TestSwitchTheme_UnknownRejected(t *testing.T) {
	h := newHarness(t)
	err := h.engine.SwitchTheme(context.Background(), "neon")
	if !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if _, ok := h.store.data[ThemeKey]; ok {
		t.Fatal("unknown theme persisted")
	}
}

func TestClearAll_Declined(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.engine.Initialize(ctx)
	h.page.typeInto("name", "Ada")
	h.page.typeInto("skills", "- Go")
	stored := h.store.data[SnapshotKey]
	previews := cloneDeep(h.page.previews)

	cleared, err := h.engine.ClearAll(ctx)
	if err != nil || cleared {
		t.Fatalf("ClearAll = %v, %v", cleared, err)
	}
	if h.confirm.asked != 1 {
		t.Fatalf("confirm asked %d times", h.confirm.asked)
	}
	if h.page.inputs["name"] != "Ada" || h.store.data[SnapshotKey] != stored {
		t.Fatal("declined clear changed state")
	}
	if diff := cmp.Diff(previews, h.page.previews); diff != "" {
		t.Fatalf("previews changed (-before +after):\n%s", diff)
	}
}

func TestClearAll_Confirmed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.engine.Initialize(ctx)
	h.page.typeInto("name", "Ada")
	h.page.typeInto("experience", "- one\n- two")
	h.confirm.answer = true

	cleared, err := h.engine.ClearAll(ctx)
	if err != nil || !cleared {
		t.Fatalf("ClearAll = %v, %v", cleared, err)
	}
	for _, f := range resume.Fields {
		if h.page.inputs[f.Input] != "" {
			t.Fatalf("input %q not cleared", f.Input)
		}
		if diff := cmp.Diff(resume.Plain(f.Default), h.page.previews[f.Preview]); diff != "" {
			t.Fatalf("preview %q (-want +got):\n%s", f.Preview, diff)
		}
	}
	if _, ok := h.store.data[SnapshotKey]; ok {
		t.Fatal("snapshot key should be deleted")
	}

	fresh := newFakePage()
	New(fresh, h.store, &manualScheduler{}).LoadSnapshot(ctx)
	if fresh.inputs["name"] != "" {
		t.Fatal("fresh start found a snapshot")
	}
}

func TestClearAll_NoConfirmerDeclines(t *testing.T) {
	page := newFakePage()
	store := newMapStore()
	store.data[SnapshotKey] = `{"name":"Ada"}`
	e := New(page, store, &manualScheduler{})

	cleared, err := e.ClearAll(context.Background())
	if err != nil || cleared {
		t.Fatalf("ClearAll = %v, %v", cleared, err)
	}
	if store.data[SnapshotKey] == "" {
		t.Fatal("snapshot removed without confirmation")
	}
}

func TestPaste_RereadsAfterDelay(t *testing.T) {
	h := newHarness(t)
	h.engine.Initialize(context.Background())

	h.page.inputs["title"] = "Engineer"
	for _, fn := range h.page.pasteListeners["title"] {
		fn()
	}
	title, _ := resume.Lookup("title")
	if h.page.previews[title.Preview].Text != title.Default {
		t.Fatal("paste should not update synchronously")
	}
	if len(h.sched.pending) != 1 || h.sched.pending[0].delay != DefaultPasteDelay {
		t.Fatalf("unexpected schedule: %+v", h.sched.pending)
	}

	h.sched.runAll()

	if h.page.previews[title.Preview].Text != "Engineer" {
		t.Fatalf("preview = %q", h.page.previews[title.Preview].Text)
	}
}

func TestPrintResume_Deferred(t *testing.T) {
	h := newHarness(t)
	h.engine.Initialize(context.Background())

	h.page.click(ControlPrint)
	if h.printed != 0 {
		t.Fatal("print ran before delay")
	}
	if len(h.sched.pending) != 1 || h.sched.pending[0].delay != DefaultPrintDelay {
		t.Fatalf("unexpected schedule: %+v", h.sched.pending)
	}

	h.sched.runAll()
	if h.printed != 1 {
		t.Fatalf("printed %d times", h.printed)
	}
}

func TestTeardownFlushesSnapshot(t *testing.T) {
	h := newHarness(t)
	h.engine.Initialize(context.Background())
	h.page.inputs["phone"] = "555-0100"

	for _, fn := range h.page.teardown {
		fn()
	}

	snap, ok, err := LoadSnapshot(context.Background(), h.store)
	if err != nil || !ok || snap["phone"] != "555-0100" {
		t.Fatalf("snapshot after teardown = %v, %v, %v", snap, ok, err)
	}
}

func TestMissingSlotsAreSkipped(t *testing.T) {
	h := newHarness(t, "email")
	ctx := context.Background()
	h.engine.Initialize(ctx)

	h.engine.OnFieldChange(ctx, "email", "ada@example.com")
	if err := h.engine.SaveSnapshot(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, _, _ := LoadSnapshot(ctx, h.store)
	if _, ok := snap["email"]; ok {
		t.Fatal("absent input should not appear in snapshot")
	}
}

func cloneDeep(in map[resume.PreviewID]resume.Rendered) map[resume.PreviewID]resume.Rendered {
	out := make(map[resume.PreviewID]resume.Rendered, len(in))
	for k, v := range in {
		blocks := v.Blocks
		if blocks != nil {
			blocks = append([]resume.Block{}, blocks...)
		}
		out[k] = resume.Rendered{Text: v.Text, Blocks: blocks}
	}
	return out
}
