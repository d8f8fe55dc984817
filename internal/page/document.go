// Package page models the host page the engine drives: a fixed set of named
// input, preview and control slots, plus the event plumbing a browser would
// provide. The HTTP host forwards raw browser events into a Document and
// streams its changes back out.
package page

import (
	"context"
	"sync"

	"resumeSync/internal/engine"
	"resumeSync/internal/resume"
)

// ChangeKind classifies a document change published to subscribers.
type ChangeKind string

const (
	ChangeInput      ChangeKind = "input"
	ChangePreview    ChangeKind = "preview"
	ChangeStylesheet ChangeKind = "stylesheet"
	ChangeTheme      ChangeKind = "theme"
	ChangePrinted    ChangeKind = "printed"
)

// Change is one observable mutation of the document.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Target string     `json:"target,omitempty"`
	Value  string     `json:"value,omitempty"`
	HTML   string     `json:"html,omitempty"`
	Active bool       `json:"active,omitempty"`
}

// Option configures a Document.
type Option func(*Document)

// WithoutSlots removes the given input fields (and their previews) from the
// page, as if the host markup did not contain them.
func WithoutSlots(ids ...resume.InputID) Option {
	return func(d *Document) {
		for _, id := range ids {
			f, ok := resume.Lookup(id)
			if !ok {
				continue
			}
			delete(d.inputs, f.Input)
			delete(d.previews, f.Preview)
		}
	}
}

// Document is an in-memory page. It is safe for concurrent use, but event
// listeners run on the goroutine that dispatches the event; the HTTP host
// dispatches from the engine loop only.
type Document struct {
	mu         sync.Mutex
	inputs     map[resume.InputID]string
	previews   map[resume.PreviewID]resume.Rendered
	stylesheet string
	active     map[resume.Theme]bool
	lastPrint  string

	inputListeners map[resume.InputID][]func()
	pasteListeners map[resume.InputID][]func()
	clickListeners map[engine.Control][]func()
	teardown       []func()

	// pendingAnswer 是下一次 Confirm 的回答，由浏览器端的确认框给出。
	pendingAnswer *bool

	subscribers map[chan Change]struct{}
}

var (
	_ engine.Page      = (*Document)(nil)
	_ engine.Confirmer = (*Document)(nil)
)

// NewDocument builds a page with every mapped slot present and every preview
// showing its placeholder.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		inputs:         make(map[resume.InputID]string, len(resume.Fields)),
		previews:       make(map[resume.PreviewID]resume.Rendered, len(resume.Fields)),
		active:         make(map[resume.Theme]bool, len(resume.Themes)),
		inputListeners: make(map[resume.InputID][]func()),
		pasteListeners: make(map[resume.InputID][]func()),
		clickListeners: make(map[engine.Control][]func()),
		subscribers:    make(map[chan Change]struct{}),
	}
	for _, f := range resume.Fields {
		d.inputs[f.Input] = ""
		d.previews[f.Preview] = resume.Plain(f.Default)
	}
	for _, t := range resume.Themes {
		d.active[t] = false
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Document) InputValue(id resume.InputID) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.inputs[id]
	return v, ok
}

func (d *Document) SetInputValue(id resume.InputID, value string) bool {
	d.mu.Lock()
	if _, ok := d.inputs[id]; !ok {
		d.mu.Unlock()
		return false
	}
	d.inputs[id] = value
	d.mu.Unlock()

	d.publish(Change{Kind: ChangeInput, Target: string(id), Value: value})
	return true
}

func (d *Document) SetPreview(id resume.PreviewID, content resume.Rendered) bool {
	d.mu.Lock()
	if _, ok := d.previews[id]; !ok {
		d.mu.Unlock()
		return false
	}
	d.previews[id] = content
	d.mu.Unlock()

	d.publish(Change{Kind: ChangePreview, Target: string(id), HTML: resume.RenderHTML(content)})
	return true
}

func (d *Document) SetStylesheet(href string) {
	d.mu.Lock()
	d.stylesheet = href
	d.mu.Unlock()

	d.publish(Change{Kind: ChangeStylesheet, Value: href})
}

func (d *Document) SetThemeActive(t resume.Theme, active bool) bool {
	d.mu.Lock()
	if _, ok := d.active[t]; !ok {
		d.mu.Unlock()
		return false
	}
	d.active[t] = active
	d.mu.Unlock()

	d.publish(Change{Kind: ChangeTheme, Target: string(t), Active: active})
	return true
}

// SetPrinted records where the latest printed copy can be fetched.
func (d *Document) SetPrinted(location string) {
	d.mu.Lock()
	d.lastPrint = location
	d.mu.Unlock()

	d.publish(Change{Kind: ChangePrinted, Value: location})
}

func (d *Document) OnInput(id resume.InputID, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.inputs[id]; !ok {
		return false
	}
	d.inputListeners[id] = append(d.inputListeners[id], fn)
	return true
}

func (d *Document) OnPaste(id resume.InputID, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.inputs[id]; !ok {
		return false
	}
	d.pasteListeners[id] = append(d.pasteListeners[id], fn)
	return true
}

func (d *Document) OnClick(c engine.Control, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasControl(c) {
		return false
	}
	d.clickListeners[c] = append(d.clickListeners[c], fn)
	return true
}

func (d *Document) OnTeardown(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teardown = append(d.teardown, fn)
}

// Confirm consumes the answer supplied with the triggering event. Without
// one, the request counts as declined.
func (d *Document) Confirm(_ context.Context, _ string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pendingAnswer == nil {
		return false, nil
	}
	answer := *d.pendingAnswer
	d.pendingAnswer = nil
	return answer, nil
}

func (d *Document) hasControl(c engine.Control) bool {
	switch c {
	case engine.ControlPrint, engine.ControlClear:
		return true
	}
	for t := range d.active {
		if engine.ThemeControl(t) == c {
			return true
		}
	}
	return false
}
