package page

import (
	"maps"

	"resumeSync/internal/resume"
)

// Slot is one input/preview pair as currently shown.
type Slot struct {
	Input       resume.InputID   `json:"input"`
	Preview     resume.PreviewID `json:"preview"`
	Multiline   bool             `json:"multiline"`
	Value       string           `json:"value"`
	Placeholder string           `json:"placeholder"`
	PreviewHTML string           `json:"preview_html"`
	HasInput    bool             `json:"has_input"`
	HasPreview  bool             `json:"has_preview"`
}

// View is an immutable copy of the page state.
type View struct {
	Slots      []Slot                `json:"slots"`
	Stylesheet string                `json:"stylesheet"`
	Active     map[resume.Theme]bool `json:"active"`
	Themes     []resume.Theme        `json:"themes"`
	LastPrint  string                `json:"last_print,omitempty"`
}

// View snapshots the document in field order.
func (d *Document) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	slots := make([]Slot, 0, len(resume.Fields))
	for _, f := range resume.Fields {
		value, hasInput := d.inputs[f.Input]
		content, hasPreview := d.previews[f.Preview]
		if !hasInput && !hasPreview {
			continue
		}
		slot := Slot{
			Input:       f.Input,
			Preview:     f.Preview,
			Multiline:   f.Multiline,
			Value:       value,
			Placeholder: f.Default,
			HasInput:    hasInput,
			HasPreview:  hasPreview,
		}
		if hasPreview {
			slot.PreviewHTML = resume.RenderHTML(content)
		}
		slots = append(slots, slot)
	}

	return View{
		Slots:      slots,
		Stylesheet: d.stylesheet,
		Active:     maps.Clone(d.active),
		Themes:     append([]resume.Theme(nil), resume.Themes...),
		LastPrint:  d.lastPrint,
	}
}

// Preview returns the current content of a preview slot.
func (d *Document) Preview(id resume.PreviewID) (resume.Rendered, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.previews[id]
	return r, ok
}

// Subscribe returns a channel of document changes and a cancel function.
// Slow subscribers lose changes rather than block the page.
func (d *Document) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = 32
	}
	ch := make(chan Change, buffer)

	d.mu.Lock()
	d.subscribers[ch] = struct{}{}
	d.mu.Unlock()

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.subscribers[ch]; ok {
			delete(d.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (d *Document) publish(c Change) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for ch := range d.subscribers {
		select {
		case ch <- c:
		default:
		}
	}
}
