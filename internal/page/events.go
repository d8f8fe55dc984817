package page

import (
	"resumeSync/internal/engine"
	"resumeSync/internal/resume"
)

// Input stores the typed value and fires input listeners. It reports false
// when the page has no such input.
func (d *Document) Input(id resume.InputID, value string) bool {
	d.mu.Lock()
	if _, ok := d.inputs[id]; !ok {
		d.mu.Unlock()
		return false
	}
	d.inputs[id] = value
	listeners := append([]func(){}, d.inputListeners[id]...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// Paste fires paste listeners first and only then stores the pasted value,
// mirroring a browser where the value lands after the paste event.
func (d *Document) Paste(id resume.InputID, value string) bool {
	d.mu.Lock()
	if _, ok := d.inputs[id]; !ok {
		d.mu.Unlock()
		return false
	}
	listeners := append([]func(){}, d.pasteListeners[id]...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	d.mu.Lock()
	d.inputs[id] = value
	d.mu.Unlock()
	return true
}

// Click fires the listeners of a control.
func (d *Document) Click(c engine.Control) bool {
	d.mu.Lock()
	if !d.hasControl(c) {
		d.mu.Unlock()
		return false
	}
	listeners := append([]func(){}, d.clickListeners[c]...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// AnswerConfirm queues the user's answer for the next Confirm call.
func (d *Document) AnswerConfirm(yes bool) {
	d.mu.Lock()
	d.pendingAnswer = &yes
	d.mu.Unlock()
}

// Teardown runs the page-destroy hooks.
func (d *Document) Teardown() {
	d.mu.Lock()
	hooks := append([]func(){}, d.teardown...)
	d.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
