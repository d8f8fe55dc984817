package engine

import (
	"context"
	"errors"
	"time"

	"resumeSync/internal/resume"
)

type fakePage struct {
	inputs     map[resume.InputID]string
	previews   map[resume.PreviewID]resume.Rendered
	stylesheet string
	active     map[resume.Theme]bool

	inputListeners map[resume.InputID][]func()
	pasteListeners map[resume.InputID][]func()
	clickListeners map[Control][]func()
	teardown       []func()
}

func newFakePage(missing ...resume.InputID) *fakePage {
	p := &fakePage{
		inputs:         map[resume.InputID]string{},
		previews:       map[resume.PreviewID]resume.Rendered{},
		active:         map[resume.Theme]bool{resume.ThemeModern: false, resume.ThemeClassic: false},
		inputListeners: map[resume.InputID][]func(){},
		pasteListeners: map[resume.InputID][]func(){},
		clickListeners: map[Control][]func(){},
	}
	skip := map[resume.InputID]bool{}
	for _, id := range missing {
		skip[id] = true
	}
	for _, f := range resume.Fields {
		if skip[f.Input] {
			continue
		}
		p.inputs[f.Input] = ""
		p.previews[f.Preview] = resume.Plain(f.Default)
	}
	return p
}

func (p *fakePage) InputValue(id resume.InputID) (string, bool) {
	v, ok := p.inputs[id]
	return v, ok
}

func (p *fakePage) SetInputValue(id resume.InputID, value string) bool {
	if _, ok := p.inputs[id]; !ok {
		return false
	}
	p.inputs[id] = value
	return true
}

func (p *fakePage) SetPreview(id resume.PreviewID, content resume.Rendered) bool {
	if _, ok := p.previews[id]; !ok {
		return false
	}
	p.previews[id] = content
	return true
}

func (p *fakePage) SetStylesheet(href string) { p.stylesheet = href }

func (p *fakePage) SetThemeActive(t resume.Theme, active bool) bool {
	p.active[t] = active
	return true
}

func (p *fakePage) OnInput(id resume.InputID, fn func()) bool {
	if _, ok := p.inputs[id]; !ok {
		return false
	}
	p.inputListeners[id] = append(p.inputListeners[id], fn)
	return true
}

func (p *fakePage) OnPaste(id resume.InputID, fn func()) bool {
	if _, ok := p.inputs[id]; !ok {
		return false
	}
	p.pasteListeners[id] = append(p.pasteListeners[id], fn)
	return true
}

func (p *fakePage) OnClick(c Control, fn func()) bool {
	p.clickListeners[c] = append(p.clickListeners[c], fn)
	return true
}

func (p *fakePage) OnTeardown(fn func()) { p.teardown = append(p.teardown, fn) }

// typeInto simulates the user editing an input.
func (p *fakePage) typeInto(id resume.InputID, value string) {
	p.inputs[id] = value
	for _, fn := range p.inputListeners[id] {
		fn()
	}
}

func (p *fakePage) click(c Control) {
	for _, fn := range p.clickListeners[c] {
		fn()
	}
}

type mapStore struct {
	data   map[string]string
	writes int
	getErr error
}

func newMapStore() *mapStore { return &mapStore{data: map[string]string{}} }

func (s *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *mapStore) Set(_ context.Context, key, value string) error {
	s.writes++
	s.data[key] = value
	return nil
}

func (s *mapStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

type manualScheduler struct {
	pending []scheduled
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, scheduled{delay: d, fn: fn})
}

func (s *manualScheduler) runAll() {
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		next.fn()
	}
}

type fixedAnswer struct {
	answer bool
	asked  int
}

func (c *fixedAnswer) Confirm(context.Context, string) (bool, error) {
	c.asked++
	return c.answer, nil
}

var errBroken = errors.New("broken store")
