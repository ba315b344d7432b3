// Package editor tracks the state of one in-place editing session: whether
// the viewer is in edit mode, which single section is open, and which saves
// are pending. A Session belongs to one admin tab; it is not safe for
// concurrent use and holds no server-side state.
package editor

import (
	"context"
	"errors"
	"fmt"
)

type Mode int

const (
	ModeViewing Mode = iota
	ModeEditingIdle
	ModeEditingSection
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeEditingIdle:
		return "editing-idle"
	case ModeEditingSection:
		return "editing-section"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// State is a tagged union: Section is set only when Mode is
// ModeEditingSection.
type State struct {
	Mode    Mode
	Section string
}

var (
	ErrNotEditing    = errors.New("not in edit mode")
	ErrEmptySection  = errors.New("empty section key")
	ErrDuplicateSave = errors.New("save already registered for section")
)

// SaveFunc persists one section's pending changes.
type SaveFunc func(ctx context.Context) error

type Session struct {
	pageSlug string
	state    State
	pending  map[string]SaveFunc
	order    []string
}

func NewSession(pageSlug string) *Session {
	return &Session{
		pageSlug: pageSlug,
		state:    State{Mode: ModeViewing},
		pending:  make(map[string]SaveFunc),
	}
}

func (s *Session) PageSlug() string {
	return s.pageSlug
}

func (s *Session) State() State {
	return s.state
}

// Enter switches from viewing to edit mode. Entering while already editing
// is a no-op and keeps the open section.
func (s *Session) Enter() {
	if s.state.Mode == ModeViewing {
		s.state = State{Mode: ModeEditingIdle}
	}
}

// OpenSection opens key's editor, closing any other open section. At most
// one section is open at a time.
func (s *Session) OpenSection(key string) error {
	if s.state.Mode == ModeViewing {
		return ErrNotEditing
	}
	if key == "" {
		return ErrEmptySection
	}
	s.state = State{Mode: ModeEditingSection, Section: key}
	return nil
}

// CloseSection closes the open section editor without leaving edit mode.
func (s *Session) CloseSection() {
	if s.state.Mode == ModeEditingSection {
		s.state = State{Mode: ModeEditingIdle}
	}
}

// Exit leaves edit mode from any state, clearing the open section and every
// registered pending save.
func (s *Session) Exit() {
	s.state = State{Mode: ModeViewing}
	s.pending = make(map[string]SaveFunc)
	s.order = nil
}

// RegisterPendingSave records fn to run when SaveAll fires. One registration
// per section; editors re-register after each SaveAll.
func (s *Session) RegisterPendingSave(key string, fn SaveFunc) error {
	if s.state.Mode == ModeViewing {
		return ErrNotEditing
	}
	if key == "" {
		return ErrEmptySection
	}
	if _, exists := s.pending[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSave, key)
	}
	s.pending[key] = fn
	s.order = append(s.order, key)
	return nil
}

type SectionResult struct {
	Section string
	Err     error
}

// SaveReport aggregates the outcome of one SaveAll across all registered
// sections, so a partial failure is visible instead of silent.
type SaveReport struct {
	Results []SectionResult
}

func (r SaveReport) OK() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

func (r SaveReport) Failed() []string {
	var failed []string
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res.Section)
		}
	}
	return failed
}

// SaveAll runs every registered save in registration order. A failing
// section does not stop the others; each result lands in the report. The
// registry is cleared afterwards regardless of outcome.
func (s *Session) SaveAll(ctx context.Context) SaveReport {
	report := SaveReport{Results: make([]SectionResult, 0, len(s.order))}
	for _, key := range s.order {
		fn := s.pending[key]
		var err error
		if fn != nil {
			err = fn(ctx)
		}
		report.Results = append(report.Results, SectionResult{Section: key, Err: err})
	}
	s.pending = make(map[string]SaveFunc)
	s.order = nil
	return report
}
