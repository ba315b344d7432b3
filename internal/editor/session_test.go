package editor

import (
	"context"
	"errors"
	"testing"
)

func TestSessionStartsViewing(t *testing.T) {
	s := NewSession("home")
	if s.State().Mode != ModeViewing {
		t.Fatalf("expected viewing, got %v", s.State().Mode)
	}
	if s.PageSlug() != "home" {
		t.Fatalf("unexpected page slug %q", s.PageSlug())
	}
}

func TestOpenSectionRequiresEditMode(t *testing.T) {
	s := NewSession("home")
	if err := s.OpenSection("faq"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
}

func TestSingleOpenSection(t *testing.T) {
	s := NewSession("home")
	s.Enter()
	if s.State().Mode != ModeEditingIdle {
		t.Fatalf("expected editing-idle after Enter, got %v", s.State().Mode)
	}

	if err := s.OpenSection("faq"); err != nil {
		t.Fatalf("OpenSection(faq): %v", err)
	}
	if err := s.OpenSection("hero"); err != nil {
		t.Fatalf("OpenSection(hero): %v", err)
	}

	st := s.State()
	if st.Mode != ModeEditingSection || st.Section != "hero" {
		t.Fatalf("expected exactly hero open, got %+v", st)
	}
}

func TestCloseSectionReturnsToIdle(t *testing.T) {
	s := NewSession("home")
	s.Enter()
	_ = s.OpenSection("hero")
	s.CloseSection()

	st := s.State()
	if st.Mode != ModeEditingIdle || st.Section != "" {
		t.Fatalf("expected editing-idle with no section, got %+v", st)
	}
}

func TestExitClearsFromAnyState(t *testing.T) {
	s := NewSession("home")
	s.Enter()
	_ = s.OpenSection("faq")
	_ = s.RegisterPendingSave("faq", func(ctx context.Context) error { return nil })

	s.Exit()
	st := s.State()
	if st.Mode != ModeViewing || st.Section != "" {
		t.Fatalf("expected viewing with no section, got %+v", st)
	}

	// pending registry must be gone too
	report := s.SaveAll(context.Background())
	if len(report.Results) != 0 {
		t.Fatalf("expected no pending saves after Exit, got %d", len(report.Results))
	}
}

func TestEnterTwiceKeepsOpenSection(t *testing.T) {
	s := NewSession("home")
	s.Enter()
	_ = s.OpenSection("hero")
	s.Enter()
	if st := s.State(); st.Mode != ModeEditingSection || st.Section != "hero" {
		t.Fatalf("second Enter changed state: %+v", st)
	}
}

func TestSaveAllAggregatesPartialFailure(t *testing.T) {
	s := NewSession("home")
	s.Enter()

	var heroSaved, footerSaved bool
	boom := errors.New("upsert failed")

	_ = s.RegisterPendingSave("hero", func(ctx context.Context) error {
		heroSaved = true
		return nil
	})
	_ = s.RegisterPendingSave("faq", func(ctx context.Context) error {
		return boom
	})
	_ = s.RegisterPendingSave("footer", func(ctx context.Context) error {
		footerSaved = true
		return nil
	})

	report := s.SaveAll(context.Background())

	if !heroSaved || !footerSaved {
		t.Fatal("a failing section stopped later saves")
	}
	if report.OK() {
		t.Fatal("report claims success despite failure")
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0] != "faq" {
		t.Fatalf("expected only faq to fail, got %v", failed)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	if report.Results[0].Section != "hero" || report.Results[2].Section != "footer" {
		t.Fatalf("results not in registration order: %+v", report.Results)
	}
}

func TestSaveAllClearsRegistry(t *testing.T) {
	s := NewSession("home")
	s.Enter()
	_ = s.RegisterPendingSave("hero", func(ctx context.Context) error { return nil })

	_ = s.SaveAll(context.Background())
	report := s.SaveAll(context.Background())
	if len(report.Results) != 0 {
		t.Fatalf("registry not cleared: %d results", len(report.Results))
	}
}

func TestRegisterPendingSaveRules(t *testing.T) {
	s := NewSession("home")
	if err := s.RegisterPendingSave("hero", nil); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}

	s.Enter()
	if err := s.RegisterPendingSave("", nil); !errors.Is(err, ErrEmptySection) {
		t.Fatalf("expected ErrEmptySection, got %v", err)
	}
	if err := s.RegisterPendingSave("hero", nil); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := s.RegisterPendingSave("hero", nil); !errors.Is(err, ErrDuplicateSave) {
		t.Fatalf("expected ErrDuplicateSave, got %v", err)
	}
}
