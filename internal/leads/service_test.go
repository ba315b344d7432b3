package leads

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type memRepo struct {
	mu    sync.Mutex
	leads map[string]Lead
}

func newMemRepo() *memRepo {
	return &memRepo{leads: make(map[string]Lead)}
}

func (r *memRepo) Create(ctx context.Context, lead Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.ID] = lead
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]Lead, 0)
	for _, lead := range r.leads {
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && lead.Kind != filter.Kind {
			continue
		}
		items = append(items, lead)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *memRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, _ := r.List(ctx, filter, 0, 0)
	return int64(len(items)), nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return Lead{}, mongo.ErrNoDocuments
	}
	return lead, nil
}

func (r *memRepo) UpdateStatus(ctx context.Context, id string, status string, now time.Time) (Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return Lead{}, mongo.ErrNoDocuments
	}
	lead.Status = status
	lead.UpdatedAt = now
	r.leads[id] = lead
	return lead, nil
}

type fakeVerifier struct {
	err    error
	called int
}

func (v *fakeVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	v.called++
	return v.err
}

type recordingNotifier struct {
	notifications []Lead
	confirmations []Lead
}

func (n *recordingNotifier) SendLeadNotification(ctx context.Context, lead Lead) (string, error) {
	n.notifications = append(n.notifications, lead)
	return "msg-1", nil
}

func (n *recordingNotifier) SendLeadConfirmation(ctx context.Context, lead Lead) (string, error) {
	n.confirmations = append(n.confirmations, lead)
	return "msg-2", nil
}

func TestSubmitContactStoresLead(t *testing.T) {
	repo := newMemRepo()
	verifier := &fakeVerifier{}
	svc := NewService(repo, time.UTC, verifier, nil)

	lead, err := svc.SubmitContact(context.Background(), ContactRequest{
		Name:      "Anna Berger",
		Email:     "anna@example.com",
		Message:   "Wir brauchen einen Imagefilm.",
		SpamToken: "tok",
	}, "203.0.113.7")
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	if verifier.called != 1 {
		t.Fatalf("verifier called %d times", verifier.called)
	}
	if lead.Kind != KindContact || lead.Status != StatusNew {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if len(repo.leads) != 1 {
		t.Fatalf("lead not stored, got %d", len(repo.leads))
	}
}

func TestSubmitContactSpamFailureStoresNothing(t *testing.T) {
	repo := newMemRepo()
	verifier := &fakeVerifier{err: errors.New("rejected")}
	notifier := &recordingNotifier{}
	svc := NewService(repo, time.UTC, verifier, notifier)

	_, err := svc.SubmitContact(context.Background(), ContactRequest{
		Name:    "Bot",
		Email:   "bot@example.com",
		Message: "spam",
	}, "")
	if !errors.Is(err, ErrSpamRejected) {
		t.Fatalf("expected ErrSpamRejected, got %v", err)
	}
	if len(repo.leads) != 0 {
		t.Fatal("rejected submission reached the store")
	}
	if len(notifier.notifications) != 0 || len(notifier.confirmations) != 0 {
		t.Fatal("rejected submission triggered email")
	}
}

func TestSubmitWithoutVerifier(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, time.UTC, nil, nil)

	_, err := svc.SubmitIdeenCheck(context.Background(), IdeenCheckRequest{
		Name:        "Clara Vogt",
		Email:       "clara@example.com",
		ProjectType: "recruiting",
		Description: "Zwei Recruiting-Videos für unsere Standorte.",
	}, "")
	if err != nil {
		t.Fatalf("SubmitIdeenCheck without verifier: %v", err)
	}
	if len(repo.leads) != 1 {
		t.Fatal("lead not stored")
	}
}

func TestSubmitIdeenCheckFields(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, time.UTC, nil, nil)

	lead, err := svc.SubmitIdeenCheck(context.Background(), IdeenCheckRequest{
		Name:        "Deniz Kaya",
		Email:       "deniz@example.com",
		ProjectType: "imagefilm",
		Budget:      "10-20k",
		Timeline:    "Q4 2026",
		Description: "Neuer Imagefilm zum Markenrelaunch.",
	}, "")
	if err != nil {
		t.Fatalf("SubmitIdeenCheck: %v", err)
	}
	if lead.Kind != KindIdeenCheck {
		t.Fatalf("unexpected kind %q", lead.Kind)
	}
	if lead.ProjectType != "imagefilm" || lead.Budget != "10-20k" || lead.Timeline != "Q4 2026" {
		t.Fatalf("ideen-check fields lost: %+v", lead)
	}
	if lead.Message != "Neuer Imagefilm zum Markenrelaunch." {
		t.Fatalf("description not mapped to message: %q", lead.Message)
	}
}

func TestNotifyWithoutNotifierIsNoop(t *testing.T) {
	svc := NewService(newMemRepo(), time.UTC, nil, nil)

	lead := Lead{ID: "x", Email: "a@b.de"}
	if err := svc.NotifyNewLead(context.Background(), lead); err != nil {
		t.Fatalf("NotifyNewLead without notifier: %v", err)
	}
	if err := svc.NotifyLeadConfirmation(context.Background(), lead); err != nil {
		t.Fatalf("NotifyLeadConfirmation without notifier: %v", err)
	}
}

func TestNotifySkipsConfirmationWithoutEmail(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newMemRepo(), time.UTC, nil, notifier)

	if err := svc.NotifyLeadConfirmation(context.Background(), Lead{ID: "x"}); err != nil {
		t.Fatalf("NotifyLeadConfirmation: %v", err)
	}
	if len(notifier.confirmations) != 0 {
		t.Fatal("confirmation sent without recipient address")
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, time.UTC, nil, nil)
	ctx := context.Background()

	lead, _ := svc.SubmitContact(ctx, ContactRequest{Name: "Eva", Email: "eva@example.com", Message: "Hallo"}, "")

	updated, err := svc.UpdateStatus(ctx, lead.ID, "contacted")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusContacted {
		t.Fatalf("status not updated: %q", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, lead.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "missing", "closed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAdminFilters(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, time.UTC, nil, nil)
	ctx := context.Background()

	svc.SubmitContact(ctx, ContactRequest{Name: "A", Email: "a@example.com", Message: "x"}, "")
	svc.SubmitIdeenCheck(ctx, IdeenCheckRequest{Name: "B", Email: "b@example.com", Description: "y"}, "")

	items, total, err := svc.ListAdmin(ctx, ListFilter{Kind: KindIdeenCheck}, 20, 0)
	if err != nil {
		t.Fatalf("ListAdmin: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Kind != KindIdeenCheck {
		t.Fatalf("kind filter failed: total=%d items=%+v", total, items)
	}

	if _, _, err := svc.ListAdmin(ctx, ListFilter{Status: "weird"}, 20, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
