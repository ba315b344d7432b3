package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/cache"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"
)

type fakeStore struct {
	docs    map[string]sections.Document
	getErr  error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]sections.Document)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (sections.Document, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	doc, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *fakeStore) Upsert(ctx context.Context, key string, doc sections.Document, now time.Time) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.docs[key] = doc
	return nil
}

type fakeResolver struct {
	home  *fakeStore
	pages map[string]*fakeStore
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{home: newFakeStore(), pages: make(map[string]*fakeStore)}
}

func (r *fakeResolver) For(pageSlug string) Store {
	if pageSlug == "" || pageSlug == HomeSlug {
		return r.home
	}
	store, ok := r.pages[pageSlug]
	if !ok {
		store = newFakeStore()
		r.pages[pageSlug] = store
	}
	return store
}

type recordingNotifier struct {
	events [][2]string
}

func (n *recordingNotifier) SectionSaved(pageSlug, sectionKey string) {
	n.events = append(n.events, [2]string{pageSlug, sectionKey})
}

func newTestGateway(t *testing.T) (*Gateway, *fakeResolver, *recordingNotifier) {
	t.Helper()
	resolver := newFakeResolver()
	notifier := &recordingNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := NewGateway(resolver, cache.NewNoop(), time.Minute, time.UTC, notifier, log)
	return gw, resolver, notifier
}

func TestGetNeverSavedReturnsDefault(t *testing.T) {
	gw, _, _ := newTestGateway(t)
	ctx := context.Background()

	for _, key := range sections.Keys() {
		doc, found, err := gw.Get(ctx, key, HomeSlug)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		if found {
			t.Fatalf("Get(%q) claims stored content on empty store", key)
		}
		want, _ := sections.Default(key)
		if !reflect.DeepEqual(doc, want) {
			t.Fatalf("Get(%q) default mismatch:\n got %v\nwant %v", key, doc, want)
		}
	}
}

func TestGetUnknownKey(t *testing.T) {
	gw, _, _ := newTestGateway(t)
	_, _, err := gw.Get(context.Background(), "sidebar", HomeSlug)
	if !errors.Is(err, sections.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestSaveGetRoundTripHome(t *testing.T) {
	gw, _, _ := newTestGateway(t)
	ctx := context.Background()

	saved := sections.Document{
		"title":     "Showreel 2026",
		"subtitle":  "Unsere besten Projekte",
		"video_url": "https://cdn.example.com/reel.mp4",
		"cta_label": "Ansehen",
		"cta_href":  "/cases",
	}
	if err := gw.Save(ctx, sections.KeyHero, saved, HomeSlug); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := gw.Get(ctx, sections.KeyHero, HomeSlug)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("saved content reported as not found")
	}
	if !reflect.DeepEqual(got, saved) {
		t.Fatalf("round trip mismatch:\n got %v\nwant %v", got, saved)
	}
}

func TestSaveGetRoundTripPagePath(t *testing.T) {
	gw, resolver, _ := newTestGateway(t)
	ctx := context.Background()

	saved := sections.Document{"title": "Über uns", "body": "Seit 2015 drehen wir Filme."}
	if err := gw.Save(ctx, sections.KeyAbout, saved, "ueber-uns"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// routed to the page store, not the home singleton
	if len(resolver.home.docs) != 0 {
		t.Fatal("page save leaked into home store")
	}
	if _, ok := resolver.pages["ueber-uns"].docs[sections.KeyAbout]; !ok {
		t.Fatal("page store did not receive the save")
	}

	got, found, err := gw.Get(ctx, sections.KeyAbout, "ueber-uns")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(got, saved) {
		t.Fatalf("round trip mismatch:\n got %v\nwant %v", got, saved)
	}
}

func TestHomeRoutingPolicy(t *testing.T) {
	gw, resolver, _ := newTestGateway(t)
	ctx := context.Background()

	doc := sections.Document{"title": "Start"}
	if err := gw.Save(ctx, sections.KeyHero, doc, "home"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := gw.Save(ctx, sections.KeyHero, doc, ""); err != nil {
		t.Fatalf("Save with empty slug: %v", err)
	}
	if len(resolver.home.docs) != 1 {
		t.Fatalf("expected single home row, got %d", len(resolver.home.docs))
	}
	if len(resolver.pages) != 0 {
		t.Fatal("home save created a page store")
	}
}

func TestSaveRejectsBadShape(t *testing.T) {
	gw, resolver, notifier := newTestGateway(t)

	err := gw.Save(context.Background(), sections.KeyFAQ, sections.Document{"items": "nope"}, HomeSlug)
	var shapeErr *sections.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if len(resolver.home.docs) != 0 {
		t.Fatal("invalid document reached the store")
	}
	if len(notifier.events) != 0 {
		t.Fatal("notifier fired for rejected save")
	}
}

func TestSaveDecodesEntitiesBeforeStorage(t *testing.T) {
	gw, resolver, _ := newTestGateway(t)

	doc := sections.Document{"title": "Ton &amp; Schnitt &ndash; Studio"}
	if err := gw.Save(context.Background(), sections.KeyHero, doc, HomeSlug); err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored := resolver.home.docs[sections.KeyHero]
	if stored["title"] != "Ton & Schnitt – Studio" {
		t.Fatalf("entities not decoded before storage: %v", stored["title"])
	}
}

func TestSaveNotifies(t *testing.T) {
	gw, _, notifier := newTestGateway(t)

	if err := gw.Save(context.Background(), sections.KeyHero, sections.Document{"title": "x"}, HomeSlug); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.events))
	}
	if notifier.events[0] != [2]string{HomeSlug, sections.KeyHero} {
		t.Fatalf("unexpected notification %v", notifier.events[0])
	}
}

func TestGetBackendErrorFallsBackToDefaultWithError(t *testing.T) {
	gw, resolver, _ := newTestGateway(t)
	boom := errors.New("connection reset")
	resolver.home.getErr = boom

	doc, found, err := gw.Get(context.Background(), sections.KeyHero, HomeSlug)
	if !errors.Is(err, boom) {
		t.Fatalf("expected backend error surfaced, got %v", err)
	}
	if found {
		t.Fatal("backend error reported as found")
	}
	want, _ := sections.Default(sections.KeyHero)
	if !reflect.DeepEqual(doc, want) {
		t.Fatal("backend error did not fall back to default document")
	}
}

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster()
	var first, second [][2]string
	b.Subscribe(func(slug, key string) { first = append(first, [2]string{slug, key}) })
	b.Subscribe(func(slug, key string) { second = append(second, [2]string{slug, key}) })

	b.SectionSaved("home", "hero")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected both subscribers notified, got %d and %d", len(first), len(second))
	}
}
