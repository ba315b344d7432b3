package pages

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/cache"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type memRepo struct {
	mu           sync.Mutex
	pages        map[string]Page
	pageSections map[string]PageSection
}

func newMemRepo() *memRepo {
	return &memRepo{
		pages:        make(map[string]Page),
		pageSections: make(map[string]PageSection),
	}
}

func (r *memRepo) Create(ctx context.Context, page Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pages {
		if existing.Slug == page.Slug {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	r.pages[page.ID] = page
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page, ok := r.pages[id]
	if !ok {
		return Page{}, mongo.ErrNoDocuments
	}
	return page, nil
}

func (r *memRepo) GetBySlug(ctx context.Context, slug string) (Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, page := range r.pages {
		if page.Slug == slug {
			return page, nil
		}
	}
	return Page{}, mongo.ErrNoDocuments
}

func (r *memRepo) Update(ctx context.Context, id string, set bson.M) (Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page, ok := r.pages[id]
	if !ok {
		return Page{}, mongo.ErrNoDocuments
	}
	for key, value := range set {
		switch key {
		case "slug":
			page.Slug = value.(string)
		case "title":
			page.Title = value.(string)
		case "description":
			page.Description = value.(string)
		case "is_active":
			page.IsActive = value.(bool)
		case "sort_order":
			page.SortOrder = value.(int)
		case "updated_at":
			page.UpdatedAt = value.(time.Time)
		}
	}
	r.pages[id] = page
	return page, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[id]; !ok {
		return false, nil
	}
	delete(r.pages, id)
	return true, nil
}

func (r *memRepo) List(ctx context.Context) ([]Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]Page, 0, len(r.pages))
	for _, page := range r.pages {
		items = append(items, page)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	return items, nil
}

func (r *memRepo) UpsertSection(ctx context.Context, section PageSection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.pageSections {
		if existing.PageID == section.PageID && existing.SectionKey == section.SectionKey {
			existing.Content = section.Content
			existing.OrderIndex = section.OrderIndex
			existing.UpdatedAt = section.UpdatedAt
			r.pageSections[id] = existing
			return nil
		}
	}
	r.pageSections[section.ID] = section
	return nil
}

func (r *memRepo) ListSections(ctx context.Context, pageID string) ([]PageSection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]PageSection, 0)
	for _, section := range r.pageSections {
		if section.PageID == pageID {
			items = append(items, section)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })
	return items, nil
}

func (r *memRepo) DeleteSectionsByPage(ctx context.Context, pageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, section := range r.pageSections {
		if section.PageID == pageID {
			delete(r.pageSections, id)
		}
	}
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, cache.NewNoop(), time.Minute, time.UTC)
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return raw, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func TestCreateWithNestedSections(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	content := sections.Document{"title": "Über uns", "body": "Wir drehen Filme."}
	page, saved, err := svc.Create(ctx, CreateRequest{
		Title:    "Über uns",
		Sections: []SectionInput{{SectionKey: sections.KeyAbout, Content: content}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if page.Slug != "ueber-uns" {
		t.Fatalf("unexpected slug %q", page.Slug)
	}
	if len(saved) != 1 || saved[0].SectionKey != sections.KeyAbout {
		t.Fatalf("nested section not saved: %+v", saved)
	}

	_, got, err := svc.GetWithSections(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetWithSections: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0].Content, content) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCreateRejectsUnknownSectionKey(t *testing.T) {
	svc := newTestService(newMemRepo())

	_, _, err := svc.Create(context.Background(), CreateRequest{
		Title:    "Kontakt",
		Sections: []SectionInput{{SectionKey: "sidebar", Content: sections.Document{"x": "y"}}},
	})
	if !errors.Is(err, sections.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestCreateRejectsBadSectionShape(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	_, _, err := svc.Create(context.Background(), CreateRequest{
		Title:    "FAQ",
		Sections: []SectionInput{{SectionKey: sections.KeyFAQ, Content: sections.Document{"items": "not a list"}}},
	})
	var shapeErr *sections.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if len(repo.pages) != 0 {
		t.Fatal("page stored despite invalid section content")
	}
}

func TestUpdateUpsertsSection(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	page, _, err := svc.Create(ctx, CreateRequest{
		Title:    "Leistungen",
		Sections: []SectionInput{{SectionKey: sections.KeyTrust, Content: sections.Document{"title": "Alt", "logos": []interface{}{}}}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, page.ID, UpdateRequest{
		Sections: []SectionInput{{SectionKey: sections.KeyTrust, Content: sections.Document{"title": "Neu", "logos": []interface{}{}}}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(repo.pageSections) != 1 {
		t.Fatalf("upsert created a duplicate row, got %d", len(repo.pageSections))
	}
	_, got, _ := svc.GetWithSections(ctx, page.ID)
	if got[0].Content["title"] != "Neu" {
		t.Fatalf("section content not updated: %v", got[0].Content)
	}
}

func TestUpdateNoFields(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	page, _, _ := svc.Create(ctx, CreateRequest{Title: "Impressum"})
	if _, err := svc.Update(ctx, page.ID, UpdateRequest{}); !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestDeleteCascadesSections(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	page, _, _ := svc.Create(ctx, CreateRequest{
		Title:    "Karriere",
		Sections: []SectionInput{{SectionKey: sections.KeyAbout, Content: sections.Document{"title": "Jobs", "body": "x"}}},
	})
	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.pageSections) != 0 {
		t.Fatalf("sections survived page delete: %d", len(repo.pageSections))
	}
}

func TestPublicSectionsHidesInactivePage(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	inactive := false
	page, _, _ := svc.Create(ctx, CreateRequest{Title: "Entwurf", IsActive: &inactive})
	_, _, err := svc.PublicSections(ctx, page.Slug, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive page, got %v", err)
	}
}

func TestPublicSectionsDecodesEntities(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	page, _, err := svc.Create(ctx, CreateRequest{
		Title: "Studio",
		Sections: []SectionInput{{
			SectionKey: sections.KeyAbout,
			Content:    sections.Document{"title": "Ton &amp; Licht", "body": "&ndash;"},
		}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, got, err := svc.PublicSections(ctx, page.Slug, "")
	if err != nil {
		t.Fatalf("PublicSections: %v", err)
	}
	if got[0].Content["title"] != "Ton & Licht" || got[0].Content["body"] != "–" {
		t.Fatalf("entities not decoded: %v", got[0].Content)
	}
}

func TestPublicSectionsCacheAside(t *testing.T) {
	repo := newMemRepo()
	c := newMemCache()
	svc := NewService(repo, c, time.Minute, time.UTC)
	ctx := context.Background()

	page, _, err := svc.Create(ctx, CreateRequest{
		Title:    "Leistungen",
		Sections: []SectionInput{{SectionKey: sections.KeyAbout, Content: sections.Document{"title": "Film", "body": "x"}}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := svc.PublicSections(ctx, page.Slug, ""); err != nil {
		t.Fatalf("PublicSections: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("first read did not populate the cache, sets=%d", c.sets)
	}

	// mutate storage underneath; the second read must come from the cache
	for id := range repo.pageSections {
		section := repo.pageSections[id]
		section.Content = sections.Document{"title": "geändert", "body": "y"}
		repo.pageSections[id] = section
	}
	_, got, err := svc.PublicSections(ctx, page.Slug, "")
	if err != nil {
		t.Fatalf("PublicSections: %v", err)
	}
	if c.hits == 0 {
		t.Fatal("second read bypassed the cache")
	}
	if got[0].Content["title"] != "Film" {
		t.Fatalf("second read not served from cache: %v", got[0].Content)
	}

	// a write invalidates; the next read sees fresh storage
	if _, err := svc.Update(ctx, page.ID, UpdateRequest{
		Sections: []SectionInput{{SectionKey: sections.KeyAbout, Content: sections.Document{"title": "Neu", "body": "z"}}},
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	_, got, err = svc.PublicSections(ctx, page.Slug, "")
	if err != nil {
		t.Fatalf("PublicSections: %v", err)
	}
	if got[0].Content["title"] != "Neu" {
		t.Fatalf("update did not invalidate the cache: %v", got[0].Content)
	}
}

func TestPublicSectionsDeleteInvalidates(t *testing.T) {
	repo := newMemRepo()
	c := newMemCache()
	svc := NewService(repo, c, time.Minute, time.UTC)
	ctx := context.Background()

	page, _, _ := svc.Create(ctx, CreateRequest{
		Title:    "Archiv",
		Sections: []SectionInput{{SectionKey: sections.KeyAbout, Content: sections.Document{"title": "Alt", "body": "x"}}},
	})
	if _, _, err := svc.PublicSections(ctx, page.Slug, ""); err != nil {
		t.Fatalf("PublicSections: %v", err)
	}

	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := svc.PublicSections(ctx, page.Slug, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted page still served, err=%v", err)
	}
}

func TestPublicSectionsKeyFilter(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	page, _, _ := svc.Create(ctx, CreateRequest{
		Title: "Portfolio",
		Sections: []SectionInput{
			{SectionKey: sections.KeyAbout, Content: sections.Document{"title": "a", "body": "b"}},
			{SectionKey: sections.KeyTrust, Content: sections.Document{"title": "t", "logos": []interface{}{}}},
		},
	})

	_, got, err := svc.PublicSections(ctx, page.Slug, sections.KeyTrust)
	if err != nil {
		t.Fatalf("PublicSections: %v", err)
	}
	if len(got) != 1 || got[0].SectionKey != sections.KeyTrust {
		t.Fatalf("key filter failed: %+v", got)
	}
}
