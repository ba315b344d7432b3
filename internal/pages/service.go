package pages

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/cache"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/content"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/htmlentity"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("page not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
	ErrNoFields    = errors.New("no fields to update")
)

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
}

func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		location: location,
	}
}

// Create inserts the page and upserts any nested sections. Section content
// is shape-checked against the registry and entity-decoded before storage,
// the same normalization the section gateway applies.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Page, []PageSection, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Page{}, nil, ErrInvalidSlug
	}

	if err := validateSections(req.Sections); err != nil {
		return Page{}, nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	now := time.Now().In(s.location)
	page := Page{
		ID:          primitive.NewObjectID().Hex(),
		Slug:        slug,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		IsActive:    isActive,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, page); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Page{}, nil, ErrSlugExists
		}
		return Page{}, nil, err
	}

	saved, err := s.upsertSections(ctx, page.ID, req.Sections, now)
	if err != nil {
		return Page{}, nil, err
	}
	return page, saved, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Page, error) {
	id = strings.TrimSpace(id)

	if err := validateSections(req.Sections); err != nil {
		return Page{}, err
	}

	set := bson.M{}
	if req.Slug != nil {
		slug := utils.Slugify(*req.Slug)
		if slug == "" {
			return Page{}, ErrInvalidSlug
		}
		set["slug"] = slug
	}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		set["sort_order"] = *req.SortOrder
	}
	if len(set) == 0 && len(req.Sections) == 0 {
		return Page{}, ErrNoFields
	}

	now := time.Now().In(s.location)
	set["updated_at"] = now

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Page{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Page{}, ErrSlugExists
		}
		return Page{}, err
	}

	if _, err := s.upsertSections(ctx, updated.ID, req.Sections, now); err != nil {
		return Page{}, err
	}

	// a renamed slug leaves the old entry behind; it expires with the TTL
	_ = s.cache.Delete(ctx, sectionsCacheKey(updated.Slug))
	return updated, nil
}

// Delete removes the page and every section row attached to it.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)

	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	if err := s.repo.DeleteSectionsByPage(ctx, id); err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, sectionsCacheKey(page.Slug))
	return nil
}

func (s *Service) List(ctx context.Context) ([]Page, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetWithSections(ctx context.Context, id string) (Page, []PageSection, error) {
	page, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Page{}, nil, ErrNotFound
		}
		return Page{}, nil, err
	}

	items, err := s.repo.ListSections(ctx, page.ID)
	if err != nil {
		return Page{}, nil, err
	}
	return page, decodeAll(items), nil
}

// cachedSections is the cache entry for one page's public section list. The
// full list is cached per slug; the optional key filter applies after the
// cache read, so one entry serves every filter.
type cachedSections struct {
	Page     Page          `json:"page"`
	Sections []PageSection `json:"sections"`
}

func sectionsCacheKey(slug string) string {
	return "pages:sections:" + slug
}

// PublicSections serves the public read path, cache-aside over the full
// section list. Inactive and unknown pages are both reported as not found and
// never cached; section content leaves the store entity-decoded and in
// canonical map/slice shape. An optional key narrows the result to one
// section.
func (s *Service) PublicSections(ctx context.Context, slug, sectionKey string) (Page, []PageSection, error) {
	slug = strings.TrimSpace(slug)

	if raw, hit, err := s.cache.Get(ctx, sectionsCacheKey(slug)); err == nil && hit {
		var entry cachedSections
		if err := json.Unmarshal(raw, &entry); err == nil {
			return entry.Page, filterSections(entry.Sections, sectionKey), nil
		}
	}

	page, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Page{}, nil, ErrNotFound
		}
		return Page{}, nil, err
	}
	if !page.IsActive {
		return Page{}, nil, ErrNotFound
	}

	items, err := s.repo.ListSections(ctx, page.ID)
	if err != nil {
		return Page{}, nil, err
	}
	items = decodeAll(items)

	if raw, err := json.Marshal(cachedSections{Page: page, Sections: items}); err == nil {
		_ = s.cache.Set(ctx, sectionsCacheKey(slug), raw, s.cacheTTL)
	}

	return page, filterSections(items, sectionKey), nil
}

func filterSections(items []PageSection, sectionKey string) []PageSection {
	if sectionKey == "" {
		return items
	}
	filtered := make([]PageSection, 0, 1)
	for _, item := range items {
		if item.SectionKey == sectionKey {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (s *Service) upsertSections(ctx context.Context, pageID string, inputs []SectionInput, now time.Time) ([]PageSection, error) {
	saved := make([]PageSection, 0, len(inputs))
	for i, input := range inputs {
		orderIndex := i
		if input.OrderIndex != nil {
			orderIndex = *input.OrderIndex
		}

		section := PageSection{
			ID:         primitive.NewObjectID().Hex(),
			PageID:     pageID,
			SectionKey: input.SectionKey,
			Content:    htmlentity.DecodeDocument(content.Plain(input.Content)).(sections.Document),
			OrderIndex: orderIndex,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.UpsertSection(ctx, section); err != nil {
			return nil, err
		}
		saved = append(saved, section)
	}
	return saved, nil
}

func validateSections(inputs []SectionInput) error {
	for _, input := range inputs {
		if !sections.Known(input.SectionKey) {
			return sections.ErrUnknownKey
		}
		if err := sections.Validate(input.SectionKey, input.Content); err != nil {
			return err
		}
	}
	return nil
}

func decodeAll(items []PageSection) []PageSection {
	for i := range items {
		items[i].Content = htmlentity.DecodeDocument(content.Plain(items[i].Content)).(sections.Document)
	}
	return items
}

func normalizeSlug(slug, title string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(title)
	}
	return utils.Slugify(raw)
}
