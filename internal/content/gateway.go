package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/cache"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/htmlentity"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"
)

// Notifier is told about every successful section save, so mounted section
// views can re-fetch fresh content.
type Notifier interface {
	SectionSaved(pageSlug, sectionKey string)
}

// Gateway is the single path between section editors/views and section
// storage. It owns the store routing, the shape check, entity decoding and
// the cache above the database.
type Gateway struct {
	resolver Resolver
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
	notifier Notifier
	log      *slog.Logger
}

func NewGateway(resolver Resolver, c cache.Cache, cacheTTL time.Duration, location *time.Location, notifier Notifier, log *slog.Logger) *Gateway {
	return &Gateway{
		resolver: resolver,
		cache:    c,
		cacheTTL: cacheTTL,
		location: location,
		notifier: notifier,
		log:      log,
	}
}

func cacheKey(pageSlug, sectionKey string) string {
	if pageSlug == "" {
		pageSlug = HomeSlug
	}
	return "sections:" + pageSlug + ":" + sectionKey
}

// Get returns the content document for a section. The second return value
// reports whether stored content was found; when it is false the document is
// the registry default, so the page always has something to render. A
// non-nil error alongside the default marks a genuine backend failure, which
// the editor surfaces while a plain "never saved" does not.
func (g *Gateway) Get(ctx context.Context, sectionKey, pageSlug string) (sections.Document, bool, error) {
	if !sections.Known(sectionKey) {
		return nil, false, fmt.Errorf("%w: %q", sections.ErrUnknownKey, sectionKey)
	}

	key := cacheKey(pageSlug, sectionKey)
	if raw, hit, err := g.cache.Get(ctx, key); err == nil && hit {
		var doc sections.Document
		if err := json.Unmarshal(raw, &doc); err == nil {
			return doc, true, nil
		}
	}

	store := g.resolver.For(pageSlug)
	doc, err := store.Get(ctx, sectionKey)
	if err != nil {
		def, _ := sections.Default(sectionKey)
		if errors.Is(err, ErrNotFound) {
			return def, false, nil
		}
		return def, false, err
	}

	doc = htmlentity.DecodeDocument(Plain(doc)).(sections.Document)

	if raw, err := json.Marshal(doc); err == nil {
		if err := g.cache.Set(ctx, key, raw, g.cacheTTL); err != nil {
			g.log.Warn("section cache set failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return doc, true, nil
}

// Save validates the document against the section's registered shape,
// decodes entity-encoded strings before storage and upserts on the natural
// key, so the same section never produces duplicate rows. On success the
// cache entry is dropped and the notifier fires.
func (g *Gateway) Save(ctx context.Context, sectionKey string, doc sections.Document, pageSlug string) error {
	if !sections.Known(sectionKey) {
		return fmt.Errorf("%w: %q", sections.ErrUnknownKey, sectionKey)
	}
	if err := sections.Validate(sectionKey, doc); err != nil {
		return err
	}

	doc = htmlentity.DecodeDocument(Plain(doc)).(sections.Document)

	store := g.resolver.For(pageSlug)
	if err := store.Upsert(ctx, sectionKey, doc, time.Now().In(g.location)); err != nil {
		return err
	}

	if err := g.cache.Delete(ctx, cacheKey(pageSlug, sectionKey)); err != nil {
		g.log.Warn("section cache invalidation failed",
			slog.String("section", sectionKey),
			slog.String("error", err.Error()),
		)
	}

	if g.notifier != nil {
		g.notifier.SectionSaved(pageSlug, sectionKey)
	}
	return nil
}

// Broadcaster fans a saved-section notification out to every subscriber.
// Handlers run synchronously on the saving goroutine.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []func(pageSlug, sectionKey string)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

func (b *Broadcaster) Subscribe(fn func(pageSlug, sectionKey string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Broadcaster) SectionSaved(pageSlug, sectionKey string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.subs {
		fn(pageSlug, sectionKey)
	}
}
