package content

import (
	"context"
	"errors"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/db"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound     = errors.New("section content not found")
	ErrPageNotFound = errors.New("page not found")
)

// HomeSlug routes through the singleton page_content collection instead of
// the generic page + section pair.
const HomeSlug = "home"

// Store reads and writes the content document for one section key. The two
// implementations cover the home-singleton table and the generic
// page+section table; the gateway never branches on the slug again.
type Store interface {
	Get(ctx context.Context, sectionKey string) (sections.Document, error)
	Upsert(ctx context.Context, sectionKey string, doc sections.Document, now time.Time) error
}

// Resolver picks the store strategy for a page slug.
type Resolver interface {
	For(pageSlug string) Store
}

type mongoResolver struct {
	cols *db.Collections
}

func NewResolver(cols *db.Collections) Resolver {
	return &mongoResolver{cols: cols}
}

func (r *mongoResolver) For(pageSlug string) Store {
	if pageSlug == "" || pageSlug == HomeSlug {
		return &homeStore{col: r.cols.PageContent}
	}
	return &pageStore{
		pages:    r.cols.Pages,
		sections: r.cols.PageSections,
		slug:     pageSlug,
	}
}

type contentRow struct {
	Content sections.Document `bson:"content"`
}

// homeStore keys rows on page_section alone; one row per section key.
type homeStore struct {
	col *mongo.Collection
}

func (s *homeStore) Get(ctx context.Context, sectionKey string) (sections.Document, error) {
	var row contentRow
	err := s.col.FindOne(ctx, bson.M{"page_section": sectionKey}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.Content, nil
}

func (s *homeStore) Upsert(ctx context.Context, sectionKey string, doc sections.Document, now time.Time) error {
	filter := bson.M{"page_section": sectionKey}
	update := bson.M{
		"$set": bson.M{
			"content":    doc,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"created_at": now,
		},
	}
	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// pageStore resolves the page by slug, then keys on (page_id, section_key).
type pageStore struct {
	pages    *mongo.Collection
	sections *mongo.Collection
	slug     string
}

func (s *pageStore) pageID(ctx context.Context) (string, error) {
	var page struct {
		ID string `bson:"_id"`
	}
	err := s.pages.FindOne(ctx, bson.M{"slug": s.slug}).Decode(&page)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrPageNotFound
		}
		return "", err
	}
	return page.ID, nil
}

func (s *pageStore) Get(ctx context.Context, sectionKey string) (sections.Document, error) {
	pageID, err := s.pageID(ctx)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var row contentRow
	err = s.sections.FindOne(ctx, bson.M{"page_id": pageID, "section_key": sectionKey}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.Content, nil
}

func (s *pageStore) Upsert(ctx context.Context, sectionKey string, doc sections.Document, now time.Time) error {
	pageID, err := s.pageID(ctx)
	if err != nil {
		return err
	}

	filter := bson.M{"page_id": pageID, "section_key": sectionKey}
	update := bson.M{
		"$set": bson.M{
			"content":    doc,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID().Hex(),
			"order_index": 0,
			"created_at":  now,
		},
	}
	_, err = s.sections.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
