package pages

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, page Page) error
	GetByID(ctx context.Context, id string) (Page, error)
	GetBySlug(ctx context.Context, slug string) (Page, error)
	Update(ctx context.Context, id string, set bson.M) (Page, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Page, error)

	UpsertSection(ctx context.Context, section PageSection) error
	ListSections(ctx context.Context, pageID string) ([]PageSection, error)
	DeleteSectionsByPage(ctx context.Context, pageID string) error
}

type MongoRepository struct {
	pages    *mongo.Collection
	sections *mongo.Collection
}

func NewRepository(pages, sections *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		pages:    pages,
		sections: sections,
	}
}

func (r *MongoRepository) Create(ctx context.Context, page Page) error {
	_, err := r.pages.InsertOne(ctx, page)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Page, error) {
	var page Page
	if err := r.pages.FindOne(ctx, bson.M{"_id": id}).Decode(&page); err != nil {
		return Page{}, err
	}
	return page, nil
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (Page, error) {
	var page Page
	if err := r.pages.FindOne(ctx, bson.M{"slug": slug}).Decode(&page); err != nil {
		return Page{}, err
	}
	return page, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Page, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Page
	if err := r.pages.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Page{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.pages.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Page, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "created_at", Value: 1},
		})

	cursor, err := r.pages.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Page, 0)
	for cursor.Next(ctx) {
		var page Page
		if err := cursor.Decode(&page); err != nil {
			return nil, err
		}
		items = append(items, page)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertSection keys on (page_id, section_key); content and order are
// overwritten, identity fields only set on insert.
func (r *MongoRepository) UpsertSection(ctx context.Context, section PageSection) error {
	filter := bson.M{"page_id": section.PageID, "section_key": section.SectionKey}
	update := bson.M{
		"$set": bson.M{
			"content":     section.Content,
			"order_index": section.OrderIndex,
			"updated_at":  section.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        section.ID,
			"created_at": section.CreatedAt,
		},
	}
	_, err := r.sections.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoRepository) ListSections(ctx context.Context, pageID string) ([]PageSection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.sections.Find(ctx, bson.M{"page_id": pageID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]PageSection, 0)
	for cursor.Next(ctx) {
		var section PageSection
		if err := cursor.Decode(&section); err != nil {
			return nil, err
		}
		items = append(items, section)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) DeleteSectionsByPage(ctx context.Context, pageID string) error {
	_, err := r.sections.DeleteMany(ctx, bson.M{"page_id": pageID})
	return err
}
