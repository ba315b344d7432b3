package cases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Case) error
	GetByID(ctx context.Context, id string) (Case, error)
	Update(ctx context.Context, id string, set bson.M) (Case, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListPublic(ctx context.Context, filter PublicListFilter) ([]Case, error)
	GetPublishedBySlug(ctx context.Context, slug string) (Case, error)
	ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Case, error)
	CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error)
	SetCaseOrder(ctx context.Context, id string, order int) (bool, error)

	InsertImage(ctx context.Context, image CaseImage) error
	ListImages(ctx context.Context, caseID string) ([]CaseImage, error)
	DeleteImage(ctx context.Context, caseID, imageID string) (bool, error)
	DeleteImagesByCase(ctx context.Context, caseID string) error
	SetImageOrder(ctx context.Context, caseID, imageID string, order int) (bool, error)

	InsertVideo(ctx context.Context, video CaseVideo) error
	ListVideos(ctx context.Context, caseID string) ([]CaseVideo, error)
	UpdateVideo(ctx context.Context, caseID, videoID string, set bson.M) (CaseVideo, error)
	DeleteVideo(ctx context.Context, caseID, videoID string) (bool, error)
	DeleteVideosByCase(ctx context.Context, caseID string) error
}

type MongoRepository struct {
	cases  *mongo.Collection
	images *mongo.Collection
	videos *mongo.Collection
}

func NewRepository(cases, images, videos *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		cases:  cases,
		images: images,
		videos: videos,
	}
}

func (r *MongoRepository) Create(ctx context.Context, item Case) error {
	_, err := r.cases.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Case, error) {
	var item Case
	if err := r.cases.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Case{}, err
	}
	return item, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Case, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}

	var updated Case
	if err := r.cases.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Case{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.cases.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListPublic(ctx context.Context, filter PublicListFilter) ([]Case, error) {
	query := bson.M{"is_published": true}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "created_at", Value: -1},
		})

	return r.findCases(ctx, query, opts)
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, slug string) (Case, error) {
	var item Case
	if err := r.cases.FindOne(ctx, bson.M{"slug": slug, "is_published": true}).Decode(&item); err != nil {
		return Case{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Case, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "created_at", Value: -1},
		}).
		SetLimit(limit).
		SetSkip(offset)

	return r.findCases(ctx, query, opts)
}

func (r *MongoRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	return r.cases.CountDocuments(ctx, query)
}

func (r *MongoRepository) SetCaseOrder(ctx context.Context, id string, order int) (bool, error) {
	res, err := r.cases.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"sort_order": order}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) findCases(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Case, error) {
	cursor, err := r.cases.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Case, 0)
	for cursor.Next(ctx) {
		var item Case
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) InsertImage(ctx context.Context, image CaseImage) error {
	_, err := r.images.InsertOne(ctx, image)
	return err
}

func (r *MongoRepository) ListImages(ctx context.Context, caseID string) ([]CaseImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.images.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]CaseImage, 0)
	for cursor.Next(ctx) {
		var item CaseImage
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) DeleteImage(ctx context.Context, caseID, imageID string) (bool, error) {
	res, err := r.images.DeleteOne(ctx, bson.M{"_id": imageID, "case_id": caseID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) DeleteImagesByCase(ctx context.Context, caseID string) error {
	_, err := r.images.DeleteMany(ctx, bson.M{"case_id": caseID})
	return err
}

func (r *MongoRepository) SetImageOrder(ctx context.Context, caseID, imageID string, order int) (bool, error) {
	res, err := r.images.UpdateOne(ctx,
		bson.M{"_id": imageID, "case_id": caseID},
		bson.M{"$set": bson.M{"order_index": order}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) InsertVideo(ctx context.Context, video CaseVideo) error {
	_, err := r.videos.InsertOne(ctx, video)
	return err
}

func (r *MongoRepository) ListVideos(ctx context.Context, caseID string) ([]CaseVideo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.videos.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]CaseVideo, 0)
	for cursor.Next(ctx) {
		var item CaseVideo
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) UpdateVideo(ctx context.Context, caseID, videoID string, set bson.M) (CaseVideo, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated CaseVideo
	err := r.videos.FindOneAndUpdate(ctx,
		bson.M{"_id": videoID, "case_id": caseID},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err != nil {
		return CaseVideo{}, err
	}
	return updated, nil
}

func (r *MongoRepository) DeleteVideo(ctx context.Context, caseID, videoID string) (bool, error) {
	res, err := r.videos.DeleteOne(ctx, bson.M{"_id": videoID, "case_id": caseID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) DeleteVideosByCase(ctx context.Context, caseID string) error {
	_, err := r.videos.DeleteMany(ctx, bson.M{"case_id": caseID})
	return err
}
