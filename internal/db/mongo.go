package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Cases        *mongo.Collection
	CaseImages   *mongo.Collection
	CaseVideos   *mongo.Collection
	Pages        *mongo.Collection
	PageSections *mongo.Collection
	PageContent  *mongo.Collection
	TeamMembers  *mongo.Collection
	Leads        *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Cases:        db.Collection("cases"),
		CaseImages:   db.Collection("case_images"),
		CaseVideos:   db.Collection("case_videos"),
		Pages:        db.Collection("pages"),
		PageSections: db.Collection("page_sections"),
		PageContent:  db.Collection("page_content"),
		TeamMembers:  db.Collection("team_members"),
		Leads:        db.Collection("leads"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Cases.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sort_order", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.CaseImages.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "order_index", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.CaseVideos.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "order_index", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Pages.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.PageSections.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "page_id", Value: 1}, {Key: "section_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.PageContent.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "page_section", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.TeamMembers.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "order_index", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Leads.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
