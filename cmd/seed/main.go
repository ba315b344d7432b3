package main

import (
	"context"
	"log"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/config"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/db"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedPage struct {
	Title     string
	Slug      string
	SortOrder int
}

type seedMember struct {
	Name     string
	Position string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	now := time.Now().In(cfg.Timezone)

	pages := []seedPage{
		{Title: "Startseite", Slug: "home", SortOrder: 0},
		{Title: "Über uns", Slug: "ueber-uns", SortOrder: 1},
		{Title: "Leistungen", Slug: "leistungen", SortOrder: 2},
		{Title: "Kontakt", Slug: "kontakt", SortOrder: 3},
	}

	for _, page := range pages {
		slug := page.Slug
		if slug == "" {
			slug = utils.Slugify(page.Title)
		}
		filter := bson.M{"slug": slug}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID().Hex(),
				"slug":       slug,
				"title":      page.Title,
				"is_active":  true,
				"sort_order": page.SortOrder,
				"created_at": now,
				"updated_at": now,
			},
		}
		if _, err := cols.Pages.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for page %s: %v", slug, err)
		}
	}

	// home sections start from the registry defaults, so the site renders
	// real content before anyone opens the editor
	for _, key := range sections.Keys() {
		doc, err := sections.Default(key)
		if err != nil {
			log.Fatalf("seed error for section %s: %v", key, err)
		}
		filter := bson.M{"page_section": key}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":          primitive.NewObjectID().Hex(),
				"page_section": key,
				"content":      doc,
				"created_at":   now,
				"updated_at":   now,
			},
		}
		if _, err := cols.PageContent.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for section %s: %v", key, err)
		}
	}

	members := []seedMember{
		{Name: "Benedikt Sperling", Position: "Geschäftsführer & Regie"},
		{Name: "Sina Pohl", Position: "Produktionsleitung"},
	}

	for i, member := range members {
		filter := bson.M{"name": member.Name}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID().Hex(),
				"name":       member.Name,
				"position":   member.Position,
				"sort_order": i,
				"created_at": now,
				"updated_at": now,
			},
		}
		if _, err := cols.TeamMembers.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for member %s: %v", member.Name, err)
		}
	}

	log.Println("seed completed")
}
