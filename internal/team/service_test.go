package team

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type memRepo struct {
	mu      sync.Mutex
	members map[string]Member
}

func newMemRepo() *memRepo {
	return &memRepo{members: make(map[string]Member)}
}

func (r *memRepo) Create(ctx context.Context, member Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.ID] = member
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[id]
	if !ok {
		return Member{}, mongo.ErrNoDocuments
	}
	return member, nil
}

func (r *memRepo) Update(ctx context.Context, id string, set bson.M) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[id]
	if !ok {
		return Member{}, mongo.ErrNoDocuments
	}
	for key, value := range set {
		switch key {
		case "name":
			member.Name = value.(string)
		case "position":
			member.Position = value.(string)
		case "email":
			member.Email = value.(string)
		case "phone":
			member.Phone = value.(string)
		case "bio":
			member.Bio = value.(string)
		case "image_url":
			member.ImageURL = value.(string)
		case "sort_order":
			member.SortOrder = value.(int)
		case "updated_at":
			member.UpdatedAt = value.(time.Time)
		}
	}
	r.members[id] = member
	return member, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false, nil
	}
	delete(r.members, id)
	return true, nil
}

func (r *memRepo) List(ctx context.Context) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]Member, 0, len(r.members))
	for _, member := range r.members {
		items = append(items, member)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	return items, nil
}

func TestCreateAndList(t *testing.T) {
	svc := NewService(newMemRepo(), time.UTC)
	ctx := context.Background()

	second := 1
	if _, err := svc.Create(ctx, CreateRequest{Name: "Lena Schulz", Position: "Cutterin", SortOrder: &second}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateRequest{Name: "Jonas Weber", Position: "Kameramann"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 members, got %d", len(items))
	}
	if items[0].Name != "Jonas Weber" {
		t.Fatalf("sort order not respected: %+v", items)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc := NewService(newMemRepo(), time.UTC)
	ctx := context.Background()

	member, _ := svc.Create(ctx, CreateRequest{Name: "Mara Klein", Position: "Producerin"})

	position := "Head of Production"
	updated, err := svc.Update(ctx, member.ID, UpdateRequest{Position: &position})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Position != position {
		t.Fatalf("position not updated: %q", updated.Position)
	}
	if updated.Name != "Mara Klein" {
		t.Fatalf("untouched field changed: %q", updated.Name)
	}
}

func TestContactDetailsStored(t *testing.T) {
	svc := NewService(newMemRepo(), time.UTC)
	ctx := context.Background()

	member, err := svc.Create(ctx, CreateRequest{
		Name:     "Anna Vogel",
		Position: "Projektleitung",
		Email:    " anna@bsp-media.de ",
		Phone:    "+49 151 2345678",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if member.Email != "anna@bsp-media.de" {
		t.Fatalf("email not stored trimmed: %q", member.Email)
	}
	if member.Phone != "+49 151 2345678" {
		t.Fatalf("phone not stored: %q", member.Phone)
	}

	phone := "+49 151 9999999"
	updated, err := svc.Update(ctx, member.ID, UpdateRequest{Phone: &phone})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone not updated: %q", updated.Phone)
	}
	if updated.Email != "anna@bsp-media.de" {
		t.Fatalf("untouched email changed: %q", updated.Email)
	}
}

func TestUpdateNoFields(t *testing.T) {
	svc := NewService(newMemRepo(), time.UTC)
	ctx := context.Background()

	member, _ := svc.Create(ctx, CreateRequest{Name: "Tim Brandt", Position: "Tonmeister"})
	if _, err := svc.Update(ctx, member.ID, UpdateRequest{}); !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestDeleteUnknown(t *testing.T) {
	svc := NewService(newMemRepo(), time.UTC)
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
