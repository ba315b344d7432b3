package team

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("team member not found")
	ErrNoFields = errors.New("no fields to update")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Member, error) {
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	now := time.Now().In(s.location)
	member := Member{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		Position:  strings.TrimSpace(req.Position),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Bio:       strings.TrimSpace(req.Bio),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return Member{}, err
	}
	return member, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Member, error) {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Position != nil {
		set["position"] = strings.TrimSpace(*req.Position)
	}
	if req.Email != nil {
		set["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		set["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Bio != nil {
		set["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.ImageURL != nil {
		set["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if req.SortOrder != nil {
		set["sort_order"] = *req.SortOrder
	}
	if len(set) == 0 {
		return Member{}, ErrNoFields
	}
	set["updated_at"] = time.Now().In(s.location)

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}
