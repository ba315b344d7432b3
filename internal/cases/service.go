package cases

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("case not found")
	ErrImageNotFound = errors.New("case image not found")
	ErrVideoNotFound = errors.New("case video not found")
	ErrSlugExists    = errors.New("slug already exists")
	ErrInvalidSlug   = errors.New("invalid slug")
	ErrEmptyReorder  = errors.New("empty reorder list")
	ErrNoFields      = errors.New("no fields to update")
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

func (s *Service) Create(ctx context.Context, req CreateRequest) (Case, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Case{}, ErrInvalidSlug
	}

	isPublished := false
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	now := time.Now().In(s.location)
	item := Case{
		ID:          primitive.NewObjectID().Hex(),
		Slug:        slug,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		ClientName:  strings.TrimSpace(req.ClientName),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		IsPublished: isPublished,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Case{}, ErrSlugExists
		}
		return Case{}, err
	}
	return item, nil
}

// Update applies only the fields present in the request.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Case, error) {
	id = strings.TrimSpace(id)

	set := bson.M{}
	if req.Slug != nil {
		slug := utils.Slugify(*req.Slug)
		if slug == "" {
			return Case{}, ErrInvalidSlug
		}
		set["slug"] = slug
	}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		set["category"] = strings.TrimSpace(*req.Category)
	}
	if req.ClientName != nil {
		set["client_name"] = strings.TrimSpace(*req.ClientName)
	}
	if req.ImageURL != nil {
		set["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if req.IsPublished != nil {
		set["is_published"] = *req.IsPublished
	}
	if req.SortOrder != nil {
		set["sort_order"] = *req.SortOrder
	}
	if len(set) == 0 {
		return Case{}, ErrNoFields
	}
	set["updated_at"] = time.Now().In(s.location)

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Case{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Case{}, ErrSlugExists
		}
		return Case{}, err
	}
	return updated, nil
}

// Delete removes the case and its attached images and videos. There is no
// referential integrity in the store; the cascade lives here.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	if err := s.repo.DeleteImagesByCase(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteVideosByCase(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Case, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Case{}, ErrNotFound
		}
		return Case{}, err
	}
	return item, nil
}

func (s *Service) ListPublic(ctx context.Context, filter PublicListFilter) ([]Case, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.ListPublic(ctx, filter)
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Case, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Case{}, ErrNotFound
		}
		return Case{}, err
	}
	return item, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Case, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	items, err := s.repo.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAdmin(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Reorder assigns sort_order by list position. Updates are dispatched
// concurrently with no enclosing transaction; a failure mid-way leaves a
// mixed order and is reported as a single error.
func (s *Service) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return ErrEmptyReorder
	}
	return s.applyOrder(ctx, ids, func(ctx context.Context, id string, order int) (bool, error) {
		return s.repo.SetCaseOrder(ctx, id, order)
	}, ErrNotFound)
}

func (s *Service) AttachImage(ctx context.Context, caseID string, req AttachImageRequest) (CaseImage, error) {
	caseID = strings.TrimSpace(caseID)
	if _, err := s.GetByID(ctx, caseID); err != nil {
		return CaseImage{}, err
	}

	orderIndex := 0
	if req.OrderIndex != nil {
		orderIndex = *req.OrderIndex
	}

	image := CaseImage{
		ID:         primitive.NewObjectID().Hex(),
		CaseID:     caseID,
		ImageURL:   strings.TrimSpace(req.ImageURL),
		OrderIndex: orderIndex,
	}
	if err := s.repo.InsertImage(ctx, image); err != nil {
		return CaseImage{}, err
	}
	return image, nil
}

func (s *Service) ListImages(ctx context.Context, caseID string) ([]CaseImage, error) {
	return s.repo.ListImages(ctx, strings.TrimSpace(caseID))
}

func (s *Service) DetachImage(ctx context.Context, caseID, imageID string) error {
	deleted, err := s.repo.DeleteImage(ctx, strings.TrimSpace(caseID), strings.TrimSpace(imageID))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrImageNotFound
	}
	return nil
}

// ReorderImages reorders the images of one case; ids not belonging to the
// case fail the whole call.
func (s *Service) ReorderImages(ctx context.Context, caseID string, ids []string) error {
	if len(ids) == 0 {
		return ErrEmptyReorder
	}
	caseID = strings.TrimSpace(caseID)
	return s.applyOrder(ctx, ids, func(ctx context.Context, id string, order int) (bool, error) {
		return s.repo.SetImageOrder(ctx, caseID, id, order)
	}, ErrImageNotFound)
}

func (s *Service) AttachVideo(ctx context.Context, caseID string, req AttachVideoRequest) (CaseVideo, error) {
	caseID = strings.TrimSpace(caseID)
	if _, err := s.GetByID(ctx, caseID); err != nil {
		return CaseVideo{}, err
	}

	videoType := strings.TrimSpace(req.VideoType)
	if videoType == "" {
		videoType = "file"
	}
	orderIndex := 0
	if req.OrderIndex != nil {
		orderIndex = *req.OrderIndex
	}

	video := CaseVideo{
		ID:         primitive.NewObjectID().Hex(),
		CaseID:     caseID,
		VideoURL:   strings.TrimSpace(req.VideoURL),
		VideoType:  videoType,
		Title:      strings.TrimSpace(req.Title),
		OrderIndex: orderIndex,
	}
	if err := s.repo.InsertVideo(ctx, video); err != nil {
		return CaseVideo{}, err
	}
	return video, nil
}

func (s *Service) ListVideos(ctx context.Context, caseID string) ([]CaseVideo, error) {
	return s.repo.ListVideos(ctx, strings.TrimSpace(caseID))
}

func (s *Service) UpdateVideo(ctx context.Context, caseID, videoID string, req UpdateVideoRequest) (CaseVideo, error) {
	set := bson.M{}
	if req.VideoURL != nil {
		set["video_url"] = strings.TrimSpace(*req.VideoURL)
	}
	if req.VideoType != nil {
		set["video_type"] = strings.TrimSpace(*req.VideoType)
	}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if len(set) == 0 {
		return CaseVideo{}, ErrNoFields
	}

	updated, err := s.repo.UpdateVideo(ctx, strings.TrimSpace(caseID), strings.TrimSpace(videoID), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CaseVideo{}, ErrVideoNotFound
		}
		return CaseVideo{}, err
	}
	return updated, nil
}

func (s *Service) DetachVideo(ctx context.Context, caseID, videoID string) error {
	deleted, err := s.repo.DeleteVideo(ctx, strings.TrimSpace(caseID), strings.TrimSpace(videoID))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrVideoNotFound
	}
	return nil
}

func (s *Service) applyOrder(ctx context.Context, ids []string, set func(ctx context.Context, id string, order int) (bool, error), missing error) error {
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			matched, err := set(ctx, strings.TrimSpace(id), i)
			if err != nil {
				errs[i] = err
				return
			}
			if !matched {
				errs[i] = missing
			}
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func normalizeSlug(slug, title string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(title)
	}
	return utils.Slugify(raw)
}
