package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrSpamRejected  = errors.New("spam verification failed")
)

// Verifier checks the challenge token that accompanies a public form post.
// A nil verifier means verification is disabled.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Notifier delivers the inbox notification and the submitter confirmation.
// A nil notifier degrades to log-only mode; the lead is still stored.
type Notifier interface {
	SendLeadNotification(ctx context.Context, lead Lead) (string, error)
	SendLeadConfirmation(ctx context.Context, lead Lead) (string, error)
}

type Service struct {
	repo     Repository
	location *time.Location
	verifier Verifier
	notifier Notifier
}

func NewService(repo Repository, location *time.Location, verifier Verifier, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		location: location,
		verifier: verifier,
		notifier: notifier,
	}
}

// SubmitContact verifies the spam token, then stores the lead. A failed
// verification stores and sends nothing.
func (s *Service) SubmitContact(ctx context.Context, req ContactRequest, remoteIP string) (Lead, error) {
	if err := s.verify(ctx, req.SpamToken, remoteIP); err != nil {
		return Lead{}, err
	}

	now := time.Now().In(s.location)
	lead := Lead{
		ID:        primitive.NewObjectID().Hex(),
		Kind:      KindContact,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Message:   strings.TrimSpace(req.Message),
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (s *Service) SubmitIdeenCheck(ctx context.Context, req IdeenCheckRequest, remoteIP string) (Lead, error) {
	if err := s.verify(ctx, req.SpamToken, remoteIP); err != nil {
		return Lead{}, err
	}

	now := time.Now().In(s.location)
	lead := Lead{
		ID:          primitive.NewObjectID().Hex(),
		Kind:        KindIdeenCheck,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Company:     strings.TrimSpace(req.Company),
		Message:     strings.TrimSpace(req.Description),
		ProjectType: strings.TrimSpace(req.ProjectType),
		Budget:      strings.TrimSpace(req.Budget),
		Timeline:    strings.TrimSpace(req.Timeline),
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Kind = strings.ToLower(strings.TrimSpace(filter.Kind))

	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Kind != "" && filter.Kind != KindContact && filter.Kind != KindIdeenCheck {
		return nil, 0, ErrInvalidKind
	}

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetAdminByID(ctx context.Context, id string) (Lead, error) {
	lead, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Lead, error) {
	id = strings.TrimSpace(id)
	status = strings.ToLower(strings.TrimSpace(status))
	if !IsValidStatus(status) {
		return Lead{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return updated, nil
}

func (s *Service) NotifyNewLead(ctx context.Context, lead Lead) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendLeadNotification(ctx, lead)
	return err
}

func (s *Service) NotifyLeadConfirmation(ctx context.Context, lead Lead) error {
	if s.notifier == nil {
		return nil
	}
	if strings.TrimSpace(lead.Email) == "" {
		return nil
	}
	_, err := s.notifier.SendLeadConfirmation(ctx, lead)
	return err
}

func (s *Service) verify(ctx context.Context, token, remoteIP string) error {
	if s.verifier == nil {
		return nil
	}
	if err := s.verifier.Verify(ctx, token, remoteIP); err != nil {
		return ErrSpamRejected
	}
	return nil
}
