package service

import (
	"context"
	"errors"
	"time"

	walkinerrors "bkhost/internal/walkins/errors"
	"bkhost/internal/walkins/repository"
	"bkhost/internal/walkins/validator"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/events"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"
	"bkhost/pkg/sanitizer"
	"bkhost/pkg/validation"
)

type WalkInService interface {
	Create(ctx context.Context, identity model.Identity, req *model.WalkInRequest) (*model.WalkIn, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.WalkIn, error)
	Update(ctx context.Context, identity model.Identity, id string, updates *model.WalkInUpdate) (*model.WalkIn, error)
	Delete(ctx context.Context, identity model.Identity, id string) error
}

type walkInService struct {
	repo      repository.WalkInRepository
	validator *validator.WalkInValidator
	events    events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewWalkInService(
	repo repository.WalkInRepository,
	validator *validator.WalkInValidator,
	publisher events.Publisher,
	log *logger.Logger,
) WalkInService {
	return &walkInService{
		repo:      repo,
		validator: validator,
		events:    publisher,
		log:       log,
		now:       time.Now,
	}
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

// applyCommunityRule zeroes the amount for community members.
func applyCommunityRule(w *model.WalkIn) {
	if w.CommunityMember {
		w.AmountPaid = 0
	}
}

func (s *walkInService) Create(ctx context.Context, identity model.Identity, req *model.WalkInRequest) (*model.WalkIn, error) {
	sanitizer.SanitizeWalkIn(req)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.log.Warn("Walk-in validation failed", "uid", identity.UID, "error", err)
		return nil, validationError("Walk-in validation failed", err)
	}

	w := &model.WalkIn{
		BikeType:        req.BikeType,
		ServiceType:     req.ServiceType,
		CommunityMember: req.CommunityMember,
		Notes:           req.Notes,
		Timestamp:       s.now().UTC().Truncate(time.Millisecond),
	}
	if req.AmountPaid != nil {
		w.AmountPaid = *req.AmountPaid
	}
	applyCommunityRule(w)

	if err := s.repo.Create(ctx, w); err != nil {
		s.log.Error("Failed to create walk-in", "uid", identity.UID, "error", err)
		return nil, apperrors.Internal("Failed to record walk-in", err)
	}

	s.log.Info("Walk-in recorded",
		"id", w.ID,
		"community_member", w.CommunityMember,
		"preset_amount", validator.IsPresetAmount(w.AmountPaid),
		"uid", identity.UID,
	)
	s.events.Publish(ctx, events.Event{
		Type:  events.WalkInRecorded,
		Key:   w.ID,
		Actor: identity.Email,
		Data:  w,
	})
	return w, nil
}

func (s *walkInService) ListBetween(ctx context.Context, from, to time.Time) ([]model.WalkIn, error) {
	walkIns, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		s.log.Error("Failed to list walk-ins", "from", from, "to", to, "error", err)
		return nil, apperrors.Internal("Failed to load walk-ins", err)
	}
	return walkIns, nil
}

func (s *walkInService) Update(ctx context.Context, identity model.Identity, id string, updates *model.WalkInUpdate) (*model.WalkIn, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Walk-in ID cannot be empty")
	}

	sanitizer.SanitizeWalkInUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.log.Warn("Walk-in update validation failed", "id", id, "error", err)
		return nil, validationError("Walk-in validation failed", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, "Failed to retrieve walk-in", err)
	}

	merged := mergeWalkInUpdates(existing, updates)
	if err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, s.mapRepoError(id, "Failed to update walk-in", err)
	}

	s.log.Info("Walk-in updated", "id", id, "uid", identity.UID)
	return merged, nil
}

func (s *walkInService) Delete(ctx context.Context, identity model.Identity, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Walk-in ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(id, "Failed to delete walk-in", err)
	}

	s.log.Info("Walk-in deleted", "id", id, "uid", identity.UID)
	return nil
}

func (s *walkInService) mapRepoError(id, message string, err error) error {
	if errors.Is(err, walkinerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Walk-in", id)
	}
	s.log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func mergeWalkInUpdates(existing *model.WalkIn, updates *model.WalkInUpdate) *model.WalkIn {
	merged := *existing

	if updates.BikeType != nil {
		merged.BikeType = *updates.BikeType
	}
	if updates.ServiceType != nil {
		merged.ServiceType = *updates.ServiceType
	}
	if updates.AmountPaid != nil {
		merged.AmountPaid = *updates.AmountPaid
	}
	if updates.CommunityMember != nil {
		merged.CommunityMember = *updates.CommunityMember
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	applyCommunityRule(&merged)
	return &merged
}
