package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// InterestService manages participant interests.
type InterestService interface {
	AddInterest(ctx context.Context, participantUUID uuid.UUID, selection models.OfferingSelection) (*models.Interest, error)
	RemoveInterest(ctx context.Context, participantUUID, interestUUID uuid.UUID) error
	ListInterests(ctx context.Context, participantUUID uuid.UUID) ([]models.InterestEntry, error)
}

type interestServiceImpl struct {
	store     InterestStore
	offerings OfferingReader
	logger    zerolog.Logger
}

// NewInterestService creates a new interest service instance
func NewInterestService(store InterestStore, offerings OfferingReader, logger zerolog.Logger) InterestService {
	return &interestServiceImpl{
		store:     store,
		offerings: offerings,
		logger:    logger,
	}
}

// AddInterest records interest in exactly one offering.
func (s *interestServiceImpl) AddInterest(ctx context.Context, participantUUID uuid.UUID, selection models.OfferingSelection) (*models.Interest, error) {
	kind, offeringUUID, err := selection.Resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	interest, err := s.store.Create(ctx, participantUUID, kind, offeringUUID)
	if err != nil {
		return nil, fmt.Errorf("error creating interest: %w", err)
	}
	return interest, nil
}

// RemoveInterest deletes one of the participant's interests.
func (s *interestServiceImpl) RemoveInterest(ctx context.Context, participantUUID, interestUUID uuid.UUID) error {
	kind, err := s.store.Delete(ctx, participantUUID, interestUUID)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("interest", interestUUID.String()).Str("kind", kind.String()).Msg("Interest removed")
	return nil
}

// ListInterests returns every interest of the participant with its offering.
func (s *interestServiceImpl) ListInterests(ctx context.Context, participantUUID uuid.UUID) ([]models.InterestEntry, error) {
	interests, err := s.store.ListForParticipant(ctx, participantUUID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.InterestEntry, 0, len(interests))
	for _, interest := range interests {
		offering, err := s.offerings.GetOffering(ctx, interest.Kind, interest.OfferingUUID)
		if err != nil {
			return nil, fmt.Errorf("error loading offering for interest %s: %w", interest.UUID, err)
		}
		entries = append(entries, models.InterestEntry{Interest: interest, Offering: offering})
	}
	return entries, nil
}
