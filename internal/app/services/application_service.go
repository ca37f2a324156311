package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// OfferingReader loads offering projections.
type OfferingReader interface {
	GetOffering(ctx context.Context, kind models.OfferingKind, id uuid.UUID) (models.Offering, error)
}

// ApplicationService runs the application lifecycle.
type ApplicationService interface {
	Apply(ctx context.Context, participantUUID uuid.UUID, kindIndex int, offeringUUID uuid.UUID) (*models.Application, error)
	AdvanceProgress(ctx context.Context, applicationUUID uuid.UUID, kindIndex, status int) (*models.Application, error)
	ListApplicantsForOffering(ctx context.Context, kindIndex int, offeringUUID uuid.UUID, band models.ProgressBand) ([]*models.Applicant, error)
	ListApplicationsForParticipant(ctx context.Context, participantUUID uuid.UUID, kindIndex int) ([]models.OfferingApplication, error)
}

type applicationServiceImpl struct {
	store     ApplicationStore
	offerings OfferingReader
	logger    zerolog.Logger
}

// NewApplicationService creates a new application service instance
func NewApplicationService(store ApplicationStore, offerings OfferingReader, logger zerolog.Logger) ApplicationService {
	return &applicationServiceImpl{
		store:     store,
		offerings: offerings,
		logger:    logger,
	}
}

func parseKind(kindIndex int) (models.OfferingKind, error) {
	kind, err := models.ParseOfferingKind(kindIndex)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	return kind, nil
}

// Apply files a NotApproved application for the participant.
func (s *applicationServiceImpl) Apply(ctx context.Context, participantUUID uuid.UUID, kindIndex int, offeringUUID uuid.UUID) (*models.Application, error) {
	kind, err := parseKind(kindIndex)
	if err != nil {
		return nil, err
	}

	app, err := s.store.Create(ctx, participantUUID, kind, offeringUUID)
	if err != nil {
		return nil, fmt.Errorf("error creating application: %w", err)
	}

	s.logger.Info().Str("application", app.UUID.String()).Str("participant", participantUUID.String()).
		Str("kind", kind.String()).Msg("Application filed")
	return app, nil
}

// AdvanceProgress moves an application to status if the state machine allows it.
func (s *applicationServiceImpl) AdvanceProgress(ctx context.Context, applicationUUID uuid.UUID, kindIndex, status int) (*models.Application, error) {
	kind, err := parseKind(kindIndex)
	if err != nil {
		return nil, err
	}
	next, err := models.ParseProgressType(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	app, err := s.store.TransitionProgress(ctx, kind, applicationUUID, next)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("application", applicationUUID.String()).Str("progress", next.String()).
		Msg("Application progress changed")
	return app, nil
}

// ListApplicantsForOffering lists applicants of one offering in the given band.
func (s *applicationServiceImpl) ListApplicantsForOffering(ctx context.Context, kindIndex int, offeringUUID uuid.UUID, band models.ProgressBand) ([]*models.Applicant, error) {
	kind, err := parseKind(kindIndex)
	if err != nil {
		return nil, err
	}

	applicants, err := s.store.ListApplicantsForOffering(ctx, kind, offeringUUID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Applicant, 0, len(applicants))
	for _, a := range applicants {
		if band.Matches(a.Application.Progress) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// ListApplicationsForParticipant returns the participant's applications of
// one kind with the offering each targets.
func (s *applicationServiceImpl) ListApplicationsForParticipant(ctx context.Context, participantUUID uuid.UUID, kindIndex int) ([]models.OfferingApplication, error) {
	kind, err := parseKind(kindIndex)
	if err != nil {
		return nil, err
	}

	apps, err := s.store.ListForParticipant(ctx, participantUUID, kind)
	if err != nil {
		return nil, err
	}

	loaded := make(map[uuid.UUID]models.Offering)
	result := make([]models.OfferingApplication, 0, len(apps))
	for _, app := range apps {
		offering, ok := loaded[app.OfferingUUID]
		if !ok {
			if offering, err = s.offerings.GetOffering(ctx, kind, app.OfferingUUID); err != nil {
				return nil, fmt.Errorf("error loading offering for application %s: %w", app.UUID, err)
			}
			loaded[app.OfferingUUID] = offering
		}
		result = append(result, models.OfferingApplication{Application: app, Offering: offering})
	}
	return result, nil
}
