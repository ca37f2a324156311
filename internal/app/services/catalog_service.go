package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/helpers"
	"github.com/yigit/programhub/internal/pkg/validation"
)

// CatalogService manages courses, fellowships, diplomas and scholarships.
type CatalogService interface {
	CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListCourses(ctx context.Context, page models.Page) ([]*models.Course, int64, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, c *models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	CreateFellowship(ctx context.Context, f *models.Fellowship, courseID string) (*models.Fellowship, error)
	GetFellowship(ctx context.Context, id uuid.UUID) (*models.Fellowship, error)
	ListFellowships(ctx context.Context, page models.Page) ([]*models.Fellowship, int64, error)
	UpdateFellowship(ctx context.Context, id uuid.UUID, f *models.Fellowship, courseID string) (*models.Fellowship, error)
	DeleteFellowship(ctx context.Context, id uuid.UUID) error

	CreateDiploma(ctx context.Context, d *models.Diploma) (*models.Diploma, error)
	GetDiploma(ctx context.Context, id uuid.UUID) (*models.Diploma, error)
	ListDiplomas(ctx context.Context, page models.Page) ([]*models.Diploma, int64, error)
	UpdateDiploma(ctx context.Context, id uuid.UUID, d *models.Diploma) (*models.Diploma, error)
	DeleteDiploma(ctx context.Context, id uuid.UUID) error

	CreateScholarship(ctx context.Context, s *models.Scholarship) (*models.Scholarship, error)
	GetScholarship(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
	ListScholarships(ctx context.Context, page models.Page) ([]*models.Scholarship, int64, error)
	UpdateScholarship(ctx context.Context, id uuid.UUID, s *models.Scholarship) (*models.Scholarship, error)
	DeleteScholarship(ctx context.Context, id uuid.UUID) error

	GetOffering(ctx context.Context, kind models.OfferingKind, id uuid.UUID) (models.Offering, error)
}

// CatalogStores groups the four offering stores.
type CatalogStores struct {
	Courses      CourseStore
	Fellowships  FellowshipStore
	Diplomas     DiplomaStore
	Scholarships ScholarshipStore
}

type catalogServiceImpl struct {
	stores CatalogStores
	logger zerolog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(stores CatalogStores, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		stores: stores,
		logger: logger,
	}
}

func validateTitle(title string) error {
	if !validation.NewStringValidation(title).WithMaxLength(validation.TitleMaxLength).Validate() {
		return fmt.Errorf("%w: title is required and at most %d characters", apperrors.ErrValidationFailed, validation.TitleMaxLength)
	}
	return nil
}

func validateFees(fees float64) error {
	if fees < 0 {
		return fmt.Errorf("%w: fees must not be negative", apperrors.ErrValidationFailed)
	}
	if fees >= validation.FeesLimit {
		return fmt.Errorf("%w: fees must be below %.0f", apperrors.ErrValidationFailed, validation.FeesLimit)
	}
	return nil
}

// validateCourseInfo checks the schedule block. Dates are mandatory unless
// datesOptional is set; when both are present start must not be after end.
func validateCourseInfo(info *models.CourseInfo, datesOptional bool) error {
	info.Title = strings.TrimSpace(info.Title)
	if err := validateTitle(info.Title); err != nil {
		return err
	}
	if info.ApplicationDeadline.IsZero() {
		return fmt.Errorf("%w: application deadline is required", apperrors.ErrValidationFailed)
	}
	if !datesOptional && (info.StartDate == nil || info.EndDate == nil) {
		return fmt.Errorf("%w: start and end dates are required", apperrors.ErrValidationFailed)
	}
	if info.StartDate != nil && info.EndDate != nil && info.StartDate.After(*info.EndDate) {
		return fmt.Errorf("%w: start date must not be after end date", apperrors.ErrValidationFailed)
	}
	return nil
}

func validateCourse(c *models.Course) error {
	if err := validateCourseInfo(&c.Info, false); err != nil {
		return err
	}
	return validateFees(c.Fees)
}

func validateDiploma(d *models.Diploma) error {
	if err := validateCourseInfo(&d.Info, false); err != nil {
		return err
	}
	return validateFees(d.Fees)
}

func validateScholarship(s *models.Scholarship) error {
	s.Title = strings.TrimSpace(s.Title)
	if err := validateTitle(s.Title); err != nil {
		return err
	}
	if s.BondYears < 0 {
		return fmt.Errorf("%w: bond years must not be negative", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateCourse validates and stores a course with its schedule.
func (s *catalogServiceImpl) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	if err := validateCourse(c); err != nil {
		return nil, err
	}
	if err := s.stores.Courses.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	s.logger.Info().Str("course", c.UUID.String()).Msg("Course created")
	return c, nil
}

// GetCourse retrieves a course by UUID
func (s *catalogServiceImpl) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.stores.Courses.GetByUUID(ctx, id)
}

// ListCourses retrieves a page of courses
func (s *catalogServiceImpl) ListCourses(ctx context.Context, page models.Page) ([]*models.Course, int64, error) {
	return s.stores.Courses.List(ctx, page)
}

// UpdateCourse replaces the course and its schedule.
func (s *catalogServiceImpl) UpdateCourse(ctx context.Context, id uuid.UUID, c *models.Course) (*models.Course, error) {
	if err := validateCourse(c); err != nil {
		return nil, err
	}
	c.UUID = id
	if err := s.stores.Courses.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return s.stores.Courses.GetByUUID(ctx, id)
}

// DeleteCourse removes the course and its schedule. Courses backing a
// fellowship cannot be deleted.
func (s *catalogServiceImpl) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Courses.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	s.logger.Info().Str("course", id.String()).Msg("Course deleted")
	return nil
}

// CreateFellowship stores a fellowship backed by an existing course.
func (s *catalogServiceImpl) CreateFellowship(ctx context.Context, f *models.Fellowship, courseID string) (*models.Fellowship, error) {
	if err := validateCourseInfo(&f.Info, true); err != nil {
		return nil, err
	}
	if strings.TrimSpace(courseID) == "" {
		return nil, fmt.Errorf("%w: course id is required", apperrors.ErrValidationFailed)
	}
	courseUUID, err := helpers.ParseUUID(courseID)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Fellowships.Create(ctx, f, courseUUID); err != nil {
		return nil, fmt.Errorf("error creating fellowship: %w", err)
	}
	s.logger.Info().Str("fellowship", f.UUID.String()).Str("course", courseUUID.String()).Msg("Fellowship created")
	return s.stores.Fellowships.GetByUUID(ctx, f.UUID)
}

// GetFellowship retrieves a fellowship with its backing course
func (s *catalogServiceImpl) GetFellowship(ctx context.Context, id uuid.UUID) (*models.Fellowship, error) {
	return s.stores.Fellowships.GetByUUID(ctx, id)
}

// ListFellowships retrieves a page of fellowships
func (s *catalogServiceImpl) ListFellowships(ctx context.Context, page models.Page) ([]*models.Fellowship, int64, error) {
	return s.stores.Fellowships.List(ctx, page)
}

// UpdateFellowship replaces the fellowship. An empty courseID keeps the
// current backing course.
func (s *catalogServiceImpl) UpdateFellowship(ctx context.Context, id uuid.UUID, f *models.Fellowship, courseID string) (*models.Fellowship, error) {
	if err := validateCourseInfo(&f.Info, true); err != nil {
		return nil, err
	}

	var courseUUID *uuid.UUID
	if strings.TrimSpace(courseID) != "" {
		parsed, err := helpers.ParseUUID(courseID)
		if err != nil {
			return nil, err
		}
		courseUUID = &parsed
	}

	f.UUID = id
	if err := s.stores.Fellowships.Update(ctx, f, courseUUID); err != nil {
		return nil, fmt.Errorf("error updating fellowship: %w", err)
	}
	return s.stores.Fellowships.GetByUUID(ctx, id)
}

// DeleteFellowship removes the fellowship and its schedule.
func (s *catalogServiceImpl) DeleteFellowship(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Fellowships.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting fellowship: %w", err)
	}
	return nil
}

// CreateDiploma validates and stores a diploma with its schedule.
func (s *catalogServiceImpl) CreateDiploma(ctx context.Context, d *models.Diploma) (*models.Diploma, error) {
	if err := validateDiploma(d); err != nil {
		return nil, err
	}
	if err := s.stores.Diplomas.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("error creating diploma: %w", err)
	}
	s.logger.Info().Str("diploma", d.UUID.String()).Msg("Diploma created")
	return d, nil
}

// GetDiploma retrieves a diploma by UUID
func (s *catalogServiceImpl) GetDiploma(ctx context.Context, id uuid.UUID) (*models.Diploma, error) {
	return s.stores.Diplomas.GetByUUID(ctx, id)
}

// ListDiplomas retrieves a page of diplomas
func (s *catalogServiceImpl) ListDiplomas(ctx context.Context, page models.Page) ([]*models.Diploma, int64, error) {
	return s.stores.Diplomas.List(ctx, page)
}

// UpdateDiploma replaces the diploma and its schedule.
func (s *catalogServiceImpl) UpdateDiploma(ctx context.Context, id uuid.UUID, d *models.Diploma) (*models.Diploma, error) {
	if err := validateDiploma(d); err != nil {
		return nil, err
	}
	d.UUID = id
	if err := s.stores.Diplomas.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("error updating diploma: %w", err)
	}
	return s.stores.Diplomas.GetByUUID(ctx, id)
}

// DeleteDiploma removes the diploma and its schedule.
func (s *catalogServiceImpl) DeleteDiploma(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Diplomas.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting diploma: %w", err)
	}
	return nil
}

// CreateScholarship validates and stores a scholarship.
func (s *catalogServiceImpl) CreateScholarship(ctx context.Context, sc *models.Scholarship) (*models.Scholarship, error) {
	if err := validateScholarship(sc); err != nil {
		return nil, err
	}
	if err := s.stores.Scholarships.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("error creating scholarship: %w", err)
	}
	s.logger.Info().Str("scholarship", sc.UUID.String()).Msg("Scholarship created")
	return sc, nil
}

// GetScholarship retrieves a scholarship by UUID
func (s *catalogServiceImpl) GetScholarship(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
	return s.stores.Scholarships.GetByUUID(ctx, id)
}

// ListScholarships retrieves a page of scholarships
func (s *catalogServiceImpl) ListScholarships(ctx context.Context, page models.Page) ([]*models.Scholarship, int64, error) {
	return s.stores.Scholarships.List(ctx, page)
}

// UpdateScholarship replaces the scholarship.
func (s *catalogServiceImpl) UpdateScholarship(ctx context.Context, id uuid.UUID, sc *models.Scholarship) (*models.Scholarship, error) {
	if err := validateScholarship(sc); err != nil {
		return nil, err
	}
	sc.UUID = id
	if err := s.stores.Scholarships.Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("error updating scholarship: %w", err)
	}
	return sc, nil
}

// DeleteScholarship removes the scholarship.
func (s *catalogServiceImpl) DeleteScholarship(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Scholarships.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting scholarship: %w", err)
	}
	return nil
}

// GetOffering loads the full projection of one offering of any kind.
func (s *catalogServiceImpl) GetOffering(ctx context.Context, kind models.OfferingKind, id uuid.UUID) (models.Offering, error) {
	o := models.Offering{Kind: kind}
	var err error
	switch kind {
	case models.OfferingCourse:
		o.Course, err = s.stores.Courses.GetByUUID(ctx, id)
	case models.OfferingFellowship:
		o.Fellowship, err = s.stores.Fellowships.GetByUUID(ctx, id)
	case models.OfferingScholarship:
		o.Scholarship, err = s.stores.Scholarships.GetByUUID(ctx, id)
	case models.OfferingDiploma:
		o.Diploma, err = s.stores.Diplomas.GetByUUID(ctx, id)
	default:
		return models.Offering{}, fmt.Errorf("%w: unknown offering kind %d", apperrors.ErrValidationFailed, int(kind))
	}
	if err != nil {
		return models.Offering{}, err
	}
	return o, nil
}
