package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/repositories"
)

// IdentityStore persists persons and their role payloads.
type IdentityStore interface {
	CreateEmployee(ctx context.Context, p *models.Person) error
	CreateParticipant(ctx context.Context, p *models.Person) error
	GetPersonByEmail(ctx context.Context, email string) (*models.Person, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetEmployee(ctx context.Context, employeeUUID uuid.UUID) (*models.Person, error)
	GetParticipant(ctx context.Context, participantUUID uuid.UUID) (*models.Person, error)
	ListEmployeesByApproval(ctx context.Context, status models.ApprovalStatus, page models.Page) ([]*models.Person, int64, error)
	UpdateApprovalStatus(ctx context.Context, employeeUUID uuid.UUID, status models.ApprovalStatus) error
	UpdatePasswordHash(ctx context.Context, personID int64, hash string) error
	UpdateProfile(ctx context.Context, p *models.Person, newHash string) error
}

// CourseStore persists courses.
type CourseStore interface {
	Create(ctx context.Context, c *models.Course) error
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context, page models.Page) ([]*models.Course, int64, error)
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FellowshipStore persists fellowships.
type FellowshipStore interface {
	Create(ctx context.Context, f *models.Fellowship, courseUUID uuid.UUID) error
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.Fellowship, error)
	List(ctx context.Context, page models.Page) ([]*models.Fellowship, int64, error)
	Update(ctx context.Context, f *models.Fellowship, courseUUID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DiplomaStore persists diplomas.
type DiplomaStore interface {
	Create(ctx context.Context, d *models.Diploma) error
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.Diploma, error)
	List(ctx context.Context, page models.Page) ([]*models.Diploma, int64, error)
	Update(ctx context.Context, d *models.Diploma) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScholarshipStore persists scholarships.
type ScholarshipStore interface {
	Create(ctx context.Context, s *models.Scholarship) error
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error)
	List(ctx context.Context, page models.Page) ([]*models.Scholarship, int64, error)
	Update(ctx context.Context, s *models.Scholarship) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	Create(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind, offeringUUID uuid.UUID) (*models.Application, error)
	TransitionProgress(ctx context.Context, kind models.OfferingKind, applicationUUID uuid.UUID, next models.ProgressType) (*models.Application, error)
	ListApplicantsForOffering(ctx context.Context, kind models.OfferingKind, offeringUUID uuid.UUID) ([]*models.Applicant, error)
	ListForParticipant(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind) ([]*models.Application, error)
}

// InterestStore persists interests.
type InterestStore interface {
	Create(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind, offeringUUID uuid.UUID) (*models.Interest, error)
	Delete(ctx context.Context, participantUUID, interestUUID uuid.UUID) (models.OfferingKind, error)
	ListForParticipant(ctx context.Context, participantUUID uuid.UUID) ([]*models.Interest, error)
}

var (
	_ IdentityStore    = (*repositories.UserRepository)(nil)
	_ CourseStore      = (*repositories.CourseRepository)(nil)
	_ FellowshipStore  = (*repositories.FellowshipRepository)(nil)
	_ DiplomaStore     = (*repositories.DiplomaRepository)(nil)
	_ ScholarshipStore = (*repositories.ScholarshipRepository)(nil)
	_ ApplicationStore = (*repositories.ApplicationRepository)(nil)
	_ InterestStore    = (*repositories.InterestRepository)(nil)
)
