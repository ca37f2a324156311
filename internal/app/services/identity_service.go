package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/programhub/internal/app/auth"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/auth"
	"github.com/yigit/programhub/internal/pkg/validation"
)

// IdentityService manages persons, employees and participants.
type IdentityService interface {
	RegisterStaff(ctx context.Context, profile models.Profile, password string, userLevel int) (*models.Person, error)
	RegisterParticipant(ctx context.Context, profile models.Profile, password, organisation, jobTitle string) (*models.Person, error)
	SetApprovalStatus(ctx context.Context, actorUUID, employeeUUID uuid.UUID, status int) error
	ChangePassword(ctx context.Context, role models.Role, roleUUID uuid.UUID, newPassword string) error
	GetEmployee(ctx context.Context, employeeUUID uuid.UUID) (*models.Person, error)
	UpdateEmployee(ctx context.Context, employeeUUID uuid.UUID, profile models.Profile, newPassword string) (*models.Person, error)
	ListPendingStaff(ctx context.Context, page models.Page) ([]*models.Person, int64, error)
	GetParticipant(ctx context.Context, participantUUID uuid.UUID) (*models.Person, error)
	UpdateParticipant(ctx context.Context, participantUUID uuid.UUID, profile models.Profile, organisation, jobTitle, newPassword string) (*models.Person, error)
	EnsureAdmin(ctx context.Context, profile models.Profile, password string) (*models.Person, bool, error)
}

type identityServiceImpl struct {
	store  IdentityStore
	hasher auth.PasswordHasher
	authz  *appauth.AuthorizationService
	now    func() time.Time
	logger zerolog.Logger
}

// NewIdentityService creates a new identity service instance
func NewIdentityService(store IdentityStore, hasher auth.PasswordHasher, authz *appauth.AuthorizationService, logger zerolog.Logger) IdentityService {
	return &identityServiceImpl{
		store:  store,
		hasher: hasher,
		authz:  authz,
		now:    time.Now,
		logger: logger,
	}
}

// normalizeProfile trims fields, lowercases the email and checks every rule.
func (s *identityServiceImpl) normalizeProfile(profile models.Profile) (models.Profile, error) {
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)
	profile.Email = validation.NormalizeEmail(profile.Email)
	profile.PassportNumber = strings.TrimSpace(profile.PassportNumber)
	profile.Country = strings.TrimSpace(profile.Country)
	profile.ContactNumber = strings.TrimSpace(profile.ContactNumber)
	if profile.MiddleName != nil {
		middle := strings.TrimSpace(*profile.MiddleName)
		if middle == "" {
			profile.MiddleName = nil
		} else {
			profile.MiddleName = &middle
		}
	}

	if !validation.IsValidName(profile.FirstName) {
		return profile, fmt.Errorf("%w: first name is required and at most %d characters", apperrors.ErrValidationFailed, validation.NameMaxLength)
	}
	if !validation.IsValidName(profile.LastName) {
		return profile, fmt.Errorf("%w: last name is required and at most %d characters", apperrors.ErrValidationFailed, validation.NameMaxLength)
	}
	if profile.MiddleName != nil && len(*profile.MiddleName) > validation.NameMaxLength {
		return profile, fmt.Errorf("%w: middle name is too long", apperrors.ErrValidationFailed)
	}
	if !validation.IsValidEmail(profile.Email) {
		return profile, fmt.Errorf("%w: invalid email address", apperrors.ErrValidationFailed)
	}
	if !validation.NewStringValidation(profile.PassportNumber).WithRequired(true).
		WithPattern(validation.CompiledPatterns.Passport).Validate() {
		return profile, fmt.Errorf("%w: invalid passport number", apperrors.ErrValidationFailed)
	}
	if !validation.NewStringValidation(profile.ContactNumber).WithRequired(true).
		WithPattern(validation.CompiledPatterns.Contact).Validate() {
		return profile, fmt.Errorf("%w: invalid contact number", apperrors.ErrValidationFailed)
	}
	if profile.Country == "" {
		return profile, fmt.Errorf("%w: country is required", apperrors.ErrValidationFailed)
	}
	if profile.DateOfBirth.IsZero() || !profile.DateOfBirth.Before(s.now()) {
		return profile, fmt.Errorf("%w: date of birth must be in the past", apperrors.ErrValidationFailed)
	}
	if !profile.PassportExpiry.After(profile.DateOfBirth) {
		return profile, fmt.Errorf("%w: passport expiry must be after date of birth", apperrors.ErrValidationFailed)
	}
	return profile, nil
}

// checkEmailFree rejects a taken email before any password is hashed. The
// unique index still guards concurrent registrations.
func (s *identityServiceImpl) checkEmailFree(ctx context.Context, email string) error {
	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}
	return nil
}

func (s *identityServiceImpl) hashPassword(ctx context.Context, password string) (string, error) {
	if !validation.IsValidPassword(password) {
		return "", fmt.Errorf("%w: password must be %d to %d characters", apperrors.ErrValidationFailed,
			validation.PasswordMinLength, validation.PasswordMaxLength)
	}
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return hash, nil
}

// RegisterStaff creates a pending employee.
func (s *identityServiceImpl) RegisterStaff(ctx context.Context, profile models.Profile, password string, userLevel int) (*models.Person, error) {
	userType, err := models.ParseUserType(userLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	profile, err = s.normalizeProfile(profile)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, profile.Email); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return nil, err
	}

	p := &models.Person{PasswordHash: hash}
	profile.ApplyTo(p)
	p.Employee = &models.Employee{UserType: userType, ApprovalStatus: models.ApprovalPending}

	if err := s.store.CreateEmployee(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating employee: %w", err)
	}

	s.logger.Info().Str("employee", p.Employee.UUID.String()).Str("userType", userType.String()).
		Msg("Staff registered, awaiting approval")
	return p, nil
}

// RegisterParticipant creates an active participant.
func (s *identityServiceImpl) RegisterParticipant(ctx context.Context, profile models.Profile, password, organisation, jobTitle string) (*models.Person, error) {
	profile, err := s.normalizeProfile(profile)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, profile.Email); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return nil, err
	}

	p := &models.Person{PasswordHash: hash}
	profile.ApplyTo(p)
	p.Participant = &models.Participant{
		Organisation: strings.TrimSpace(organisation),
		JobTitle:     strings.TrimSpace(jobTitle),
	}

	if err := s.store.CreateParticipant(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating participant: %w", err)
	}

	s.logger.Info().Str("participant", p.Participant.UUID.String()).Msg("Participant registered")
	return p, nil
}

// SetApprovalStatus lets an approved admin approve or reject another employee.
func (s *identityServiceImpl) SetApprovalStatus(ctx context.Context, actorUUID, employeeUUID uuid.UUID, status int) error {
	newStatus, err := models.ParseApprovalStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	if err := s.authz.ValidateApprovalChange(ctx, actorUUID, employeeUUID); err != nil {
		return err
	}

	if err := s.store.UpdateApprovalStatus(ctx, employeeUUID, newStatus); err != nil {
		return fmt.Errorf("error updating approval status: %w", err)
	}

	s.logger.Info().Str("actor", actorUUID.String()).Str("employee", employeeUUID.String()).
		Str("status", newStatus.String()).Msg("Approval status changed")
	return nil
}

// ChangePassword re-hashes and stores a new password. A blank password keeps
// the stored hash.
func (s *identityServiceImpl) ChangePassword(ctx context.Context, role models.Role, roleUUID uuid.UUID, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return nil
	}

	var (
		p   *models.Person
		err error
	)
	switch role {
	case models.RoleEmployee:
		p, err = s.store.GetEmployee(ctx, roleUUID)
	case models.RoleParticipant:
		p, err = s.store.GetParticipant(ctx, roleUUID)
	default:
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, role)
	}
	if err != nil {
		return err
	}

	hash, err := s.hashPassword(ctx, newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, p.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by UUID
func (s *identityServiceImpl) GetEmployee(ctx context.Context, employeeUUID uuid.UUID) (*models.Person, error) {
	return s.store.GetEmployee(ctx, employeeUUID)
}

// UpdateEmployee rewrites the profile and, if given, the password.
func (s *identityServiceImpl) UpdateEmployee(ctx context.Context, employeeUUID uuid.UUID, profile models.Profile, newPassword string) (*models.Person, error) {
	p, err := s.store.GetEmployee(ctx, employeeUUID)
	if err != nil {
		return nil, err
	}
	return p, s.updateProfile(ctx, p, profile, newPassword)
}

// ListPendingStaff lists employees awaiting approval.
func (s *identityServiceImpl) ListPendingStaff(ctx context.Context, page models.Page) ([]*models.Person, int64, error) {
	return s.store.ListEmployeesByApproval(ctx, models.ApprovalPending, page)
}

// GetParticipant retrieves a participant by UUID
func (s *identityServiceImpl) GetParticipant(ctx context.Context, participantUUID uuid.UUID) (*models.Person, error) {
	return s.store.GetParticipant(ctx, participantUUID)
}

// UpdateParticipant rewrites the profile, the participant payload and, if
// given, the password.
func (s *identityServiceImpl) UpdateParticipant(ctx context.Context, participantUUID uuid.UUID, profile models.Profile, organisation, jobTitle, newPassword string) (*models.Person, error) {
	p, err := s.store.GetParticipant(ctx, participantUUID)
	if err != nil {
		return nil, err
	}
	p.Participant.Organisation = strings.TrimSpace(organisation)
	p.Participant.JobTitle = strings.TrimSpace(jobTitle)
	return p, s.updateProfile(ctx, p, profile, newPassword)
}

func (s *identityServiceImpl) updateProfile(ctx context.Context, p *models.Person, profile models.Profile, newPassword string) error {
	profile, err := s.normalizeProfile(profile)
	if err != nil {
		return err
	}

	var hash string
	if strings.TrimSpace(newPassword) != "" {
		if hash, err = s.hashPassword(ctx, newPassword); err != nil {
			return err
		}
	}

	profile.ApplyTo(p)
	if err := s.store.UpdateProfile(ctx, p, hash); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// EnsureAdmin creates an approved admin unless one already owns the email.
// It reports whether a new account was created. An email held by any other
// account is a conflict.
func (s *identityServiceImpl) EnsureAdmin(ctx context.Context, profile models.Profile, password string) (*models.Person, bool, error) {
	profile, err := s.normalizeProfile(profile)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.store.GetPersonByEmail(ctx, profile.Email)
	if err == nil {
		if !existing.IsApprovedStaff() || existing.Employee.UserType != models.UserTypeAdmin {
			return nil, false, apperrors.NewConflictError(
				fmt.Sprintf("%s belongs to an account that is not an approved admin", profile.Email))
		}
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, false, err
	}

	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return nil, false, err
	}
	p := &models.Person{PasswordHash: hash}
	profile.ApplyTo(p)
	p.Employee = &models.Employee{UserType: models.UserTypeAdmin, ApprovalStatus: models.ApprovalApproved}

	if err := s.store.CreateEmployee(ctx, p); err != nil {
		return nil, false, fmt.Errorf("error creating admin: %w", err)
	}
	return p, true, nil
}
