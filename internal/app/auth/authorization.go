package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/logger"
)

// EmployeeReader loads an employee's person record.
type EmployeeReader interface {
	GetEmployee(ctx context.Context, employeeUUID uuid.UUID) (*models.Person, error)
}

// AuthorizationService checks permissions against stored state rather than
// token claims alone, so revoked approvals take effect immediately.
type AuthorizationService struct {
	employees EmployeeReader
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(employees EmployeeReader) *AuthorizationService {
	return &AuthorizationService{employees: employees}
}

// approvedEmployee loads the employee and requires approval. Unknown
// employees are reported as permission denied.
func (s *AuthorizationService) approvedEmployee(ctx context.Context, employeeUUID uuid.UUID) (*models.Person, error) {
	p, err := s.employees.GetEmployee(ctx, employeeUUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewForbiddenError("unknown employee")
		}
		logger.Error().Err(err).Str("employee", employeeUUID.String()).Msg("Error loading employee for authorization")
		return nil, err
	}
	if !p.IsApprovedStaff() {
		return nil, apperrors.NewForbiddenError("employee is not approved")
	}
	return p, nil
}

// ValidateApprovedStaff returns nil if the employee exists and is approved.
func (s *AuthorizationService) ValidateApprovedStaff(ctx context.Context, employeeUUID uuid.UUID) error {
	_, err := s.approvedEmployee(ctx, employeeUUID)
	return err
}

// ValidateApprovedAdmin returns nil if the employee is an approved admin.
func (s *AuthorizationService) ValidateApprovedAdmin(ctx context.Context, employeeUUID uuid.UUID) error {
	p, err := s.approvedEmployee(ctx, employeeUUID)
	if err != nil {
		return err
	}
	if p.Employee.UserType != models.UserTypeAdmin {
		return apperrors.NewForbiddenError("admin level required")
	}
	return nil
}

// ValidateApprovalChange checks that actor may set target's approval status.
// Only approved admins may, and never on themselves.
func (s *AuthorizationService) ValidateApprovalChange(ctx context.Context, actor, target uuid.UUID) error {
	if actor == target {
		return fmt.Errorf("%w: cannot change own approval status", apperrors.ErrPermissionDenied)
	}
	return s.ValidateApprovedAdmin(ctx, actor)
}
