package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/db"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/dberrors"
)

// personColumns selects a person together with whichever role payload exists.
const personColumns = `
	p.id, p.uuid, p.first_name, p.middle_name, p.last_name, p.email, p.date_of_birth,
	p.password_hash, p.passport_number, p.passport_expiry, p.country, p.contact_number,
	p.notification_token, p.created_at, p.role,
	e.id, e.uuid, e.user_type, e.approval_status,
	pa.id, pa.uuid, pa.organisation, pa.job_title`

const personJoins = `
	FROM persons p
	LEFT JOIN employees e ON e.person_id = p.id
	LEFT JOIN participants pa ON pa.person_id = p.id`

// CommonRepository handles the persons table shared by both roles. Methods
// take a Querier so callers can run them inside a transaction.
type CommonRepository struct {
	sb squirrel.StatementBuilderType
}

// NewRepository creates a new CommonRepository
func NewRepository() *CommonRepository {
	return &CommonRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// InsertPerson writes the person row and fills in ID, UUID and CreatedAt.
func (r *CommonRepository) InsertPerson(ctx context.Context, q db.Querier, p *models.Person) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}

	sql, args, err := r.sb.Insert("persons").
		Columns("uuid", "first_name", "middle_name", "last_name", "email", "date_of_birth",
			"password_hash", "passport_number", "passport_expiry", "country", "contact_number",
			"notification_token", "role").
		Values(p.UUID, p.FirstName, p.MiddleName, p.LastName, p.Email, p.DateOfBirth,
			p.PasswordHash, p.PassportNumber, p.PassportExpiry, p.Country, p.ContactNumber,
			p.NotificationToken, string(p.Role)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert person query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return personWriteError(err, "insert person")
	}
	return nil
}

// PersonsEmailConstraint is the case-insensitive unique index on persons.email.
const PersonsEmailConstraint = "persons_email_key"

func personWriteError(err error, op string) error {
	if dberrors.IsDuplicateConstraintError(err, PersonsEmailConstraint) {
		return apperrors.ErrEmailAlreadyExists
	}
	if dberrors.IsUniqueViolation(err) {
		return apperrors.NewConflictError("person already exists")
	}
	return dberrors.Wrap(err, op)
}

// GetByEmail loads a person by case-insensitive email.
func (r *CommonRepository) GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Person, error) {
	row := q.QueryRow(ctx, `SELECT `+personColumns+personJoins+` WHERE LOWER(p.email) = LOWER($1)`, email)
	p, err := ScanPerson(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.NewResourceNotFoundError("person not found"), "get person by email")
	}
	return p, nil
}

// GetByEmployeeUUID loads the person owning an employee row.
func (r *CommonRepository) GetByEmployeeUUID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Person, error) {
	row := q.QueryRow(ctx, `SELECT `+personColumns+personJoins+` WHERE e.uuid = $1`, id)
	p, err := ScanPerson(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrEmployeeNotFound, "get employee")
	}
	return p, nil
}

// GetByParticipantUUID loads the person owning a participant row.
func (r *CommonRepository) GetByParticipantUUID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Person, error) {
	row := q.QueryRow(ctx, `SELECT `+personColumns+personJoins+` WHERE pa.uuid = $1`, id)
	p, err := ScanPerson(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrParticipantNotFound, "get participant")
	}
	return p, nil
}

// UpdateProfile rewrites the mutable person columns.
func (r *CommonRepository) UpdateProfile(ctx context.Context, q db.Querier, p *models.Person) error {
	sql, args, err := r.sb.Update("persons").
		SetMap(map[string]interface{}{
			"first_name":         p.FirstName,
			"middle_name":        p.MiddleName,
			"last_name":          p.LastName,
			"email":              p.Email,
			"date_of_birth":      p.DateOfBirth,
			"passport_number":    p.PassportNumber,
			"passport_expiry":    p.PassportExpiry,
			"country":            p.Country,
			"contact_number":     p.ContactNumber,
			"notification_token": p.NotificationToken,
			"updated_at":         squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update person query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return personWriteError(err, "update person")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("person not found")
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash. Empty hashes are rejected.
func (r *CommonRepository) UpdatePasswordHash(ctx context.Context, q db.Querier, personID int64, hash string) error {
	if hash == "" {
		return apperrors.NewValidationError("password hash must not be empty")
	}
	tag, err := q.Exec(ctx, `UPDATE persons SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, personID)
	if err != nil {
		return dberrors.Wrap(err, "update password")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("person not found")
	}
	return nil
}

// EmailExists checks if an email already exists
func (r *CommonRepository) EmailExists(ctx context.Context, q db.Querier, email string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM persons WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, dberrors.Wrap(err, "check email")
	}
	return exists, nil
}

// PersonColumns selects a person with both role payloads. It expects the
// aliases p (persons), e (employees) and pa (participants).
const PersonColumns = personColumns

// PersonScan collects the destinations for one PersonColumns row so callers
// can scan it alongside their own columns.
type PersonScan struct {
	p    models.Person
	role string

	empID       *int64
	empUUID     *uuid.UUID
	empType     *int16
	empApproval *int16

	partID   *int64
	partUUID *uuid.UUID
	partOrg  *string
	partJob  *string
}

// Dest returns scan destinations in PersonColumns order.
func (s *PersonScan) Dest() []any {
	return []any{
		&s.p.ID, &s.p.UUID, &s.p.FirstName, &s.p.MiddleName, &s.p.LastName, &s.p.Email, &s.p.DateOfBirth,
		&s.p.PasswordHash, &s.p.PassportNumber, &s.p.PassportExpiry, &s.p.Country, &s.p.ContactNumber,
		&s.p.NotificationToken, &s.p.CreatedAt, &s.role,
		&s.empID, &s.empUUID, &s.empType, &s.empApproval,
		&s.partID, &s.partUUID, &s.partOrg, &s.partJob,
	}
}

// Person assembles the scanned row.
func (s *PersonScan) Person() *models.Person {
	p := s.p
	p.Role = models.Role(s.role)

	if s.empID != nil {
		p.Employee = &models.Employee{
			ID:             *s.empID,
			UUID:           *s.empUUID,
			PersonID:       p.ID,
			UserType:       models.UserType(*s.empType),
			ApprovalStatus: models.ApprovalStatus(*s.empApproval),
		}
	}
	if s.partID != nil {
		p.Participant = &models.Participant{
			ID:           *s.partID,
			UUID:         *s.partUUID,
			PersonID:     p.ID,
			Organisation: *s.partOrg,
			JobTitle:     *s.partJob,
		}
	}
	return &p
}

// ScanPerson scans a single PersonColumns row.
func ScanPerson(row pgx.Row) (*models.Person, error) {
	var s PersonScan
	if err := row.Scan(s.Dest()...); err != nil {
		return nil, err
	}
	return s.Person(), nil
}

// notFoundOr maps pgx.ErrNoRows to notFound and wraps anything else.
func notFoundOr(err, notFound error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return dberrors.Wrap(err, op)
}
