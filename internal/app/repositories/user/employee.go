package user

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/db"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/dberrors"
	"github.com/yigit/programhub/internal/pkg/helpers"
	"github.com/yigit/programhub/internal/pkg/logger"
)

// EmployeeRepository handles employee-specific database operations
type EmployeeRepository struct {
	sb squirrel.StatementBuilderType
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert writes the employee payload for an already inserted person.
func (r *EmployeeRepository) Insert(ctx context.Context, q db.Querier, personID int64, e *models.Employee) error {
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	e.PersonID = personID

	sql, args, err := r.sb.Insert("employees").
		Columns("uuid", "person_id", "user_type", "approval_status").
		Values(e.UUID, personID, int(e.UserType), int(e.ApprovalStatus)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert employee query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		logger.Error().Err(err).Int64("personID", personID).Msg("Error inserting employee")
		return dberrors.Wrap(err, "insert employee")
	}
	return nil
}

// ListByApproval returns a page of employees in the given approval state,
// oldest first.
func (r *EmployeeRepository) ListByApproval(ctx context.Context, q db.Querier, status models.ApprovalStatus, page models.Page) ([]*models.Person, error) {
	rows, err := q.Query(ctx,
		`SELECT `+personColumns+personJoins+` WHERE e.approval_status = $1 ORDER BY p.created_at, p.id`+helpers.PageClause(page),
		int(status))
	if err != nil {
		logger.Error().Err(err).Msg("Error querying employees by approval")
		return nil, dberrors.Wrap(err, "list employees")
	}
	defer rows.Close()

	people := []*models.Person{}
	for rows.Next() {
		p, err := ScanPerson(rows)
		if err != nil {
			return nil, dberrors.Wrap(err, "scan employee")
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(err, "iterate employees")
	}
	return people, nil
}

// CountByApproval counts employees in the given approval state.
func (r *EmployeeRepository) CountByApproval(ctx context.Context, q db.Querier, status models.ApprovalStatus) (int64, error) {
	var total int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE approval_status = $1`, int(status)).Scan(&total)
	if err != nil {
		return 0, dberrors.Wrap(err, "count employees")
	}
	return total, nil
}

// UpdateApprovalStatus sets the approval state of one employee.
func (r *EmployeeRepository) UpdateApprovalStatus(ctx context.Context, q db.Querier, employeeUUID uuid.UUID, status models.ApprovalStatus) error {
	sql, args, err := r.sb.Update("employees").
		Set("approval_status", int(status)).
		Where(squirrel.Eq{"uuid": employeeUUID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update approval query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Wrap(err, "update approval")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}
