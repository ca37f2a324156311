package repositories

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

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// countTotal reports the size of a whole listing. When page selects every
// row the listed count is the total and no query runs.
func countTotal(ctx context.Context, q db.Querier, page models.Page, listed int, countSQL string, args ...any) (int64, error) {
	if page.All() {
		return int64(listed), nil
	}
	var total int64
	if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return 0, dberrors.Wrap(err, "count rows")
	}
	return total, nil
}

// offeringTable returns the table of a kind and the matching foreign key
// column on applications and interests.
func offeringTable(kind models.OfferingKind) (table, fkColumn string, err error) {
	switch kind {
	case models.OfferingCourse:
		return "courses", "course_id", nil
	case models.OfferingFellowship:
		return "fellowships", "fellowship_id", nil
	case models.OfferingScholarship:
		return "scholarships", "scholarship_id", nil
	case models.OfferingDiploma:
		return "diplomas", "diploma_id", nil
	}
	return "", "", apperrors.NewValidationError(fmt.Sprintf("unknown offering kind %d", int(kind)))
}

// offeringJoins left-joins the four offering tables onto alias x so that
// offeringUUIDColumn resolves the referenced offering.
const offeringJoins = `
	LEFT JOIN courses o_c ON o_c.id = x.course_id
	LEFT JOIN fellowships o_f ON o_f.id = x.fellowship_id
	LEFT JOIN scholarships o_s ON o_s.id = x.scholarship_id
	LEFT JOIN diplomas o_d ON o_d.id = x.diploma_id`

const offeringUUIDColumn = `COALESCE(o_c.uuid, o_f.uuid, o_s.uuid, o_d.uuid)`

// resolveOfferingID maps an offering UUID of the given kind to its key.
func resolveOfferingID(ctx context.Context, q db.Querier, kind models.OfferingKind, id uuid.UUID) (int64, error) {
	table, _, err := offeringTable(kind)
	if err != nil {
		return 0, err
	}
	var pk int64
	err = q.QueryRow(ctx, `SELECT id FROM `+table+` WHERE uuid = $1`, id).Scan(&pk)
	if err != nil {
		return 0, notFoundOr(err, apperrors.ErrOfferingNotFound, "resolve offering")
	}
	return pk, nil
}

// resolveParticipantID maps a participant UUID to its key.
func resolveParticipantID(ctx context.Context, q db.Querier, id uuid.UUID) (int64, error) {
	var pk int64
	err := q.QueryRow(ctx, `SELECT id FROM participants WHERE uuid = $1`, id).Scan(&pk)
	if err != nil {
		return 0, notFoundOr(err, apperrors.ErrParticipantNotFound, "resolve participant")
	}
	return pk, nil
}

func notFoundOr(err, notFound error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return dberrors.Wrap(err, op)
}

// Course info rows are owned by exactly one course, fellowship or diploma and
// are always written inside the owner's transaction.

func insertCourseInfo(ctx context.Context, q db.Querier, info *models.CourseInfo) error {
	sql, args, err := psql.Insert("course_infos").
		Columns("title", "start_date", "end_date", "application_deadline").
		Values(info.Title, info.StartDate, info.EndDate, info.ApplicationDeadline).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert course info query: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&info.ID); err != nil {
		return dberrors.Wrap(err, "insert course info")
	}
	return nil
}

func updateCourseInfo(ctx context.Context, q db.Querier, info *models.CourseInfo) error {
	sql, args, err := psql.Update("course_infos").
		Set("title", info.Title).
		Set("start_date", info.StartDate).
		Set("end_date", info.EndDate).
		Set("application_deadline", info.ApplicationDeadline).
		Where(squirrel.Eq{"id": info.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course info query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return dberrors.Wrap(err, "update course info")
	}
	return nil
}

func deleteCourseInfo(ctx context.Context, q db.Querier, id int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM course_infos WHERE id = $1`, id); err != nil {
		return dberrors.Wrap(err, "delete course info")
	}
	return nil
}

// courseInfoColumns lists course info columns under alias a.
func courseInfoColumns(a string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.title, %[1]s.start_date, %[1]s.end_date, %[1]s.application_deadline", a)
}

func courseInfoDest(info *models.CourseInfo) []any {
	return []any{&info.ID, &info.Title, &info.StartDate, &info.EndDate, &info.ApplicationDeadline}
}
