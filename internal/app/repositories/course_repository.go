package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/db"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/dberrors"
	"github.com/yigit/programhub/internal/pkg/helpers"
	"github.com/yigit/programhub/internal/pkg/logger"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db *db.PostgresDB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{db: database}
}

func courseColumns(c, ci string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.uuid, %[1]s.fees, %[1]s.learning_outcomes, %[1]s.prerequisites, "+
		"%[1]s.learning_activities, %[1]s.language, %[1]s.covered, %[1]s.who_should_attend, ", c) +
		courseInfoColumns(ci)
}

func courseDest(c *models.Course) []any {
	return append([]any{
		&c.ID, &c.UUID, &c.Fees, &c.LearningOutcomes, &c.Prerequisites,
		&c.LearningActivities, &c.Language, &c.Covered, &c.WhoShouldAttend,
	}, courseInfoDest(&c.Info)...)
}

const courseFrom = ` FROM courses c JOIN course_infos ci ON ci.id = c.course_info_id`

// Create writes the course info and the course in one transaction.
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertCourseInfo(ctx, tx, &c.Info); err != nil {
			return err
		}

		sql, args, err := psql.Insert("courses").
			Columns("uuid", "course_info_id", "fees", "learning_outcomes", "prerequisites",
				"learning_activities", "language", "covered", "who_should_attend").
			Values(c.UUID, c.Info.ID, c.Fees, c.LearningOutcomes, c.Prerequisites,
				c.LearningActivities, c.Language, c.Covered, c.WhoShouldAttend).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert course query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&c.ID); err != nil {
			logger.Error().Err(err).Str("title", c.Info.Title).Msg("Error inserting course")
			return dberrors.Wrap(err, "insert course")
		}
		return nil
	})
}

// GetByUUID retrieves a course with its course info.
func (r *CourseRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		err := q.QueryRow(ctx, `SELECT `+courseColumns("c", "ci")+courseFrom+` WHERE c.uuid = $1`, id).
			Scan(courseDest(&c)...)
		if err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "get course")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List retrieves a page of courses ordered by application deadline, with the
// total number of courses.
func (r *CourseRepository) List(ctx context.Context, page models.Page) ([]*models.Course, int64, error) {
	courses := []*models.Course{}
	var total int64
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		rows, err := q.Query(ctx, `SELECT `+courseColumns("c", "ci")+courseFrom+
			` ORDER BY ci.application_deadline, c.id`+helpers.PageClause(page))
		if err != nil {
			return dberrors.Wrap(err, "list courses")
		}
		defer rows.Close()

		for rows.Next() {
			var c models.Course
			if err := rows.Scan(courseDest(&c)...); err != nil {
				return dberrors.Wrap(err, "scan course")
			}
			courses = append(courses, &c)
		}
		if err := rows.Err(); err != nil {
			return dberrors.Wrap(err, "iterate courses")
		}
		total, err = countTotal(ctx, q, page, len(courses), `SELECT COUNT(*) FROM courses`)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// Update rewrites the course and its course info in one transaction.
func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT id, course_info_id FROM courses WHERE uuid = $1 FOR UPDATE`, c.UUID).
			Scan(&c.ID, &c.Info.ID)
		if err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "lock course")
		}

		if err := updateCourseInfo(ctx, tx, &c.Info); err != nil {
			return err
		}

		sql, args, err := psql.Update("courses").
			SetMap(map[string]interface{}{
				"fees":                c.Fees,
				"learning_outcomes":   c.LearningOutcomes,
				"prerequisites":       c.Prerequisites,
				"learning_activities": c.LearningActivities,
				"language":            c.Language,
				"covered":             c.Covered,
				"who_should_attend":   c.WhoShouldAttend,
			}).
			Where(squirrel.Eq{"id": c.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update course query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return dberrors.Wrap(err, "update course")
		}
		return nil
	})
}

// Delete removes the course and then its course info. Either both rows go
// or neither does. A course backing a fellowship is refused.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var infoID int64
		err := tx.QueryRow(ctx, `DELETE FROM courses WHERE uuid = $1 RETURNING course_info_id`, id).Scan(&infoID)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrCourseInUse
			}
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "delete course")
		}
		return deleteCourseInfo(ctx, tx, infoID)
	})
}
