package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/db"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/dberrors"
	"github.com/yigit/programhub/internal/pkg/helpers"
)

// FellowshipRepository handles fellowship database operations
type FellowshipRepository struct {
	db *db.PostgresDB
}

// NewFellowshipRepository creates a new FellowshipRepository
func NewFellowshipRepository(database *db.PostgresDB) *FellowshipRepository {
	return &FellowshipRepository{db: database}
}

var fellowshipSelect = `SELECT f.id, f.uuid, f.outline, ` + courseInfoColumns("fi") + `, ` +
	courseColumns("c", "ci") + `
	FROM fellowships f
	JOIN course_infos fi ON fi.id = f.course_info_id
	JOIN courses c ON c.id = f.course_id
	JOIN course_infos ci ON ci.id = c.course_info_id`

func fellowshipDest(f *models.Fellowship) []any {
	if f.Course == nil {
		f.Course = &models.Course{}
	}
	dest := []any{&f.ID, &f.UUID, &f.Outline}
	dest = append(dest, courseInfoDest(&f.Info)...)
	return append(dest, courseDest(f.Course)...)
}

// Create writes the fellowship and its own course info. The backing course
// must exist.
func (r *FellowshipRepository) Create(ctx context.Context, f *models.Fellowship, courseUUID uuid.UUID) error {
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		courseID, err := resolveOfferingID(ctx, tx, models.OfferingCourse, courseUUID)
		if err != nil {
			return err
		}
		if err := insertCourseInfo(ctx, tx, &f.Info); err != nil {
			return err
		}

		sql, args, err := psql.Insert("fellowships").
			Columns("uuid", "course_info_id", "course_id", "outline").
			Values(f.UUID, f.Info.ID, courseID, f.Outline).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert fellowship query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&f.ID); err != nil {
			return dberrors.Wrap(err, "insert fellowship")
		}
		return nil
	})
}

// GetByUUID retrieves a fellowship with its backing course.
func (r *FellowshipRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.Fellowship, error) {
	var f models.Fellowship
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.QueryRow(ctx, fellowshipSelect+` WHERE f.uuid = $1`, id).Scan(fellowshipDest(&f)...); err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "get fellowship")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List retrieves a page of fellowships with the total number of fellowships.
func (r *FellowshipRepository) List(ctx context.Context, page models.Page) ([]*models.Fellowship, int64, error) {
	fellowships := []*models.Fellowship{}
	var total int64
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		rows, err := q.Query(ctx, fellowshipSelect+` ORDER BY fi.application_deadline, f.id`+helpers.PageClause(page))
		if err != nil {
			return dberrors.Wrap(err, "list fellowships")
		}
		defer rows.Close()

		for rows.Next() {
			var f models.Fellowship
			if err := rows.Scan(fellowshipDest(&f)...); err != nil {
				return dberrors.Wrap(err, "scan fellowship")
			}
			fellowships = append(fellowships, &f)
		}
		if err := rows.Err(); err != nil {
			return dberrors.Wrap(err, "iterate fellowships")
		}
		total, err = countTotal(ctx, q, page, len(fellowships), `SELECT COUNT(*) FROM fellowships`)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return fellowships, total, nil
}

// Update rewrites the fellowship, its course info and optionally the backing
// course reference.
func (r *FellowshipRepository) Update(ctx context.Context, f *models.Fellowship, courseUUID *uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var courseID int64
		err := tx.QueryRow(ctx, `SELECT id, course_info_id, course_id FROM fellowships WHERE uuid = $1 FOR UPDATE`, f.UUID).
			Scan(&f.ID, &f.Info.ID, &courseID)
		if err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "lock fellowship")
		}
		if courseUUID != nil {
			if courseID, err = resolveOfferingID(ctx, tx, models.OfferingCourse, *courseUUID); err != nil {
				return err
			}
		}

		if err := updateCourseInfo(ctx, tx, &f.Info); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE fellowships SET outline = $1, course_id = $2 WHERE id = $3`,
			f.Outline, courseID, f.ID); err != nil {
			return dberrors.Wrap(err, "update fellowship")
		}
		return nil
	})
}

// Delete removes the fellowship and its course info.
func (r *FellowshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var infoID int64
		err := tx.QueryRow(ctx, `DELETE FROM fellowships WHERE uuid = $1 RETURNING course_info_id`, id).Scan(&infoID)
		if err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "delete fellowship")
		}
		return deleteCourseInfo(ctx, tx, infoID)
	})
}
