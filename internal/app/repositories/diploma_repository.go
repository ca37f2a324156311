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

// DiplomaRepository handles diploma database operations
type DiplomaRepository struct {
	db *db.PostgresDB
}

// NewDiplomaRepository creates a new DiplomaRepository
func NewDiplomaRepository(database *db.PostgresDB) *DiplomaRepository {
	return &DiplomaRepository{db: database}
}

var diplomaSelect = `SELECT d.id, d.uuid, d.fees, d.outline, ` + courseInfoColumns("di") + `
	FROM diplomas d JOIN course_infos di ON di.id = d.course_info_id`

func diplomaDest(d *models.Diploma) []any {
	return append([]any{&d.ID, &d.UUID, &d.Fees, &d.Outline}, courseInfoDest(&d.Info)...)
}

// Create writes the course info and the diploma in one transaction.
func (r *DiplomaRepository) Create(ctx context.Context, d *models.Diploma) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertCourseInfo(ctx, tx, &d.Info); err != nil {
			return err
		}
		sql, args, err := psql.Insert("diplomas").
			Columns("uuid", "course_info_id", "fees", "outline").
			Values(d.UUID, d.Info.ID, d.Fees, d.Outline).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert diploma query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&d.ID); err != nil {
			return dberrors.Wrap(err, "insert diploma")
		}
		return nil
	})
}

// GetByUUID retrieves a diploma with its course info.
func (r *DiplomaRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.Diploma, error) {
	var d models.Diploma
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.QueryRow(ctx, diplomaSelect+` WHERE d.uuid = $1`, id).Scan(diplomaDest(&d)...); err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "get diploma")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List retrieves a page of diplomas with the total number of diplomas.
func (r *DiplomaRepository) List(ctx context.Context, page models.Page) ([]*models.Diploma, int64, error) {
	diplomas := []*models.Diploma{}
	var total int64
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		rows, err := q.Query(ctx, diplomaSelect+` ORDER BY di.application_deadline, d.id`+helpers.PageClause(page))
		if err != nil {
			return dberrors.Wrap(err, "list diplomas")
		}
		defer rows.Close()

		for rows.Next() {
			var d models.Diploma
			if err := rows.Scan(diplomaDest(&d)...); err != nil {
				return dberrors.Wrap(err, "scan diploma")
			}
			diplomas = append(diplomas, &d)
		}
		if err := rows.Err(); err != nil {
			return dberrors.Wrap(err, "iterate diplomas")
		}
		total, err = countTotal(ctx, q, page, len(diplomas), `SELECT COUNT(*) FROM diplomas`)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return diplomas, total, nil
}

// Update rewrites the diploma and its course info.
func (r *DiplomaRepository) Update(ctx context.Context, d *models.Diploma) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT id, course_info_id FROM diplomas WHERE uuid = $1 FOR UPDATE`, d.UUID).
			Scan(&d.ID, &d.Info.ID)
		if err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "lock diploma")
		}
		if err := updateCourseInfo(ctx, tx, &d.Info); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE diplomas SET fees = $1, outline = $2 WHERE id = $3`,
			d.Fees, d.Outline, d.ID); err != nil {
			return dberrors.Wrap(err, "update diploma")
		}
		return nil
	})
}

// Delete removes the diploma and its course info.
func (r *DiplomaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var infoID int64
		err := tx.QueryRow(ctx, `DELETE FROM diplomas WHERE uuid = $1 RETURNING course_info_id`, id).Scan(&infoID)
		if err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "delete diploma")
		}
		return deleteCourseInfo(ctx, tx, infoID)
	})
}
