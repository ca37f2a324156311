package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/db"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/dberrors"
	"github.com/yigit/programhub/internal/pkg/logger"
)

// ScholarshipRepository handles scholarship database operations
type ScholarshipRepository struct {
	db *db.PostgresDB
}

// NewScholarshipRepository creates a new ScholarshipRepository
func NewScholarshipRepository(database *db.PostgresDB) *ScholarshipRepository {
	return &ScholarshipRepository{db: database}
}

var scholarshipColumns = []string{"id", "uuid", "title", "eligibility", "benefits", "bond_years", "outline"}

func scholarshipDest(s *models.Scholarship) []any {
	return []any{&s.ID, &s.UUID, &s.Title, &s.Eligibility, &s.Benefits, &s.BondYears, &s.Outline}
}

// Create inserts a scholarship.
func (r *ScholarshipRepository) Create(ctx context.Context, s *models.Scholarship) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	sql, args, err := psql.Insert("scholarships").
		Columns("uuid", "title", "eligibility", "benefits", "bond_years", "outline").
		Values(s.UUID, s.Title, s.Eligibility, s.Benefits, s.BondYears, s.Outline).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create scholarship SQL")
		return fmt.Errorf("failed to build insert scholarship query: %w", err)
	}

	return r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
			return dberrors.Wrap(err, "insert scholarship")
		}
		return nil
	})
}

// GetByUUID retrieves a scholarship.
func (r *ScholarshipRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*models.Scholarship, error) {
	sql, args, err := psql.Select(scholarshipColumns...).
		From("scholarships").
		Where(squirrel.Eq{"uuid": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get scholarship query: %w", err)
	}

	var s models.Scholarship
	err = r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.QueryRow(ctx, sql, args...).Scan(scholarshipDest(&s)...); err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "get scholarship")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List retrieves a page of scholarships ordered by title, with the total
// number of scholarships.
func (r *ScholarshipRepository) List(ctx context.Context, page models.Page) ([]*models.Scholarship, int64, error) {
	query := psql.Select(scholarshipColumns...).
		From("scholarships").
		OrderBy("title", "id")
	if !page.All() {
		query = query.Limit(uint64(page.Limit)).Offset(page.Offset)
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list scholarships query: %w", err)
	}

	scholarships := []*models.Scholarship{}
	var total int64
	err = r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			return dberrors.Wrap(err, "list scholarships")
		}
		defer rows.Close()

		for rows.Next() {
			var s models.Scholarship
			if err := rows.Scan(scholarshipDest(&s)...); err != nil {
				return dberrors.Wrap(err, "scan scholarship")
			}
			scholarships = append(scholarships, &s)
		}
		if err := rows.Err(); err != nil {
			return dberrors.Wrap(err, "iterate scholarships")
		}
		total, err = countTotal(ctx, q, page, len(scholarships), `SELECT COUNT(*) FROM scholarships`)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return scholarships, total, nil
}

// Update rewrites a scholarship by UUID.
func (r *ScholarshipRepository) Update(ctx context.Context, s *models.Scholarship) error {
	sql, args, err := psql.Update("scholarships").
		SetMap(map[string]interface{}{
			"title":       s.Title,
			"eligibility": s.Eligibility,
			"benefits":    s.Benefits,
			"bond_years":  s.BondYears,
			"outline":     s.Outline,
		}).
		Where(squirrel.Eq{"uuid": s.UUID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update scholarship query: %w", err)
	}

	return r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
			return notFoundOr(err, apperrors.ErrOfferingNotFound, "update scholarship")
		}
		return nil
	})
}

// Delete removes a scholarship. Applications and interests cascade.
func (r *ScholarshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM scholarships WHERE uuid = $1`, id)
		if err != nil {
			return dberrors.Wrap(err, "delete scholarship")
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrOfferingNotFound
		}
		return nil
	})
}
