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
)

// ParticipantRepository handles participant-specific database operations
type ParticipantRepository struct {
	sb squirrel.StatementBuilderType
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert writes the participant payload for an already inserted person.
func (r *ParticipantRepository) Insert(ctx context.Context, q db.Querier, personID int64, pa *models.Participant) error {
	if pa.UUID == uuid.Nil {
		pa.UUID = uuid.New()
	}
	pa.PersonID = personID

	sql, args, err := r.sb.Insert("participants").
		Columns("uuid", "person_id", "organisation", "job_title").
		Values(pa.UUID, personID, pa.Organisation, pa.JobTitle).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert participant query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&pa.ID); err != nil {
		return dberrors.Wrap(err, "insert participant")
	}
	return nil
}

// Update rewrites organisation and job title.
func (r *ParticipantRepository) Update(ctx context.Context, q db.Querier, pa *models.Participant) error {
	sql, args, err := r.sb.Update("participants").
		Set("organisation", pa.Organisation).
		Set("job_title", pa.JobTitle).
		Where(squirrel.Eq{"id": pa.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update participant query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Wrap(err, "update participant")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrParticipantNotFound
	}
	return nil
}
