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
)

// InterestRepository stores interests of every offering kind in one tagged
// table.
type InterestRepository struct {
	db *db.PostgresDB
}

// NewInterestRepository creates a new InterestRepository
func NewInterestRepository(database *db.PostgresDB) *InterestRepository {
	return &InterestRepository{db: database}
}

const interestSelect = `SELECT x.id, x.uuid, x.offering_kind, x.participant_id, pa.uuid, ` +
	offeringUUIDColumn + `, x.created_at
	FROM interests x JOIN participants pa ON pa.id = x.participant_id` + offeringJoins

func interestDest(i *models.Interest) []any {
	return []any{&i.ID, &i.UUID, &i.Kind, &i.ParticipantID, &i.ParticipantUUID, &i.OfferingUUID, &i.CreatedAt}
}

// Create records an interest after checking participant and offering exist.
func (r *InterestRepository) Create(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind, offeringUUID uuid.UUID) (*models.Interest, error) {
	_, fkColumn, err := offeringTable(kind)
	if err != nil {
		return nil, err
	}

	var interest models.Interest
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		participantID, err := resolveParticipantID(ctx, tx, participantUUID)
		if err != nil {
			return err
		}
		offeringID, err := resolveOfferingID(ctx, tx, kind, offeringUUID)
		if err != nil {
			return err
		}

		sql, args, err := psql.Insert("interests").
			Columns("uuid", "participant_id", "offering_kind", fkColumn).
			Values(uuid.New(), participantID, int(kind), offeringID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert interest query: %w", err)
		}

		var id int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return dberrors.Wrap(err, "insert interest")
		}
		if err := tx.QueryRow(ctx, interestSelect+` WHERE x.id = $1`, id).Scan(interestDest(&interest)...); err != nil {
			return dberrors.Wrap(err, "reload interest")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

// Delete removes one interest owned by the participant and reports its kind.
// Interests of other participants are never touched.
func (r *InterestRepository) Delete(ctx context.Context, participantUUID, interestUUID uuid.UUID) (models.OfferingKind, error) {
	var kind models.OfferingKind
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		err := q.QueryRow(ctx, `
			DELETE FROM interests i
			USING participants pa
			WHERE i.participant_id = pa.id AND pa.uuid = $1 AND i.uuid = $2
			RETURNING i.offering_kind`, participantUUID, interestUUID).Scan(&kind)
		if err != nil {
			return notFoundOr(err, apperrors.ErrInterestNotFound, "delete interest")
		}
		return nil
	})
	return kind, err
}

// ListForParticipant lists every interest of a participant, all kinds.
func (r *InterestRepository) ListForParticipant(ctx context.Context, participantUUID uuid.UUID) ([]*models.Interest, error) {
	interests := []*models.Interest{}
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if _, err := resolveParticipantID(ctx, q, participantUUID); err != nil {
			return err
		}

		rows, err := q.Query(ctx, interestSelect+` WHERE pa.uuid = $1 ORDER BY x.offering_kind, x.created_at, x.id`, participantUUID)
		if err != nil {
			return dberrors.Wrap(err, "list interests")
		}
		defer rows.Close()

		for rows.Next() {
			var i models.Interest
			if err := rows.Scan(interestDest(&i)...); err != nil {
				return dberrors.Wrap(err, "scan interest")
			}
			interests = append(interests, &i)
		}
		return dberrors.Wrap(rows.Err(), "iterate interests")
	})
	if err != nil {
		return nil, err
	}
	return interests, nil
}
