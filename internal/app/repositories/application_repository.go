package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/repositories/user"
	"github.com/yigit/programhub/internal/db"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/dberrors"
	"github.com/yigit/programhub/internal/pkg/logger"
)

// ApplicationRepository stores applications of every offering kind in one
// tagged table.
type ApplicationRepository struct {
	db *db.PostgresDB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(database *db.PostgresDB) *ApplicationRepository {
	return &ApplicationRepository{db: database}
}

const applicationColumns = `x.id, x.uuid, x.offering_kind, x.participant_id, ` +
	`COALESCE(x.course_id, x.fellowship_id, x.scholarship_id, x.diploma_id), ` +
	offeringUUIDColumn + `, x.progress_type, x.created_at, x.updated_at`

const applicationSelect = `SELECT ` + applicationColumns + ` FROM applications x` + offeringJoins

func applicationDest(a *models.Application) []any {
	return []any{&a.ID, &a.UUID, &a.Kind, &a.ParticipantID, &a.OfferingID, &a.OfferingUUID,
		&a.Progress, &a.CreatedAt, &a.UpdatedAt}
}

func getApplication(ctx context.Context, q db.Querier, id int64) (*models.Application, error) {
	var a models.Application
	if err := q.QueryRow(ctx, applicationSelect+` WHERE x.id = $1`, id).Scan(applicationDest(&a)...); err != nil {
		return nil, notFoundOr(err, apperrors.ErrApplicationNotFound, "get application")
	}
	return &a, nil
}

// Create looks up the participant and offering and inserts a NotApproved
// application, all in one transaction.
func (r *ApplicationRepository) Create(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind, offeringUUID uuid.UUID) (*models.Application, error) {
	_, fkColumn, err := offeringTable(kind)
	if err != nil {
		return nil, err
	}

	var app *models.Application
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		participantID, err := resolveParticipantID(ctx, tx, participantUUID)
		if err != nil {
			return err
		}
		offeringID, err := resolveOfferingID(ctx, tx, kind, offeringUUID)
		if err != nil {
			return err
		}

		sql, args, err := psql.Insert("applications").
			Columns("uuid", "participant_id", "offering_kind", fkColumn, "progress_type").
			Values(uuid.New(), participantID, int(kind), offeringID, int(models.ProgressNotApproved)).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert application query: %w", err)
		}

		var id int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Str("kind", kind.String()).Msg("Error inserting application")
			return dberrors.Wrap(err, "insert application")
		}
		app, err = getApplication(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// TransitionProgress locks the application, checks the transition and writes
// the new state. Concurrent transitions on one application are serialized.
func (r *ApplicationRepository) TransitionProgress(ctx context.Context, kind models.OfferingKind, applicationUUID uuid.UUID, next models.ProgressType) (*models.Application, error) {
	var app *models.Application
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var (
			id      int64
			current models.ProgressType
		)
		err := tx.QueryRow(ctx,
			`SELECT id, progress_type FROM applications WHERE uuid = $1 AND offering_kind = $2 FOR UPDATE`,
			applicationUUID, int(kind)).Scan(&id, &current)
		if err != nil {
			return notFoundOr(err, apperrors.ErrApplicationNotFound, "lock application")
		}

		if !current.CanTransitionTo(next) {
			return apperrors.NewCustomError(apperrors.ErrInvalidTransition,
				fmt.Sprintf("cannot move application from %s to %s", current, next)).
				WithDetails(map[string]interface{}{"from": current.String(), "to": next.String()})
		}

		if _, err := tx.Exec(ctx,
			`UPDATE applications SET progress_type = $1, updated_at = NOW() WHERE id = $2`,
			int(next), id); err != nil {
			return dberrors.Wrap(err, "update progress")
		}

		app, err = getApplication(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplicantsForOffering joins each application on the offering with the
// applying participant's person. Unknown offerings are NotFound; an offering
// without applications yields an empty list.
func (r *ApplicationRepository) ListApplicantsForOffering(ctx context.Context, kind models.OfferingKind, offeringUUID uuid.UUID) ([]*models.Applicant, error) {
	_, fkColumn, err := offeringTable(kind)
	if err != nil {
		return nil, err
	}

	applicants := []*models.Applicant{}
	err = r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		offeringID, err := resolveOfferingID(ctx, q, kind, offeringUUID)
		if err != nil {
			return err
		}

		rows, err := q.Query(ctx, `SELECT `+applicationColumns+`, `+user.PersonColumns+`
			FROM applications x`+offeringJoins+`
			JOIN participants pa ON pa.id = x.participant_id
			JOIN persons p ON p.id = pa.person_id
			LEFT JOIN employees e ON e.person_id = p.id
			WHERE x.`+fkColumn+` = $1
			ORDER BY x.created_at, x.id`, offeringID)
		if err != nil {
			return dberrors.Wrap(err, "list applicants")
		}
		defer rows.Close()

		for rows.Next() {
			var (
				a  models.Applicant
				ps user.PersonScan
			)
			if err := rows.Scan(append(applicationDest(&a.Application), ps.Dest()...)...); err != nil {
				return dberrors.Wrap(err, "scan applicant")
			}
			a.Person = *ps.Person()
			applicants = append(applicants, &a)
		}
		return dberrors.Wrap(rows.Err(), "iterate applicants")
	})
	if err != nil {
		return nil, err
	}
	return applicants, nil
}

// ListForParticipant lists a participant's applications of one kind.
func (r *ApplicationRepository) ListForParticipant(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind) ([]*models.Application, error) {
	if _, _, err := offeringTable(kind); err != nil {
		return nil, err
	}

	apps := []*models.Application{}
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		participantID, err := resolveParticipantID(ctx, q, participantUUID)
		if err != nil {
			return err
		}

		rows, err := q.Query(ctx, applicationSelect+`
			WHERE x.participant_id = $1 AND x.offering_kind = $2
			ORDER BY x.created_at, x.id`, participantID, int(kind))
		if err != nil {
			return dberrors.Wrap(err, "list applications")
		}
		defer rows.Close()

		for rows.Next() {
			var a models.Application
			if err := rows.Scan(applicationDest(&a)...); err != nil {
				return dberrors.Wrap(err, "scan application")
			}
			apps = append(apps, &a)
		}
		return dberrors.Wrap(rows.Err(), "iterate applications")
	})
	if err != nil {
		return nil, err
	}
	return apps, nil
}
