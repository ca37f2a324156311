package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/repositories/user"
	"github.com/yigit/programhub/internal/db"
)

// UserRepository combines the person, employee and participant stores.
type UserRepository struct {
	db          *db.PostgresDB
	common      *user.CommonRepository
	employee    *user.EmployeeRepository
	participant *user.ParticipantRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{
		db:          database,
		common:      user.NewRepository(),
		employee:    user.NewEmployeeRepository(),
		participant: user.NewParticipantRepository(),
	}
}

// CreateEmployee inserts the person and its employee payload atomically.
func (r *UserRepository) CreateEmployee(ctx context.Context, p *models.Person) error {
	p.Role = models.RoleEmployee
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.common.InsertPerson(ctx, tx, p); err != nil {
			return err
		}
		return r.employee.Insert(ctx, tx, p.ID, p.Employee)
	})
}

// CreateParticipant inserts the person and its participant payload atomically.
func (r *UserRepository) CreateParticipant(ctx context.Context, p *models.Person) error {
	p.Role = models.RoleParticipant
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.common.InsertPerson(ctx, tx, p); err != nil {
			return err
		}
		return r.participant.Insert(ctx, tx, p.ID, p.Participant)
	})
}

// GetPersonByEmail retrieves a person and both role payloads by email.
func (r *UserRepository) GetPersonByEmail(ctx context.Context, email string) (*models.Person, error) {
	var p *models.Person
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		p, err = r.common.GetByEmail(ctx, q, email)
		return err
	})
	return p, err
}

// GetEmployee retrieves an employee's person by employee UUID.
func (r *UserRepository) GetEmployee(ctx context.Context, employeeUUID uuid.UUID) (*models.Person, error) {
	var p *models.Person
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		p, err = r.common.GetByEmployeeUUID(ctx, q, employeeUUID)
		return err
	})
	return p, err
}

// GetParticipant retrieves a participant's person by participant UUID.
func (r *UserRepository) GetParticipant(ctx context.Context, participantUUID uuid.UUID) (*models.Person, error) {
	var p *models.Person
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		p, err = r.common.GetByParticipantUUID(ctx, q, participantUUID)
		return err
	})
	return p, err
}

// ListEmployeesByApproval lists a page of employees in one approval state
// with the number of employees in that state.
func (r *UserRepository) ListEmployeesByApproval(ctx context.Context, status models.ApprovalStatus, page models.Page) ([]*models.Person, int64, error) {
	var (
		people []*models.Person
		total  int64
	)
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		people, err = r.employee.ListByApproval(ctx, q, status, page)
		if err != nil {
			return err
		}
		if page.All() {
			total = int64(len(people))
			return nil
		}
		total, err = r.employee.CountByApproval(ctx, q, status)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return people, total, nil
}

// UpdateApprovalStatus changes an employee's approval state.
func (r *UserRepository) UpdateApprovalStatus(ctx context.Context, employeeUUID uuid.UUID, status models.ApprovalStatus) error {
	return r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		return r.employee.UpdateApprovalStatus(ctx, q, employeeUUID, status)
	})
}

// UpdatePasswordHash replaces a person's password hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, personID int64, hash string) error {
	return r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		return r.common.UpdatePasswordHash(ctx, q, personID, hash)
	})
}

// UpdateProfile writes the person columns, the participant payload when present
// and, if newHash is non-empty, the password hash in one transaction.
func (r *UserRepository) UpdateProfile(ctx context.Context, p *models.Person, newHash string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.common.UpdateProfile(ctx, tx, p); err != nil {
			return err
		}
		if p.Participant != nil {
			if err := r.participant.Update(ctx, tx, p.Participant); err != nil {
				return err
			}
		}
		if newHash != "" {
			if err := r.common.UpdatePasswordHash(ctx, tx, p.ID, newHash); err != nil {
				return err
			}
			p.PasswordHash = newHash
		}
		return nil
	})
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Do(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		exists, err = r.common.EmailExists(ctx, q, email)
		return err
	})
	return exists, err
}
