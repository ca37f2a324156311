package repositories

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/programhub/internal/app/migrations"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/db"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// These tests run against a real PostgreSQL instance and are skipped unless
// PROGRAMHUB_TEST_DATABASE_URL is set.
func testRepos(t *testing.T) (*Repositories, *db.PostgresDB) {
	t.Helper()
	dsn := os.Getenv("PROGRAMHUB_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PROGRAMHUB_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.NewMigrator(pool, zerolog.Nop()).Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database := db.NewFromPool(pool)
	return NewRepositories(database), database
}

func newTestPerson(role models.Role) *models.Person {
	p := &models.Person{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          uuid.NewString() + "@example.com",
		DateOfBirth:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		PasswordHash:   "$argon2id$v=19$m=65536,t=1,p=2$c2FsdA$aGFzaA",
		PassportNumber: "X1234567",
		PassportExpiry: time.Date(2035, 1, 1, 0, 0, 0, 0, time.UTC),
		Country:        "GB",
		ContactNumber:  "+441234567",
	}
	if role == models.RoleEmployee {
		p.Employee = &models.Employee{UserType: models.UserTypeCourseManager, ApprovalStatus: models.ApprovalPending}
	} else {
		p.Participant = &models.Participant{Organisation: "Acme", JobTitle: "Engineer"}
	}
	return p
}

func newTestCourse(title string) *models.Course {
	start := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	end := start.Add(14 * 24 * time.Hour)
	return &models.Course{
		Info: models.CourseInfo{
			Title:               title,
			StartDate:           &start,
			EndDate:             &end,
			ApplicationDeadline: start.Add(-7 * 24 * time.Hour),
		},
		Fees:     100,
		Language: "English",
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repos, _ := testRepos(t)
	ctx := context.Background()

	first := newTestPerson(models.RoleParticipant)
	if err := repos.UserRepository.CreateParticipant(ctx, first); err != nil {
		t.Fatalf("CreateParticipant() error = %v", err)
	}

	second := newTestPerson(models.RoleEmployee)
	second.Email = strings.ToUpper(first.Email)
	if err := repos.UserRepository.CreateEmployee(ctx, second); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("CreateEmployee() error = %v, want email already exists", err)
	}
	if exists, err := repos.UserRepository.EmailExists(ctx, strings.ToUpper(first.Email)); err != nil || !exists {
		t.Errorf("EmailExists() = %v, %v, want true", exists, err)
	}

	got, err := repos.UserRepository.GetPersonByEmail(ctx, first.Email)
	if err != nil {
		t.Fatalf("GetPersonByEmail() error = %v", err)
	}
	if got.Employee != nil || got.Participant == nil {
		t.Errorf("failed employee registration left a role row behind: %+v", got)
	}
}

func TestUserRepository_OversizedValuesAreValidationErrors(t *testing.T) {
	repos, database := testRepos(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p := newTestPerson(models.RoleParticipant)
		p.ContactNumber = strings.Repeat("1", 21)
		err := repos.UserRepository.CreateParticipant(ctx, p)
		if !errors.Is(err, apperrors.ErrValidationFailed) || errors.Is(err, apperrors.ErrStorageFailure) {
			t.Fatalf("CreateParticipant(long contact) error = %v, want validation failure", err)
		}
	}

	if err := database.Ping(ctx); err != nil {
		t.Fatalf("Ping() after rejected values = %v, want breaker closed", err)
	}
}

func TestUserRepository_ApprovalLifecycle(t *testing.T) {
	repos, _ := testRepos(t)
	ctx := context.Background()

	p := newTestPerson(models.RoleEmployee)
	if err := repos.UserRepository.CreateEmployee(ctx, p); err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}

	if err := repos.UserRepository.UpdateApprovalStatus(ctx, p.Employee.UUID, models.ApprovalApproved); err != nil {
		t.Fatalf("UpdateApprovalStatus() error = %v", err)
	}
	got, err := repos.UserRepository.GetEmployee(ctx, p.Employee.UUID)
	if err != nil {
		t.Fatalf("GetEmployee() error = %v", err)
	}
	if !got.IsApprovedStaff() {
		t.Errorf("employee not approved: %+v", got.Employee)
	}

	if err := repos.UserRepository.UpdateApprovalStatus(ctx, uuid.New(), models.ApprovalApproved); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("UpdateApprovalStatus(unknown) error = %v, want not found", err)
	}
}

func TestCourseRepository_ListPages(t *testing.T) {
	repos, database := testRepos(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repos.CourseRepository.Create(ctx, newTestCourse("Paged")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	var want int64
	if err := database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&want); err != nil {
		t.Fatalf("count: %v", err)
	}

	all, total, err := repos.CourseRepository.List(ctx, models.Page{})
	if err != nil {
		t.Fatalf("List(all) error = %v", err)
	}
	if total != want || int64(len(all)) != want {
		t.Errorf("List(all) = %d rows, total %d, want %d", len(all), total, want)
	}

	page, total, err := repos.CourseRepository.List(ctx, models.Page{Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List(page) error = %v", err)
	}
	if total != want || len(page) != 2 {
		t.Errorf("List(page) = %d rows, total %d, want 2 of %d", len(page), total, want)
	}
	if page[0].UUID != all[1].UUID {
		t.Errorf("page starts at %s, want %s", page[0].UUID, all[1].UUID)
	}

	pending, total, err := repos.UserRepository.ListEmployeesByApproval(ctx, models.ApprovalPending, models.Page{Limit: 1})
	if err != nil {
		t.Fatalf("ListEmployeesByApproval() error = %v", err)
	}
	if len(pending) > 1 || total < int64(len(pending)) {
		t.Errorf("ListEmployeesByApproval(limit 1) = %d rows, total %d", len(pending), total)
	}
}

func TestCourseRepository_DeleteRemovesCourseInfo(t *testing.T) {
	repos, database := testRepos(t)
	ctx := context.Background()

	c := newTestCourse("Delete me")
	if err := repos.CourseRepository.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repos.CourseRepository.Delete(ctx, c.UUID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var n int
	if err := database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_infos WHERE id = $1`, c.Info.ID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("course info still present after delete")
	}
	if _, err := repos.CourseRepository.GetByUUID(ctx, c.UUID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("GetByUUID() error = %v, want not found", err)
	}
}

func TestCourseRepository_DeleteRollsBackOnSecondStatementFailure(t *testing.T) {
	repos, database := testRepos(t)
	ctx := context.Background()

	const guarded = "rollback-guard"
	_, err := database.Pool.Exec(ctx, `
		CREATE OR REPLACE FUNCTION refuse_guarded_delete() RETURNS trigger AS $$
		BEGIN
			IF OLD.title = '`+guarded+`' THEN
				RAISE EXCEPTION 'course info delete refused';
			END IF;
			RETURN OLD;
		END;
		$$ LANGUAGE plpgsql;
		DROP TRIGGER IF EXISTS refuse_guarded_delete ON course_infos;
		CREATE TRIGGER refuse_guarded_delete BEFORE DELETE ON course_infos
			FOR EACH ROW EXECUTE FUNCTION refuse_guarded_delete();`)
	if err != nil {
		t.Fatalf("install trigger: %v", err)
	}
	t.Cleanup(func() {
		_, _ = database.Pool.Exec(context.Background(), `DROP TRIGGER IF EXISTS refuse_guarded_delete ON course_infos`)
	})

	c := newTestCourse(guarded)
	if err := repos.CourseRepository.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repos.CourseRepository.Delete(ctx, c.UUID); !errors.Is(err, apperrors.ErrStorageFailure) {
		t.Fatalf("Delete() error = %v, want storage failure", err)
	}

	got, err := repos.CourseRepository.GetByUUID(ctx, c.UUID)
	if err != nil {
		t.Fatalf("course missing after rolled back delete: %v", err)
	}
	if got.Info.Title != guarded {
		t.Errorf("Info.Title = %q, want %q", got.Info.Title, guarded)
	}
}

func TestCourseRepository_DeleteBackingCourseConflicts(t *testing.T) {
	repos, _ := testRepos(t)
	ctx := context.Background()

	c := newTestCourse("Backing course")
	if err := repos.CourseRepository.Create(ctx, c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	f := &models.Fellowship{
		Info:    models.CourseInfo{Title: "Fellowship", ApplicationDeadline: time.Now().Add(time.Hour)},
		Outline: "outline",
	}
	if err := repos.FellowshipRepository.Create(ctx, f, c.UUID); err != nil {
		t.Fatalf("Fellowship Create() error = %v", err)
	}

	if err := repos.CourseRepository.Delete(ctx, c.UUID); !errors.Is(err, apperrors.ErrCourseInUse) {
		t.Errorf("Delete() error = %v, want course in use", err)
	}

	got, err := repos.FellowshipRepository.GetByUUID(ctx, f.UUID)
	if err != nil {
		t.Fatalf("GetByUUID() error = %v", err)
	}
	if got.Course == nil || got.Course.UUID != c.UUID {
		t.Errorf("fellowship course = %+v, want %s", got.Course, c.UUID)
	}
	if got.Info.StartDate != nil {
		t.Errorf("fellowship start date = %v, want nil", got.Info.StartDate)
	}
}

func TestApplicationRepository_Lifecycle(t *testing.T) {
	repos, _ := testRepos(t)
	ctx := context.Background()

	c := newTestCourse("C1")
	if err := repos.CourseRepository.Create(ctx, c); err != nil {
		t.Fatalf("Create course: %v", err)
	}
	p := newTestPerson(models.RoleParticipant)
	if err := repos.UserRepository.CreateParticipant(ctx, p); err != nil {
		t.Fatalf("CreateParticipant: %v", err)
	}

	app, err := repos.ApplicationRepository.Create(ctx, p.Participant.UUID, models.OfferingCourse, c.UUID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if app.Progress != models.ProgressNotApproved || app.OfferingUUID != c.UUID {
		t.Errorf("Create() = %+v", app)
	}

	applicants, err := repos.ApplicationRepository.ListApplicantsForOffering(ctx, models.OfferingCourse, c.UUID)
	if err != nil {
		t.Fatalf("ListApplicantsForOffering() error = %v", err)
	}
	if len(applicants) != 1 || applicants[0].Person.UUID != p.UUID {
		t.Fatalf("applicants = %+v, want one row for the participant", applicants)
	}

	// Kind mismatch behaves like an unknown application.
	if _, err := repos.ApplicationRepository.TransitionProgress(ctx, models.OfferingDiploma, app.UUID, models.ProgressInProgress); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("TransitionProgress(wrong kind) error = %v, want not found", err)
	}

	updated, err := repos.ApplicationRepository.TransitionProgress(ctx, models.OfferingCourse, app.UUID, models.ProgressInProgress)
	if err != nil {
		t.Fatalf("TransitionProgress() error = %v", err)
	}
	if updated.Progress != models.ProgressInProgress {
		t.Errorf("Progress = %v, want in progress", updated.Progress)
	}

	if _, err := repos.ApplicationRepository.TransitionProgress(ctx, models.OfferingCourse, app.UUID, models.ProgressNotApproved); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("backwards transition error = %v, want invalid transition", err)
	}

	mine, err := repos.ApplicationRepository.ListForParticipant(ctx, p.Participant.UUID, models.OfferingCourse)
	if err != nil {
		t.Fatalf("ListForParticipant() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Progress != models.ProgressInProgress {
		t.Errorf("ListForParticipant() = %+v", mine)
	}

	// A second applicant cannot skip straight to completion.
	q := newTestPerson(models.RoleParticipant)
	if err := repos.UserRepository.CreateParticipant(ctx, q); err != nil {
		t.Fatalf("CreateParticipant: %v", err)
	}
	pending, err := repos.ApplicationRepository.Create(ctx, q.Participant.UUID, models.OfferingCourse, c.UUID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repos.ApplicationRepository.TransitionProgress(ctx, models.OfferingCourse, pending.UUID, models.ProgressCompleted); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Errorf("NotApproved to Completed error = %v, want invalid transition", err)
	}

	done, err := repos.ApplicationRepository.TransitionProgress(ctx, models.OfferingCourse, app.UUID, models.ProgressCompleted)
	if err != nil {
		t.Fatalf("TransitionProgress(completed) error = %v", err)
	}
	if done.Progress != models.ProgressCompleted {
		t.Errorf("Progress = %v, want completed", done.Progress)
	}
	for _, next := range []models.ProgressType{models.ProgressInProgress, models.ProgressRejected} {
		if _, err := repos.ApplicationRepository.TransitionProgress(ctx, models.OfferingCourse, app.UUID, next); !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Completed to %s error = %v, want invalid transition", next, err)
		}
	}

	stored, err := repos.ApplicationRepository.ListForParticipant(ctx, p.Participant.UUID, models.OfferingCourse)
	if err != nil {
		t.Fatalf("ListForParticipant() error = %v", err)
	}
	if len(stored) != 1 || stored[0].Progress != models.ProgressCompleted {
		t.Errorf("terminal application changed: %+v", stored)
	}

	if _, err := repos.ApplicationRepository.ListApplicantsForOffering(ctx, models.OfferingCourse, uuid.New()); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("unknown offering error = %v, want not found", err)
	}
}

func TestInterestRepository_DeleteIsScoped(t *testing.T) {
	repos, _ := testRepos(t)
	ctx := context.Background()

	c := newTestCourse("Interest course")
	if err := repos.CourseRepository.Create(ctx, c); err != nil {
		t.Fatalf("Create course: %v", err)
	}
	f := &models.Fellowship{Info: models.CourseInfo{Title: "Interest fellowship", ApplicationDeadline: time.Now()}}
	if err := repos.FellowshipRepository.Create(ctx, f, c.UUID); err != nil {
		t.Fatalf("Create fellowship: %v", err)
	}
	owner := newTestPerson(models.RoleParticipant)
	other := newTestPerson(models.RoleParticipant)
	for _, p := range []*models.Person{owner, other} {
		if err := repos.UserRepository.CreateParticipant(ctx, p); err != nil {
			t.Fatalf("CreateParticipant: %v", err)
		}
	}

	if _, err := repos.InterestRepository.Create(ctx, owner.Participant.UUID, models.OfferingCourse, c.UUID); err != nil {
		t.Fatalf("Create course interest: %v", err)
	}
	fi, err := repos.InterestRepository.Create(ctx, owner.Participant.UUID, models.OfferingFellowship, f.UUID)
	if err != nil {
		t.Fatalf("Create fellowship interest: %v", err)
	}

	if _, err := repos.InterestRepository.Delete(ctx, other.Participant.UUID, fi.UUID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("Delete(other participant) error = %v, want not found", err)
	}

	kind, err := repos.InterestRepository.Delete(ctx, owner.Participant.UUID, fi.UUID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if kind != models.OfferingFellowship {
		t.Errorf("Delete() kind = %v, want fellowship", kind)
	}

	left, err := repos.InterestRepository.ListForParticipant(ctx, owner.Participant.UUID)
	if err != nil {
		t.Fatalf("ListForParticipant() error = %v", err)
	}
	if len(left) != 1 || left[0].Kind != models.OfferingCourse || left[0].OfferingUUID != c.UUID {
		t.Errorf("remaining interests = %+v, want the course interest only", left)
	}
}
