package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/auth"
)

// fakeHasher stores passwords as "h:<plain>" and counts calls.
type fakeHasher struct {
	err      error
	hashes   int
	verifies []string
}

func (h *fakeHasher) Hash(_ context.Context, password string) (string, error) {
	h.hashes++
	if h.err != nil {
		return "", h.err
	}
	return "h:" + password, nil
}

func (h *fakeHasher) Verify(_ context.Context, encoded, password string) (bool, error) {
	h.verifies = append(h.verifies, encoded)
	if h.err != nil {
		return false, h.err
	}
	if !strings.HasPrefix(encoded, "h:") {
		return false, auth.ErrUnknownHashFormat
	}
	return encoded == "h:"+password, nil
}

type fakeIdentityStore struct {
	mu     sync.Mutex
	nextID int64
	people map[string]*models.Person
	err    error
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{people: make(map[string]*models.Person)}
}

func (s *fakeIdentityStore) insert(p *models.Person, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	key := strings.ToLower(p.Email)
	if _, ok := s.people[key]; ok {
		return apperrors.ErrEmailAlreadyExists
	}
	s.nextID++
	p.ID = s.nextID
	p.UUID = uuid.New()
	p.Role = role
	p.CreatedAt = time.Now()
	if p.Employee != nil {
		p.Employee.UUID = uuid.New()
		p.Employee.PersonID = p.ID
	}
	if p.Participant != nil {
		p.Participant.UUID = uuid.New()
		p.Participant.PersonID = p.ID
	}
	s.people[key] = p
	return nil
}

func (s *fakeIdentityStore) CreateEmployee(_ context.Context, p *models.Person) error {
	return s.insert(p, models.RoleEmployee)
}

func (s *fakeIdentityStore) CreateParticipant(_ context.Context, p *models.Person) error {
	return s.insert(p, models.RoleParticipant)
}

func (s *fakeIdentityStore) GetPersonByEmail(_ context.Context, email string) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.people[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("person not found")
	}
	return p, nil
}

func (s *fakeIdentityStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.people[strings.ToLower(email)]
	return ok, nil
}

func (s *fakeIdentityStore) find(match func(*models.Person) bool, notFound error) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.people {
		if match(p) {
			return p, nil
		}
	}
	return nil, notFound
}

func (s *fakeIdentityStore) GetEmployee(_ context.Context, id uuid.UUID) (*models.Person, error) {
	return s.find(func(p *models.Person) bool {
		return p.Employee != nil && p.Employee.UUID == id
	}, apperrors.ErrEmployeeNotFound)
}

func (s *fakeIdentityStore) GetParticipant(_ context.Context, id uuid.UUID) (*models.Person, error) {
	return s.find(func(p *models.Person) bool {
		return p.Participant != nil && p.Participant.UUID == id
	}, apperrors.ErrParticipantNotFound)
}

func (s *fakeIdentityStore) ListEmployeesByApproval(_ context.Context, status models.ApprovalStatus, page models.Page) ([]*models.Person, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, 0, s.err
	}
	var out []*models.Person
	for _, p := range s.people {
		if p.Employee != nil && p.Employee.ApprovalStatus == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	items, total := window(out, page)
	return items, total, nil
}

// window applies page to items the way LIMIT/OFFSET would.
func window[T any](items []T, page models.Page) ([]T, int64) {
	total := int64(len(items))
	if page.All() {
		return items, total
	}
	start := int(page.Offset)
	if start > len(items) {
		start = len(items)
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

func (s *fakeIdentityStore) UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status models.ApprovalStatus) error {
	p, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Employee.ApprovalStatus = status
	return nil
}

func (s *fakeIdentityStore) UpdatePasswordHash(_ context.Context, personID int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, p := range s.people {
		if p.ID == personID {
			p.PasswordHash = hash
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("person not found")
}

func (s *fakeIdentityStore) UpdateProfile(_ context.Context, p *models.Person, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if existing, ok := s.people[strings.ToLower(p.Email)]; ok && existing.ID != p.ID {
		return apperrors.ErrEmailAlreadyExists
	}
	for key, existing := range s.people {
		if existing.ID == p.ID {
			delete(s.people, key)
		}
	}
	if newHash != "" {
		p.PasswordHash = newHash
	}
	s.people[strings.ToLower(p.Email)] = p
	return nil
}

// seedEmployee stores an employee directly with a known password.
func (s *fakeIdentityStore) seedEmployee(email, password string, userType models.UserType, status models.ApprovalStatus) *models.Person {
	p := &models.Person{
		FirstName:    "Staff",
		LastName:     "Member",
		Email:        email,
		PasswordHash: "h:" + password,
		Employee:     &models.Employee{UserType: userType, ApprovalStatus: status},
	}
	if err := s.insert(p, models.RoleEmployee); err != nil {
		panic(err)
	}
	return p
}

// seedParticipant stores a participant directly with a known password.
func (s *fakeIdentityStore) seedParticipant(email, password string) *models.Person {
	p := &models.Person{
		FirstName:    "Pat",
		LastName:     "Applicant",
		Email:        email,
		PasswordHash: "h:" + password,
		Participant:  &models.Participant{Organisation: "Acme", JobTitle: "Analyst"},
	}
	if err := s.insert(p, models.RoleParticipant); err != nil {
		panic(err)
	}
	return p
}

type fakeCatalog struct {
	mu           sync.Mutex
	nextID       int64
	courses      map[uuid.UUID]*models.Course
	fellowships  map[uuid.UUID]*models.Fellowship
	diplomas     map[uuid.UUID]*models.Diploma
	scholarships map[uuid.UUID]*models.Scholarship
	err          error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		courses:      make(map[uuid.UUID]*models.Course),
		fellowships:  make(map[uuid.UUID]*models.Fellowship),
		diplomas:     make(map[uuid.UUID]*models.Diploma),
		scholarships: make(map[uuid.UUID]*models.Scholarship),
	}
}

func (c *fakeCatalog) stores() CatalogStores {
	return CatalogStores{
		Courses:      fakeCourses{c},
		Fellowships:  fakeFellowships{c},
		Diplomas:     fakeDiplomas{c},
		Scholarships: fakeScholarships{c},
	}
}

func (c *fakeCatalog) exists(kind models.OfferingKind, id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case models.OfferingCourse:
		_, ok := c.courses[id]
		return ok
	case models.OfferingFellowship:
		_, ok := c.fellowships[id]
		return ok
	case models.OfferingDiploma:
		_, ok := c.diplomas[id]
		return ok
	case models.OfferingScholarship:
		_, ok := c.scholarships[id]
		return ok
	}
	return false
}

func (c *fakeCatalog) id() int64 {
	c.nextID++
	return c.nextID
}

type fakeCourses struct{ c *fakeCatalog }

func (f fakeCourses) Create(_ context.Context, course *models.Course) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.err != nil {
		return f.c.err
	}
	course.ID = f.c.id()
	course.Info.ID = f.c.id()
	course.UUID = uuid.New()
	f.c.courses[course.UUID] = course
	return nil
}

func (f fakeCourses) GetByUUID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.err != nil {
		return nil, f.c.err
	}
	course, ok := f.c.courses[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	return course, nil
}

func (f fakeCourses) List(_ context.Context, page models.Page) ([]*models.Course, int64, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.err != nil {
		return nil, 0, f.c.err
	}
	out := make([]*models.Course, 0, len(f.c.courses))
	for _, course := range f.c.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	items, total := window(out, page)
	return items, total, nil
}

func (f fakeCourses) Update(_ context.Context, course *models.Course) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.courses[course.UUID]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	f.c.courses[course.UUID] = course
	return nil
}

func (f fakeCourses) Delete(_ context.Context, id uuid.UUID) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.courses[id]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	for _, fs := range f.c.fellowships {
		if fs.Course != nil && fs.Course.UUID == id {
			return apperrors.ErrCourseInUse
		}
	}
	delete(f.c.courses, id)
	return nil
}

type fakeFellowships struct{ c *fakeCatalog }

func (f fakeFellowships) Create(_ context.Context, fs *models.Fellowship, courseUUID uuid.UUID) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	course, ok := f.c.courses[courseUUID]
	if !ok {
		return apperrors.ErrOfferingNotFound
	}
	fs.ID = f.c.id()
	fs.UUID = uuid.New()
	fs.Course = course
	f.c.fellowships[fs.UUID] = fs
	return nil
}

func (f fakeFellowships) GetByUUID(_ context.Context, id uuid.UUID) (*models.Fellowship, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	fs, ok := f.c.fellowships[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	return fs, nil
}

func (f fakeFellowships) List(_ context.Context, page models.Page) ([]*models.Fellowship, int64, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.err != nil {
		return nil, 0, f.c.err
	}
	out := make([]*models.Fellowship, 0, len(f.c.fellowships))
	for _, fs := range f.c.fellowships {
		out = append(out, fs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	items, total := window(out, page)
	return items, total, nil
}

func (f fakeFellowships) Update(_ context.Context, fs *models.Fellowship, courseUUID *uuid.UUID) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	current, ok := f.c.fellowships[fs.UUID]
	if !ok {
		return apperrors.ErrOfferingNotFound
	}
	fs.Course = current.Course
	if courseUUID != nil {
		course, ok := f.c.courses[*courseUUID]
		if !ok {
			return apperrors.ErrOfferingNotFound
		}
		fs.Course = course
	}
	f.c.fellowships[fs.UUID] = fs
	return nil
}

func (f fakeFellowships) Delete(_ context.Context, id uuid.UUID) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.fellowships[id]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	delete(f.c.fellowships, id)
	return nil
}

type fakeDiplomas struct{ c *fakeCatalog }

func (f fakeDiplomas) Create(_ context.Context, d *models.Diploma) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	d.ID = f.c.id()
	d.UUID = uuid.New()
	f.c.diplomas[d.UUID] = d
	return nil
}

func (f fakeDiplomas) GetByUUID(_ context.Context, id uuid.UUID) (*models.Diploma, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	d, ok := f.c.diplomas[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	return d, nil
}

func (f fakeDiplomas) List(_ context.Context, page models.Page) ([]*models.Diploma, int64, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.err != nil {
		return nil, 0, f.c.err
	}
	out := make([]*models.Diploma, 0, len(f.c.diplomas))
	for _, d := range f.c.diplomas {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	items, total := window(out, page)
	return items, total, nil
}

func (f fakeDiplomas) Update(_ context.Context, d *models.Diploma) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.diplomas[d.UUID]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	f.c.diplomas[d.UUID] = d
	return nil
}

func (f fakeDiplomas) Delete(_ context.Context, id uuid.UUID) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.diplomas[id]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	delete(f.c.diplomas, id)
	return nil
}

type fakeScholarships struct{ c *fakeCatalog }

func (f fakeScholarships) Create(_ context.Context, s *models.Scholarship) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	s.ID = f.c.id()
	s.UUID = uuid.New()
	f.c.scholarships[s.UUID] = s
	return nil
}

func (f fakeScholarships) GetByUUID(_ context.Context, id uuid.UUID) (*models.Scholarship, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	s, ok := f.c.scholarships[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	return s, nil
}

func (f fakeScholarships) List(_ context.Context, page models.Page) ([]*models.Scholarship, int64, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.err != nil {
		return nil, 0, f.c.err
	}
	out := make([]*models.Scholarship, 0, len(f.c.scholarships))
	for _, s := range f.c.scholarships {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	items, total := window(out, page)
	return items, total, nil
}

func (f fakeScholarships) Update(_ context.Context, s *models.Scholarship) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.scholarships[s.UUID]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	f.c.scholarships[s.UUID] = s
	return nil
}

func (f fakeScholarships) Delete(_ context.Context, id uuid.UUID) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.scholarships[id]; !ok {
		return apperrors.ErrOfferingNotFound
	}
	delete(f.c.scholarships, id)
	return nil
}

// fakeWorkflow stores applications and interests against a fake catalog and
// identity store.
type fakeWorkflow struct {
	mu        sync.Mutex
	people    *fakeIdentityStore
	catalog   *fakeCatalog
	nextID    int64
	apps      []*models.Application
	interests []*models.Interest
	owners    map[int64]uuid.UUID
}

func newFakeWorkflow(people *fakeIdentityStore, catalog *fakeCatalog) *fakeWorkflow {
	return &fakeWorkflow{people: people, catalog: catalog, owners: make(map[int64]uuid.UUID)}
}

func (w *fakeWorkflow) participant(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	return w.people.GetParticipant(ctx, id)
}

type fakeApplications struct{ w *fakeWorkflow }

func (f fakeApplications) Create(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind, offeringUUID uuid.UUID) (*models.Application, error) {
	p, err := f.w.participant(ctx, participantUUID)
	if err != nil {
		return nil, err
	}
	if !f.w.catalog.exists(kind, offeringUUID) {
		return nil, apperrors.ErrOfferingNotFound
	}

	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	f.w.nextID++
	now := time.Now()
	app := &models.Application{
		ID:            f.w.nextID,
		UUID:          uuid.New(),
		Kind:          kind,
		ParticipantID: p.Participant.ID,
		OfferingUUID:  offeringUUID,
		Progress:      models.ProgressNotApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.w.apps = append(f.w.apps, app)
	f.w.owners[app.ID] = participantUUID
	return app, nil
}

func (f fakeApplications) TransitionProgress(_ context.Context, kind models.OfferingKind, id uuid.UUID, next models.ProgressType) (*models.Application, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for _, app := range f.w.apps {
		if app.UUID != id || app.Kind != kind {
			continue
		}
		if !app.Progress.CanTransitionTo(next) {
			return nil, apperrors.ErrInvalidTransition
		}
		app.Progress = next
		return app, nil
	}
	return nil, apperrors.ErrApplicationNotFound
}

func (f fakeApplications) ListApplicantsForOffering(ctx context.Context, kind models.OfferingKind, offeringUUID uuid.UUID) ([]*models.Applicant, error) {
	if !f.w.catalog.exists(kind, offeringUUID) {
		return nil, apperrors.ErrOfferingNotFound
	}
	f.w.mu.Lock()
	var matched []*models.Application
	for _, app := range f.w.apps {
		if app.Kind == kind && app.OfferingUUID == offeringUUID {
			matched = append(matched, app)
		}
	}
	f.w.mu.Unlock()

	out := make([]*models.Applicant, 0, len(matched))
	for _, app := range matched {
		p, err := f.w.participant(ctx, f.w.owners[app.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, &models.Applicant{Application: *app, Person: *p})
	}
	return out, nil
}

func (f fakeApplications) ListForParticipant(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind) ([]*models.Application, error) {
	if _, err := f.w.participant(ctx, participantUUID); err != nil {
		return nil, err
	}
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Application
	for _, app := range f.w.apps {
		if app.Kind == kind && f.w.owners[app.ID] == participantUUID {
			out = append(out, app)
		}
	}
	return out, nil
}

type fakeInterests struct{ w *fakeWorkflow }

func (f fakeInterests) Create(ctx context.Context, participantUUID uuid.UUID, kind models.OfferingKind, offeringUUID uuid.UUID) (*models.Interest, error) {
	p, err := f.w.participant(ctx, participantUUID)
	if err != nil {
		return nil, err
	}
	if !f.w.catalog.exists(kind, offeringUUID) {
		return nil, apperrors.ErrOfferingNotFound
	}
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	f.w.nextID++
	interest := &models.Interest{
		ID:              f.w.nextID,
		UUID:            uuid.New(),
		Kind:            kind,
		ParticipantID:   p.Participant.ID,
		ParticipantUUID: participantUUID,
		OfferingUUID:    offeringUUID,
		CreatedAt:       time.Now(),
	}
	f.w.interests = append(f.w.interests, interest)
	return interest, nil
}

func (f fakeInterests) Delete(_ context.Context, participantUUID, interestUUID uuid.UUID) (models.OfferingKind, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	for i, interest := range f.w.interests {
		if interest.UUID == interestUUID && interest.ParticipantUUID == participantUUID {
			f.w.interests = append(f.w.interests[:i], f.w.interests[i+1:]...)
			return interest.Kind, nil
		}
	}
	return 0, apperrors.ErrInterestNotFound
}

func (f fakeInterests) ListForParticipant(ctx context.Context, participantUUID uuid.UUID) ([]*models.Interest, error) {
	if _, err := f.w.participant(ctx, participantUUID); err != nil {
		return nil, err
	}
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var out []*models.Interest
	for _, interest := range f.w.interests {
		if interest.ParticipantUUID == participantUUID {
			out = append(out, interest)
		}
	}
	return out, nil
}

type fakeTokens struct {
	err error
}

func (f *fakeTokens) GenerateAccessToken(identity auth.Identity) (*auth.AccessToken, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.AccessToken{
		Token:     "signed." + identity.SubjectUUID.String(),
		TokenID:   uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type fakeRevocation struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeRevocation) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeRevocation) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, f.err
}

type fakeObserver struct {
	success, denied int
}

func (o *fakeObserver) ObserveLogin(_ string, success bool) {
	if success {
		o.success++
	} else {
		o.denied++
	}
}

var errStorage = errors.New("connection reset")
