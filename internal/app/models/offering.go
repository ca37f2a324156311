package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OfferingKind identifies one of the four offering tables. The numeric
// values are part of the wire contract.
type OfferingKind int

const (
	OfferingCourse      OfferingKind = 0
	OfferingFellowship  OfferingKind = 1
	OfferingScholarship OfferingKind = 2
	OfferingDiploma     OfferingKind = 3
)

// AllOfferingKinds lists every kind in wire order.
var AllOfferingKinds = []OfferingKind{OfferingCourse, OfferingFellowship, OfferingScholarship, OfferingDiploma}

// ParseOfferingKind converts a kind index into an OfferingKind.
func ParseOfferingKind(index int) (OfferingKind, error) {
	k := OfferingKind(index)
	if !k.Valid() {
		return 0, fmt.Errorf("unknown offering kind %d", index)
	}
	return k, nil
}

// Valid reports whether k is one of the four kinds.
func (k OfferingKind) Valid() bool {
	return k >= OfferingCourse && k <= OfferingDiploma
}

func (k OfferingKind) String() string {
	switch k {
	case OfferingCourse:
		return "course"
	case OfferingFellowship:
		return "fellowship"
	case OfferingScholarship:
		return "scholarship"
	case OfferingDiploma:
		return "diploma"
	default:
		return fmt.Sprintf("OfferingKind(%d)", int(k))
	}
}

// CourseInfo carries the scheduling block shared by courses, fellowships and diplomas.
type CourseInfo struct {
	ID                  int64      `db:"id"`
	Title               string     `db:"title"`
	StartDate           *time.Time `db:"start_date"`
	EndDate             *time.Time `db:"end_date"`
	ApplicationDeadline time.Time  `db:"application_deadline"`
}

// Course is a fee-paying taught programme.
type Course struct {
	ID                 int64      `db:"id"`
	UUID               uuid.UUID  `db:"uuid"`
	Info               CourseInfo `db:"-"`
	Fees               float64    `db:"fees"`
	LearningOutcomes   string     `db:"learning_outcomes"`
	Prerequisites      string     `db:"prerequisites"`
	LearningActivities string     `db:"learning_activities"`
	Language           string     `db:"language"`
	Covered            string     `db:"covered"`
	WhoShouldAttend    string     `db:"who_should_attend"`
}

// Fellowship builds on an existing course.
type Fellowship struct {
	ID      int64      `db:"id"`
	UUID    uuid.UUID  `db:"uuid"`
	Info    CourseInfo `db:"-"`
	Outline string     `db:"outline"`
	Course  *Course    `db:"-"`
}

// Diploma owns a full schedule.
type Diploma struct {
	ID      int64      `db:"id"`
	UUID    uuid.UUID  `db:"uuid"`
	Info    CourseInfo `db:"-"`
	Fees    float64    `db:"fees"`
	Outline string     `db:"outline"`
}

// Scholarship has no schedule.
type Scholarship struct {
	ID          int64     `db:"id"`
	UUID        uuid.UUID `db:"uuid"`
	Title       string    `db:"title"`
	Eligibility string    `db:"eligibility"`
	Benefits    string    `db:"benefits"`
	BondYears   int       `db:"bond_years"`
	Outline     string    `db:"outline"`
}

// Offering is a resolved reference to exactly one offering row with its
// projection loaded.
type Offering struct {
	Kind        OfferingKind
	Course      *Course
	Fellowship  *Fellowship
	Scholarship *Scholarship
	Diploma     *Diploma
}

// UUID returns the identifier of whichever offering is set.
func (o Offering) UUID() uuid.UUID {
	switch {
	case o.Course != nil:
		return o.Course.UUID
	case o.Fellowship != nil:
		return o.Fellowship.UUID
	case o.Scholarship != nil:
		return o.Scholarship.UUID
	case o.Diploma != nil:
		return o.Diploma.UUID
	}
	return uuid.Nil
}

// ErrSelectionNotExclusive is returned when an OfferingSelection does not name
// exactly one offering.
var ErrSelectionNotExclusive = errors.New("exactly one of course, fellowship, diploma or scholarship must be set")

// OfferingSelection names an offering through one of four optional slots.
type OfferingSelection struct {
	Course      *uuid.UUID
	Fellowship  *uuid.UUID
	Diploma     *uuid.UUID
	Scholarship *uuid.UUID
}

// Resolve returns the single selected kind and identifier.
func (s OfferingSelection) Resolve() (OfferingKind, uuid.UUID, error) {
	var (
		kind  OfferingKind
		id    uuid.UUID
		count int
	)
	pick := func(k OfferingKind, v *uuid.UUID) {
		if v != nil {
			kind, id = k, *v
			count++
		}
	}
	pick(OfferingCourse, s.Course)
	pick(OfferingFellowship, s.Fellowship)
	pick(OfferingDiploma, s.Diploma)
	pick(OfferingScholarship, s.Scholarship)

	if count != 1 {
		return 0, uuid.Nil, ErrSelectionNotExclusive
	}
	return kind, id, nil
}
