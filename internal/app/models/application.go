package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProgressType is the lifecycle state of an application. The numeric values
// are part of the wire contract.
type ProgressType int

const (
	ProgressRejected    ProgressType = 0
	ProgressNotApproved ProgressType = 1
	ProgressInProgress  ProgressType = 2
	ProgressCompleted   ProgressType = 3
)

// ParseProgressType converts a transport value into a ProgressType.
func ParseProgressType(v int) (ProgressType, error) {
	p := ProgressType(v)
	if !p.Valid() {
		return 0, fmt.Errorf("unknown progress type %d", v)
	}
	return p, nil
}

// Valid reports whether p is a known state.
func (p ProgressType) Valid() bool {
	return p >= ProgressRejected && p <= ProgressCompleted
}

// IsTerminal reports whether no further transition is possible.
func (p ProgressType) IsTerminal() bool {
	return p == ProgressRejected || p == ProgressCompleted
}

// CanTransitionTo allows NotApproved -> InProgress -> Completed and rejection
// from either non-terminal state.
func (p ProgressType) CanTransitionTo(next ProgressType) bool {
	if p.IsTerminal() || !next.Valid() {
		return false
	}
	switch p {
	case ProgressNotApproved:
		return next == ProgressInProgress || next == ProgressRejected
	case ProgressInProgress:
		return next == ProgressCompleted || next == ProgressRejected
	default:
		return false
	}
}

func (p ProgressType) String() string {
	switch p {
	case ProgressRejected:
		return "REJECTED"
	case ProgressNotApproved:
		return "NOT_APPROVED"
	case ProgressInProgress:
		return "IN_PROGRESS"
	case ProgressCompleted:
		return "COMPLETED"
	default:
		return fmt.Sprintf("ProgressType(%d)", int(p))
	}
}

// ProgressBand filters applicant listings.
type ProgressBand string

const (
	BandAll      ProgressBand = "all"
	BandPending  ProgressBand = "pending"
	BandApproved ProgressBand = "approved"
)

// ParseProgressBand accepts "", "all", "pending" or "approved".
func ParseProgressBand(s string) (ProgressBand, error) {
	switch ProgressBand(s) {
	case "", BandAll:
		return BandAll, nil
	case BandPending:
		return BandPending, nil
	case BandApproved:
		return BandApproved, nil
	}
	return "", fmt.Errorf("unknown progress band %q", s)
}

// Matches reports whether an application in state p belongs to the band.
// Pending is NotApproved only; approved is anything past it.
func (b ProgressBand) Matches(p ProgressType) bool {
	switch b {
	case BandPending:
		return p == ProgressNotApproved
	case BandApproved:
		return p > ProgressNotApproved
	default:
		return true
	}
}

// Application is a participant's request to join one offering.
type Application struct {
	ID            int64        `db:"id"`
	UUID          uuid.UUID    `db:"uuid"`
	Kind          OfferingKind `db:"offering_kind"`
	ParticipantID int64        `db:"participant_id"`
	OfferingID    int64        `db:"-"`
	OfferingUUID  uuid.UUID    `db:"-"`
	Progress      ProgressType `db:"progress_type"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

// Applicant is an application joined with the applying participant.
type Applicant struct {
	Application Application
	Person      Person
}

// OfferingApplication pairs an application with the offering it targets.
type OfferingApplication struct {
	Application *Application
	Offering    Offering
}
