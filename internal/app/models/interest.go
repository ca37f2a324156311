package models

import (
	"time"

	"github.com/google/uuid"
)

// Interest records that a participant wants to hear about an offering.
type Interest struct {
	ID              int64        `db:"id"`
	UUID            uuid.UUID    `db:"uuid"`
	Kind            OfferingKind `db:"offering_kind"`
	ParticipantID   int64        `db:"participant_id"`
	ParticipantUUID uuid.UUID    `db:"-"`
	OfferingUUID    uuid.UUID    `db:"-"`
	CreatedAt       time.Time    `db:"created_at"`
}

// InterestEntry pairs an interest with the offering it targets.
type InterestEntry struct {
	Interest *Interest
	Offering Offering
}
