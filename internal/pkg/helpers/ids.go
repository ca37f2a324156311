package helpers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// NormalizeID strips whitespace and the quote characters some clients wrap
// identifiers in.
func NormalizeID(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), "\"'")
}

// ParseUUID normalizes raw and parses it as a UUID. Malformed input is a
// validation error.
func ParseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(NormalizeID(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed identifier %q", apperrors.ErrValidationFailed, raw)
	}
	return id, nil
}
