package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/helpers"
)

// ApplyRequest files an application against one offering
type ApplyRequest struct {
	Kind       *int   `json:"kind" binding:"required"`
	OfferingID string `json:"offeringId" binding:"required"`
}

// AdvanceProgressRequest moves an application to a new state
type AdvanceProgressRequest struct {
	Kind   *int `json:"kind" binding:"required"`
	Status *int `json:"status" binding:"required"`
}

// AddInterestRequest names exactly one offering
type AddInterestRequest struct {
	CourseID      *string `json:"courseId"`
	FellowshipID  *string `json:"fellowshipId"`
	DiplomaID     *string `json:"diplomaId"`
	ScholarshipID *string `json:"scholarshipId"`
}

// ToSelection parses the identifiers that are present
func (r AddInterestRequest) ToSelection() (models.OfferingSelection, error) {
	var sel models.OfferingSelection
	slots := []struct {
		raw *string
		dst **uuid.UUID
	}{
		{r.CourseID, &sel.Course},
		{r.FellowshipID, &sel.Fellowship},
		{r.DiplomaID, &sel.Diploma},
		{r.ScholarshipID, &sel.Scholarship},
	}
	for _, s := range slots {
		if s.raw == nil {
			continue
		}
		id, err := helpers.ParseUUID(*s.raw)
		if err != nil {
			return models.OfferingSelection{}, err
		}
		*s.dst = &id
	}
	return sel, nil
}

// ApplicationResponse projects an application
type ApplicationResponse struct {
	ID            uuid.UUID `json:"id"`
	Kind          int       `json:"kind"`
	OfferingID    uuid.UUID `json:"offeringId"`
	Progress      int       `json:"progressType"`
	ProgressLabel string    `json:"progressLabel"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApplicantSummary is one row of an offering's applicant list
type ApplicantSummary struct {
	ApplicationID uuid.UUID            `json:"applicationId"`
	FullName      string               `json:"fullName"`
	Progress      int                  `json:"progressType"`
	Kind          int                  `json:"kind"`
	Participant   *ParticipantResponse `json:"participant"`
}

// OfferingApplicationResponse is one of a participant's applications with the
// offering it targets
type OfferingApplicationResponse struct {
	ApplicationResponse
	Offering OfferingResponse `json:"offering"`
}

// InterestResponse projects an interest with its offering
type InterestResponse struct {
	ID        uuid.UUID        `json:"id"`
	Kind      int              `json:"kind"`
	CreatedAt time.Time        `json:"createdAt"`
	Offering  OfferingResponse `json:"offering"`
}

// NewApplicationResponse projects an application
func NewApplicationResponse(a *models.Application) *ApplicationResponse {
	if a == nil {
		return nil
	}
	return &ApplicationResponse{
		ID:            a.UUID,
		Kind:          int(a.Kind),
		OfferingID:    a.OfferingUUID,
		Progress:      int(a.Progress),
		ProgressLabel: a.Progress.String(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// NewApplicantSummaries projects an applicant list
func NewApplicantSummaries(applicants []*models.Applicant) []ApplicantSummary {
	out := make([]ApplicantSummary, 0, len(applicants))
	for _, a := range applicants {
		out = append(out, ApplicantSummary{
			ApplicationID: a.Application.UUID,
			FullName:      a.Person.FullName(),
			Progress:      int(a.Application.Progress),
			Kind:          int(a.Application.Kind),
			Participant:   NewParticipantResponse(&a.Person),
		})
	}
	return out
}

// NewOfferingApplications projects a participant's applications
func NewOfferingApplications(items []models.OfferingApplication) []OfferingApplicationResponse {
	out := make([]OfferingApplicationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, OfferingApplicationResponse{
			ApplicationResponse: *NewApplicationResponse(item.Application),
			Offering:            NewOfferingResponse(item.Offering),
		})
	}
	return out
}

// NewInterestResponses projects a participant's interests
func NewInterestResponses(items []models.InterestEntry) []InterestResponse {
	out := make([]InterestResponse, 0, len(items))
	for _, item := range items {
		out = append(out, InterestResponse{
			ID:        item.Interest.UUID,
			Kind:      int(item.Interest.Kind),
			CreatedAt: item.Interest.CreatedAt,
			Offering:  NewOfferingResponse(item.Offering),
		})
	}
	return out
}
