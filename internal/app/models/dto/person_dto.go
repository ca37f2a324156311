package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
)

// ProfileRequest carries the person fields common to both roles
type ProfileRequest struct {
	FirstName         string    `json:"firstName" binding:"required,max=100"`
	MiddleName        *string   `json:"middleName" binding:"omitempty,max=100"`
	LastName          string    `json:"lastName" binding:"required,max=100"`
	Email             string    `json:"email" binding:"required,email,max=255"`
	DateOfBirth       time.Time `json:"dateOfBirth" binding:"required"`
	PassportNumber    string    `json:"passportNumber" binding:"required,max=20"`
	PassportExpiry    time.Time `json:"passportExpiry" binding:"required"`
	Country           string    `json:"country" binding:"required,max=100"`
	ContactNumber     string    `json:"contactNumber" binding:"required,max=20"`
	NotificationToken string    `json:"notificationToken"`
}

// ToProfile converts the request into a domain profile
func (r ProfileRequest) ToProfile() models.Profile {
	return models.Profile{
		FirstName:         r.FirstName,
		MiddleName:        r.MiddleName,
		LastName:          r.LastName,
		Email:             r.Email,
		DateOfBirth:       r.DateOfBirth,
		PassportNumber:    r.PassportNumber,
		PassportExpiry:    r.PassportExpiry,
		Country:           r.Country,
		ContactNumber:     r.ContactNumber,
		NotificationToken: r.NotificationToken,
	}
}

// RegisterStaffRequest represents an employee registration
type RegisterStaffRequest struct {
	ProfileRequest
	Password  string `json:"password" binding:"required"`
	UserLevel *int   `json:"userLevel" binding:"required"`
}

// RegisterParticipantRequest represents a participant registration
type RegisterParticipantRequest struct {
	ProfileRequest
	Password     string `json:"password" binding:"required"`
	Organisation string `json:"organisation" binding:"max=200"`
	JobTitle     string `json:"jobTitle" binding:"max=200"`
}

// UpdateEmployeeRequest updates an employee profile. A blank password keeps
// the current one.
type UpdateEmployeeRequest struct {
	ProfileRequest
	Password string `json:"password"`
}

// UpdateParticipantRequest updates a participant profile. A blank password
// keeps the current one.
type UpdateParticipantRequest struct {
	ProfileRequest
	Organisation string `json:"organisation" binding:"max=200"`
	JobTitle     string `json:"jobTitle" binding:"max=200"`
	Password     string `json:"password"`
}

// ChangePasswordRequest replaces the password. Blank is a no-op.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// SetApprovalRequest sets an employee's approval status
type SetApprovalRequest struct {
	Status *int `json:"status" binding:"required"`
}

// PersonResponse is the person part of both role projections
type PersonResponse struct {
	PersonID       uuid.UUID `json:"personId"`
	FirstName      string    `json:"firstName"`
	MiddleName     *string   `json:"middleName,omitempty"`
	LastName       string    `json:"lastName"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	PassportNumber string    `json:"passportNumber"`
	PassportExpiry time.Time `json:"passportExpiry"`
	Country        string    `json:"country"`
	ContactNumber  string    `json:"contactNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EmployeeResponse projects an employee
type EmployeeResponse struct {
	ID uuid.UUID `json:"id"`
	PersonResponse
	UserType       int    `json:"userType"`
	UserTypeLabel  string `json:"userTypeLabel"`
	ApprovalStatus int    `json:"approvalStatus"`
}

// ParticipantResponse projects a participant
type ParticipantResponse struct {
	ID uuid.UUID `json:"id"`
	PersonResponse
	Organisation string `json:"organisation"`
	JobTitle     string `json:"jobTitle"`
}

func newPersonResponse(p *models.Person) PersonResponse {
	return PersonResponse{
		PersonID:       p.UUID,
		FirstName:      p.FirstName,
		MiddleName:     p.MiddleName,
		LastName:       p.LastName,
		FullName:       p.FullName(),
		Email:          p.Email,
		DateOfBirth:    p.DateOfBirth,
		PassportNumber: p.PassportNumber,
		PassportExpiry: p.PassportExpiry,
		Country:        p.Country,
		ContactNumber:  p.ContactNumber,
		CreatedAt:      p.CreatedAt,
	}
}

// NewEmployeeResponse projects a person carrying an employee payload
func NewEmployeeResponse(p *models.Person) *EmployeeResponse {
	if p == nil || p.Employee == nil {
		return nil
	}
	return &EmployeeResponse{
		ID:             p.Employee.UUID,
		PersonResponse: newPersonResponse(p),
		UserType:       int(p.Employee.UserType),
		UserTypeLabel:  p.Employee.UserType.String(),
		ApprovalStatus: int(p.Employee.ApprovalStatus),
	}
}

// NewEmployeeListResponse projects a list of employees
func NewEmployeeListResponse(people []*models.Person) []*EmployeeResponse {
	out := make([]*EmployeeResponse, 0, len(people))
	for _, p := range people {
		if r := NewEmployeeResponse(p); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// NewParticipantResponse projects a person carrying a participant payload
func NewParticipantResponse(p *models.Person) *ParticipantResponse {
	if p == nil || p.Participant == nil {
		return nil
	}
	return &ParticipantResponse{
		ID:             p.Participant.UUID,
		PersonResponse: newPersonResponse(p),
		Organisation:   p.Participant.Organisation,
		JobTitle:       p.Participant.JobTitle,
	}
}
