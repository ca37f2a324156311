package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Person is the identity aggregate. Role says which of Employee or
// Participant is populated; the other is always nil.
type Person struct {
	ID                int64     `json:"-" db:"id"`
	UUID              uuid.UUID `json:"uuid" db:"uuid"`
	FirstName         string    `json:"firstName" db:"first_name"`
	MiddleName        *string   `json:"middleName,omitempty" db:"middle_name"`
	LastName          string    `json:"lastName" db:"last_name"`
	Email             string    `json:"email" db:"email"`
	DateOfBirth       time.Time `json:"dateOfBirth" db:"date_of_birth"`
	PasswordHash      string    `json:"-" db:"password_hash"`
	PassportNumber    string    `json:"passportNumber" db:"passport_number"`
	PassportExpiry    time.Time `json:"passportExpiry" db:"passport_expiry"`
	Country           string    `json:"country" db:"country"`
	ContactNumber     string    `json:"contactNumber" db:"contact_number"`
	NotificationToken string    `json:"-" db:"notification_token"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	Role              Role      `json:"role" db:"role"`

	Employee    *Employee    `json:"employee,omitempty"`
	Participant *Participant `json:"participant,omitempty"`
}

// FullName joins first, optional middle and last name.
func (p *Person) FullName() string {
	parts := []string{p.FirstName}
	if p.MiddleName != nil && strings.TrimSpace(*p.MiddleName) != "" {
		parts = append(parts, strings.TrimSpace(*p.MiddleName))
	}
	parts = append(parts, p.LastName)
	return strings.Join(parts, " ")
}

// IsApprovedStaff reports whether the person may log in as staff.
func (p *Person) IsApprovedStaff() bool {
	return p.Role == RoleEmployee && p.Employee != nil && p.Participant == nil &&
		p.Employee.ApprovalStatus == ApprovalApproved
}

// IsParticipant reports whether the person may log in as a participant.
func (p *Person) IsParticipant() bool {
	return p.Role == RoleParticipant && p.Participant != nil && p.Employee == nil
}

// Employee is the staff payload of a Person.
type Employee struct {
	ID             int64          `json:"-" db:"id"`
	UUID           uuid.UUID      `json:"uuid" db:"uuid"`
	PersonID       int64          `json:"-" db:"person_id"`
	UserType       UserType       `json:"userType" db:"user_type"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus" db:"approval_status"`
}

// Participant is the applicant payload of a Person.
type Participant struct {
	ID           int64     `json:"-" db:"id"`
	UUID         uuid.UUID `json:"uuid" db:"uuid"`
	PersonID     int64     `json:"-" db:"person_id"`
	Organisation string    `json:"organisation" db:"organisation"`
	JobTitle     string    `json:"jobTitle" db:"job_title"`
}

// Profile holds the person fields supplied at registration and on update.
type Profile struct {
	FirstName         string
	MiddleName        *string
	LastName          string
	Email             string
	DateOfBirth       time.Time
	PassportNumber    string
	PassportExpiry    time.Time
	Country           string
	ContactNumber     string
	NotificationToken string
}

// ApplyTo copies the profile onto p.
func (pr Profile) ApplyTo(p *Person) {
	p.FirstName = pr.FirstName
	p.MiddleName = pr.MiddleName
	p.LastName = pr.LastName
	p.Email = pr.Email
	p.DateOfBirth = pr.DateOfBirth
	p.PassportNumber = pr.PassportNumber
	p.PassportExpiry = pr.PassportExpiry
	p.Country = pr.Country
	p.ContactNumber = pr.ContactNumber
	p.NotificationToken = pr.NotificationToken
}
