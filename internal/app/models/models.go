package models

import "fmt"

// Role tags which payload a Person carries.
type Role string

const (
	RoleEmployee    Role = "EMPLOYEE"
	RoleParticipant Role = "PARTICIPANT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleParticipant
}

// UserType is the staff level of an employee.
type UserType int

const (
	UserTypeSchoolHead    UserType = 0
	UserTypeCourseManager UserType = 1
	UserTypeAdmin         UserType = 2
)

// ParseUserType converts a transport level into a UserType.
func ParseUserType(level int) (UserType, error) {
	t := UserType(level)
	if !t.Valid() {
		return 0, fmt.Errorf("unknown user level %d", level)
	}
	return t, nil
}

// Valid reports whether t is a known staff level.
func (t UserType) Valid() bool {
	return t >= UserTypeSchoolHead && t <= UserTypeAdmin
}

// String returns the display label of the level.
func (t UserType) String() string {
	switch t {
	case UserTypeSchoolHead:
		return "School Head"
	case UserTypeCourseManager:
		return "Course Manager"
	case UserTypeAdmin:
		return "Admin"
	default:
		return fmt.Sprintf("UserType(%d)", int(t))
	}
}

// ApprovalStatus gates staff login.
type ApprovalStatus int

const (
	ApprovalRejected ApprovalStatus = 0
	ApprovalPending  ApprovalStatus = 1
	ApprovalApproved ApprovalStatus = 2
)

// ParseApprovalStatus converts a transport value into an ApprovalStatus.
func ParseApprovalStatus(v int) (ApprovalStatus, error) {
	s := ApprovalStatus(v)
	if s < ApprovalRejected || s > ApprovalApproved {
		return 0, fmt.Errorf("unknown approval status %d", v)
	}
	return s, nil
}

func (s ApprovalStatus) String() string {
	switch s {
	case ApprovalRejected:
		return "REJECTED"
	case ApprovalPending:
		return "PENDING"
	case ApprovalApproved:
		return "APPROVED"
	default:
		return fmt.Sprintf("ApprovalStatus(%d)", int(s))
	}
}

// Page selects a window of a listing. The zero value selects every row.
type Page struct {
	Offset uint64
	Limit  int
}

// All reports whether the page selects every row.
func (p Page) All() bool {
	return p.Limit <= 0
}
