package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
)

// CourseInfoRequest carries the schedule block
type CourseInfoRequest struct {
	Title               string     `json:"title" binding:"required,max=200"`
	StartDate           *time.Time `json:"startDate"`
	EndDate             *time.Time `json:"endDate"`
	ApplicationDeadline time.Time  `json:"applicationDeadline" binding:"required"`
}

// ToCourseInfo converts the request into a course info
func (r CourseInfoRequest) ToCourseInfo() models.CourseInfo {
	return models.CourseInfo{
		Title:               r.Title,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		ApplicationDeadline: r.ApplicationDeadline,
	}
}

// CourseRequest creates or updates a course
type CourseRequest struct {
	CourseInfoRequest
	Fees               *float64 `json:"fees" binding:"required,gte=0,lt=1e10"`
	LearningOutcomes   string   `json:"learningOutcomes"`
	Prerequisites      string   `json:"prerequisites"`
	LearningActivities string   `json:"learningActivities"`
	Language           string   `json:"language" binding:"max=100"`
	Covered            string   `json:"covered"`
	WhoShouldAttend    string   `json:"whoShouldAttend"`
}

// ToCourse converts the request into a course
func (r CourseRequest) ToCourse() *models.Course {
	c := &models.Course{
		Info:               r.ToCourseInfo(),
		LearningOutcomes:   r.LearningOutcomes,
		Prerequisites:      r.Prerequisites,
		LearningActivities: r.LearningActivities,
		Language:           r.Language,
		Covered:            r.Covered,
		WhoShouldAttend:    r.WhoShouldAttend,
	}
	if r.Fees != nil {
		c.Fees = *r.Fees
	}
	return c
}

// FellowshipRequest creates or updates a fellowship. CourseID names the
// backing course; on update it may be left empty to keep the current one.
type FellowshipRequest struct {
	CourseInfoRequest
	Outline  string `json:"outline"`
	CourseID string `json:"courseId"`
}

// ToFellowship converts the request into a fellowship
func (r FellowshipRequest) ToFellowship() *models.Fellowship {
	return &models.Fellowship{
		Info:    r.ToCourseInfo(),
		Outline: r.Outline,
	}
}

// DiplomaRequest creates or updates a diploma
type DiplomaRequest struct {
	CourseInfoRequest
	Fees    *float64 `json:"fees" binding:"required,gte=0,lt=1e10"`
	Outline string   `json:"outline"`
}

// ToDiploma converts the request into a diploma
func (r DiplomaRequest) ToDiploma() *models.Diploma {
	d := &models.Diploma{
		Info:    r.ToCourseInfo(),
		Outline: r.Outline,
	}
	if r.Fees != nil {
		d.Fees = *r.Fees
	}
	return d
}

// ScholarshipRequest creates or updates a scholarship
type ScholarshipRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Eligibility string `json:"eligibility"`
	Benefits    string `json:"benefits"`
	BondYears   int    `json:"bondYears" binding:"gte=0"`
	Outline     string `json:"outline"`
}

// ToScholarship converts the request into a scholarship
func (r ScholarshipRequest) ToScholarship() *models.Scholarship {
	return &models.Scholarship{
		Title:       r.Title,
		Eligibility: r.Eligibility,
		Benefits:    r.Benefits,
		BondYears:   r.BondYears,
		Outline:     r.Outline,
	}
}

// CourseInfoResponse projects the schedule block
type CourseInfoResponse struct {
	Title               string     `json:"title"`
	StartDate           *time.Time `json:"startDate,omitempty"`
	EndDate             *time.Time `json:"endDate,omitempty"`
	ApplicationDeadline time.Time  `json:"applicationDeadline"`
}

// CourseResponse projects a course
type CourseResponse struct {
	ID uuid.UUID `json:"id"`
	CourseInfoResponse
	Fees               float64 `json:"fees"`
	LearningOutcomes   string  `json:"learningOutcomes"`
	Prerequisites      string  `json:"prerequisites"`
	LearningActivities string  `json:"learningActivities"`
	Language           string  `json:"language"`
	Covered            string  `json:"covered"`
	WhoShouldAttend    string  `json:"whoShouldAttend"`
}

// FellowshipResponse projects a fellowship with its backing course
type FellowshipResponse struct {
	ID uuid.UUID `json:"id"`
	CourseInfoResponse
	Outline string          `json:"outline"`
	Course  *CourseResponse `json:"course,omitempty"`
}

// DiplomaResponse projects a diploma
type DiplomaResponse struct {
	ID uuid.UUID `json:"id"`
	CourseInfoResponse
	Fees    float64 `json:"fees"`
	Outline string  `json:"outline"`
}

// ScholarshipResponse projects a scholarship
type ScholarshipResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Eligibility string    `json:"eligibility"`
	Benefits    string    `json:"benefits"`
	BondYears   int       `json:"bondYears"`
	Outline     string    `json:"outline"`
}

// OfferingResponse projects any offering tagged by kind
type OfferingResponse struct {
	Kind        int                  `json:"kind"`
	KindLabel   string               `json:"kindLabel"`
	ID          uuid.UUID            `json:"id"`
	Course      *CourseResponse      `json:"course,omitempty"`
	Fellowship  *FellowshipResponse  `json:"fellowship,omitempty"`
	Scholarship *ScholarshipResponse `json:"scholarship,omitempty"`
	Diploma     *DiplomaResponse     `json:"diploma,omitempty"`
}

func newCourseInfoResponse(info models.CourseInfo) CourseInfoResponse {
	return CourseInfoResponse{
		Title:               info.Title,
		StartDate:           info.StartDate,
		EndDate:             info.EndDate,
		ApplicationDeadline: info.ApplicationDeadline,
	}
}

// NewCourseResponse projects a course
func NewCourseResponse(c *models.Course) *CourseResponse {
	if c == nil {
		return nil
	}
	return &CourseResponse{
		ID:                 c.UUID,
		CourseInfoResponse: newCourseInfoResponse(c.Info),
		Fees:               c.Fees,
		LearningOutcomes:   c.LearningOutcomes,
		Prerequisites:      c.Prerequisites,
		LearningActivities: c.LearningActivities,
		Language:           c.Language,
		Covered:            c.Covered,
		WhoShouldAttend:    c.WhoShouldAttend,
	}
}

// NewFellowshipResponse projects a fellowship
func NewFellowshipResponse(f *models.Fellowship) *FellowshipResponse {
	if f == nil {
		return nil
	}
	return &FellowshipResponse{
		ID:                 f.UUID,
		CourseInfoResponse: newCourseInfoResponse(f.Info),
		Outline:            f.Outline,
		Course:             NewCourseResponse(f.Course),
	}
}

// NewDiplomaResponse projects a diploma
func NewDiplomaResponse(d *models.Diploma) *DiplomaResponse {
	if d == nil {
		return nil
	}
	return &DiplomaResponse{
		ID:                 d.UUID,
		CourseInfoResponse: newCourseInfoResponse(d.Info),
		Fees:               d.Fees,
		Outline:            d.Outline,
	}
}

// NewScholarshipResponse projects a scholarship
func NewScholarshipResponse(s *models.Scholarship) *ScholarshipResponse {
	if s == nil {
		return nil
	}
	return &ScholarshipResponse{
		ID:          s.UUID,
		Title:       s.Title,
		Eligibility: s.Eligibility,
		Benefits:    s.Benefits,
		BondYears:   s.BondYears,
		Outline:     s.Outline,
	}
}

// NewOfferingResponse projects an offering of any kind
func NewOfferingResponse(o models.Offering) OfferingResponse {
	return OfferingResponse{
		Kind:        int(o.Kind),
		KindLabel:   o.Kind.String(),
		ID:          o.UUID(),
		Course:      NewCourseResponse(o.Course),
		Fellowship:  NewFellowshipResponse(o.Fellowship),
		Scholarship: NewScholarshipResponse(o.Scholarship),
		Diploma:     NewDiplomaResponse(o.Diploma),
	}
}

// NewCourseListResponse projects a list of courses
func NewCourseListResponse(items []*models.Course) []*CourseResponse {
	out := make([]*CourseResponse, 0, len(items))
	for _, c := range items {
		out = append(out, NewCourseResponse(c))
	}
	return out
}

// NewFellowshipListResponse projects a list of fellowships
func NewFellowshipListResponse(items []*models.Fellowship) []*FellowshipResponse {
	out := make([]*FellowshipResponse, 0, len(items))
	for _, f := range items {
		out = append(out, NewFellowshipResponse(f))
	}
	return out
}

// NewDiplomaListResponse projects a list of diplomas
func NewDiplomaListResponse(items []*models.Diploma) []*DiplomaResponse {
	out := make([]*DiplomaResponse, 0, len(items))
	for _, d := range items {
		out = append(out, NewDiplomaResponse(d))
	}
	return out
}

// NewScholarshipListResponse projects a list of scholarships
func NewScholarshipListResponse(items []*models.Scholarship) []*ScholarshipResponse {
	out := make([]*ScholarshipResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewScholarshipResponse(s))
	}
	return out
}
