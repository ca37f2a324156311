package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/helpers"
)

func schedule(title string) models.CourseInfo {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.CourseInfo{
		Title:               title,
		StartDate:           helpers.TimePtr(start),
		EndDate:             helpers.TimePtr(start.AddDate(0, 2, 0)),
		ApplicationDeadline: start.AddDate(0, -1, 0),
	}
}

func TestCatalog_CourseValidation(t *testing.T) {
	svc := NewCatalogService(newFakeCatalog().stores(), zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name   string
		course func() *models.Course
	}{
		{"missing title", func() *models.Course { return &models.Course{Info: schedule("  ")} }},
		{"long title", func() *models.Course { return &models.Course{Info: schedule(strings.Repeat("x", 201))} }},
		{"negative fees", func() *models.Course { return &models.Course{Info: schedule("C1"), Fees: -1} }},
		{"fees beyond column", func() *models.Course { return &models.Course{Info: schedule("C1"), Fees: 1e10} }},
		{"missing deadline", func() *models.Course {
			info := schedule("C1")
			info.ApplicationDeadline = time.Time{}
			return &models.Course{Info: info}
		}},
		{"missing end date", func() *models.Course {
			info := schedule("C1")
			info.EndDate = nil
			return &models.Course{Info: info}
		}},
		{"start after end", func() *models.Course {
			info := schedule("C1")
			info.StartDate, info.EndDate = info.EndDate, info.StartDate
			return &models.Course{Info: info}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateCourse(ctx, tt.course()); !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("CreateCourse() error = %v, want validation failure", err)
			}
		})
	}
}

func TestCatalog_CourseLifecycle(t *testing.T) {
	catalog := newFakeCatalog()
	svc := NewCatalogService(catalog.stores(), zerolog.Nop())
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, &models.Course{Info: schedule(" C1 "), Fees: 100})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	if c.Info.Title != "C1" {
		t.Errorf("title = %q, want trimmed", c.Info.Title)
	}

	updated, err := svc.UpdateCourse(ctx, c.UUID, &models.Course{Info: schedule("C1b"), Fees: 150})
	if err != nil {
		t.Fatalf("UpdateCourse() error = %v", err)
	}
	if updated.Fees != 150 || updated.UUID != c.UUID {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.UpdateCourse(ctx, uuid.New(), &models.Course{Info: schedule("x")}); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("update unknown error = %v", err)
	}

	if err := svc.DeleteCourse(ctx, c.UUID); err != nil {
		t.Fatalf("DeleteCourse() error = %v", err)
	}
	if _, err := svc.GetCourse(ctx, c.UUID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("GetCourse() after delete error = %v", err)
	}
}

func TestCatalog_ListPages(t *testing.T) {
	catalog := newFakeCatalog()
	svc := NewCatalogService(catalog.stores(), zerolog.Nop())
	ctx := context.Background()

	for _, title := range []string{"C1", "C2", "C3"} {
		if _, err := svc.CreateCourse(ctx, &models.Course{Info: schedule(title), Fees: 10}); err != nil {
			t.Fatalf("CreateCourse(%s) error = %v", title, err)
		}
	}

	all, total, err := svc.ListCourses(ctx, models.Page{})
	if err != nil || len(all) != 3 || total != 3 {
		t.Fatalf("ListCourses(all) = %d items, total %d, err %v", len(all), total, err)
	}

	page, total, err := svc.ListCourses(ctx, helpers.PageOf(2, 2))
	if err != nil {
		t.Fatalf("ListCourses(page 2) error = %v", err)
	}
	if len(page) != 1 || total != 3 || page[0].Info.Title != "C3" {
		t.Errorf("page 2 = %+v, total %d", page, total)
	}

	catalog.err = errStorage
	if _, _, err := svc.ListScholarships(ctx, models.Page{}); !errors.Is(err, errStorage) {
		t.Errorf("ListScholarships() error = %v, want storage error", err)
	}
}

func TestCatalog_Fellowship(t *testing.T) {
	catalog := newFakeCatalog()
	svc := NewCatalogService(catalog.stores(), zerolog.Nop())
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, &models.Course{Info: schedule("C1"), Fees: 100})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	info := models.CourseInfo{Title: "F1", ApplicationDeadline: time.Now()}
	f, err := svc.CreateFellowship(ctx, &models.Fellowship{Info: info}, `"`+course.UUID.String()+`"`)
	if err != nil {
		t.Fatalf("CreateFellowship() error = %v", err)
	}
	if f.Course == nil || f.Course.UUID != course.UUID {
		t.Errorf("backing course = %+v", f.Course)
	}

	if _, err := svc.CreateFellowship(ctx, &models.Fellowship{Info: info}, uuid.NewString()); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("unknown course error = %v", err)
	}
	if _, err := svc.CreateFellowship(ctx, &models.Fellowship{Info: info}, "garbage"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("malformed course error = %v", err)
	}
	if _, err := svc.CreateFellowship(ctx, &models.Fellowship{Info: info}, ""); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("missing course error = %v", err)
	}

	if err := svc.DeleteCourse(ctx, course.UUID); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("delete backing course error = %v, want conflict", err)
	}

	kept, err := svc.UpdateFellowship(ctx, f.UUID, &models.Fellowship{Info: info, Outline: "new"}, "")
	if err != nil {
		t.Fatalf("UpdateFellowship() error = %v", err)
	}
	if kept.Course == nil || kept.Course.UUID != course.UUID || kept.Outline != "new" {
		t.Errorf("kept = %+v", kept)
	}
}

func TestCatalog_DiplomaAndScholarship(t *testing.T) {
	svc := NewCatalogService(newFakeCatalog().stores(), zerolog.Nop())
	ctx := context.Background()

	info := schedule("D1")
	info.StartDate = nil
	if _, err := svc.CreateDiploma(ctx, &models.Diploma{Info: info, Fees: 10}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("diploma without start date error = %v", err)
	}
	d, err := svc.CreateDiploma(ctx, &models.Diploma{Info: schedule("D1"), Fees: 10})
	if err != nil {
		t.Fatalf("CreateDiploma() error = %v", err)
	}

	if _, err := svc.CreateScholarship(ctx, &models.Scholarship{Title: "S1", BondYears: -2}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("negative bond error = %v", err)
	}
	s, err := svc.CreateScholarship(ctx, &models.Scholarship{Title: "S1", BondYears: 2})
	if err != nil {
		t.Fatalf("CreateScholarship() error = %v", err)
	}

	o, err := svc.GetOffering(ctx, models.OfferingDiploma, d.UUID)
	if err != nil || o.Diploma == nil || o.UUID() != d.UUID {
		t.Errorf("GetOffering(diploma) = %+v, %v", o, err)
	}
	o, err = svc.GetOffering(ctx, models.OfferingScholarship, s.UUID)
	if err != nil || o.Scholarship == nil {
		t.Errorf("GetOffering(scholarship) = %+v, %v", o, err)
	}
	if _, err := svc.GetOffering(ctx, models.OfferingCourse, d.UUID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("GetOffering(wrong kind) error = %v", err)
	}
	if _, err := svc.GetOffering(ctx, models.OfferingKind(9), d.UUID); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("GetOffering(bad kind) error = %v", err)
	}
}
