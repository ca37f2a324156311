package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/app/services"
	"github.com/yigit/programhub/internal/middleware"
)

// CatalogController handles course, fellowship, diploma and scholarship
// endpoints
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// CreateCourse handles course creation
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.catalogService.CreateCourse(ctx.Request.Context(), req.ToCourse())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewCourseResponse(course)))
}

// GetCourse retrieves a course by ID
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.catalogService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseResponse(course)))
}

// ListCourses retrieves courses, one page at a time when ?page= or ?size= is given
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	lp := parseListPage(ctx)
	courses, total, err := c.catalogService.ListCourses(ctx.Request.Context(), lp.window())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	lp.respond(ctx, dto.NewCourseListResponse(courses), total)
}

// UpdateCourse replaces a course
func (c *CatalogController) UpdateCourse(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.catalogService.UpdateCourse(ctx.Request.Context(), id, req.ToCourse())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseResponse(course)))
}

// DeleteCourse removes a course
func (c *CatalogController) DeleteCourse(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
