package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/middleware"
)

// CreateFellowship handles fellowship creation against an existing course
func (c *CatalogController) CreateFellowship(ctx *gin.Context) {
	var req dto.FellowshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	fellowship, err := c.catalogService.CreateFellowship(ctx.Request.Context(), req.ToFellowship(), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewFellowshipResponse(fellowship)))
}

// GetFellowship retrieves a fellowship by ID
func (c *CatalogController) GetFellowship(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	fellowship, err := c.catalogService.GetFellowship(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewFellowshipResponse(fellowship)))
}

// ListFellowships retrieves fellowships, one page at a time when ?page= or ?size= is given
func (c *CatalogController) ListFellowships(ctx *gin.Context) {
	lp := parseListPage(ctx)
	fellowships, total, err := c.catalogService.ListFellowships(ctx.Request.Context(), lp.window())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	lp.respond(ctx, dto.NewFellowshipListResponse(fellowships), total)
}

// UpdateFellowship replaces a fellowship. An empty courseId keeps the
// backing course.
func (c *CatalogController) UpdateFellowship(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.FellowshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	fellowship, err := c.catalogService.UpdateFellowship(ctx.Request.Context(), id, req.ToFellowship(), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewFellowshipResponse(fellowship)))
}

// DeleteFellowship removes a fellowship
func (c *CatalogController) DeleteFellowship(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteFellowship(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
