package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/middleware"
)

// CreateScholarship handles scholarship creation
func (c *CatalogController) CreateScholarship(ctx *gin.Context) {
	var req dto.ScholarshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	scholarship, err := c.catalogService.CreateScholarship(ctx.Request.Context(), req.ToScholarship())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewScholarshipResponse(scholarship)))
}

// GetScholarship retrieves a scholarship by ID
func (c *CatalogController) GetScholarship(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	scholarship, err := c.catalogService.GetScholarship(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewScholarshipResponse(scholarship)))
}

// ListScholarships retrieves scholarships, one page at a time when ?page= or ?size= is given
func (c *CatalogController) ListScholarships(ctx *gin.Context) {
	lp := parseListPage(ctx)
	scholarships, total, err := c.catalogService.ListScholarships(ctx.Request.Context(), lp.window())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	lp.respond(ctx, dto.NewScholarshipListResponse(scholarships), total)
}

// UpdateScholarship replaces a scholarship
func (c *CatalogController) UpdateScholarship(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ScholarshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	scholarship, err := c.catalogService.UpdateScholarship(ctx.Request.Context(), id, req.ToScholarship())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewScholarshipResponse(scholarship)))
}

// DeleteScholarship removes a scholarship
func (c *CatalogController) DeleteScholarship(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteScholarship(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
