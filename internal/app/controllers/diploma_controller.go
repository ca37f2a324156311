package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/middleware"
)

// CreateDiploma handles diploma creation
func (c *CatalogController) CreateDiploma(ctx *gin.Context) {
	var req dto.DiplomaRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	diploma, err := c.catalogService.CreateDiploma(ctx.Request.Context(), req.ToDiploma())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewDiplomaResponse(diploma)))
}

// GetDiploma retrieves a diploma by ID
func (c *CatalogController) GetDiploma(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	diploma, err := c.catalogService.GetDiploma(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewDiplomaResponse(diploma)))
}

// ListDiplomas retrieves diplomas, one page at a time when ?page= or ?size= is given
func (c *CatalogController) ListDiplomas(ctx *gin.Context) {
	lp := parseListPage(ctx)
	diplomas, total, err := c.catalogService.ListDiplomas(ctx.Request.Context(), lp.window())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	lp.respond(ctx, dto.NewDiplomaListResponse(diplomas), total)
}

// UpdateDiploma replaces a diploma
func (c *CatalogController) UpdateDiploma(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.DiplomaRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	diploma, err := c.catalogService.UpdateDiploma(ctx.Request.Context(), id, req.ToDiploma())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewDiplomaResponse(diploma)))
}

// DeleteDiploma removes a diploma
func (c *CatalogController) DeleteDiploma(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteDiploma(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
