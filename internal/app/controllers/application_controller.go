package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/app/services"
	"github.com/yigit/programhub/internal/middleware"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/helpers"
)

// ApplicationController handles application workflow endpoints
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService}
}

// Apply files an application for the calling participant
func (c *ApplicationController) Apply(ctx *gin.Context) {
	participantID, ok := currentSubject(ctx)
	if !ok {
		return
	}
	var req dto.ApplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	offeringID, err := helpers.ParseUUID(req.OfferingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	app, err := c.applicationService.Apply(ctx.Request.Context(), participantID, *req.Kind, offeringID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}

// ListMine lists the caller's applications of one kind (?kind=, default course)
func (c *ApplicationController) ListMine(ctx *gin.Context) {
	participantID, ok := currentSubject(ctx)
	if !ok {
		return
	}
	kind, ok := middleware.IntQuery(ctx, "kind", int(models.OfferingCourse))
	if !ok {
		return
	}

	items, err := c.applicationService.ListApplicationsForParticipant(ctx.Request.Context(), participantID, kind)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewOfferingApplications(items)))
}

// AdvanceProgress moves an application through the workflow
func (c *ApplicationController) AdvanceProgress(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AdvanceProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.AdvanceProgress(ctx.Request.Context(), id, *req.Kind, *req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewApplicationResponse(app)))
}

// ListApplicants lists who applied to an offering, filtered by ?band=
func (c *ApplicationController) ListApplicants(ctx *gin.Context) {
	kind, err := strconv.Atoi(ctx.Param("kind"))
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: kind must be an integer", apperrors.ErrValidationFailed))
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	band, err := models.ParseProgressBand(ctx.Query("band"))
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err))
		return
	}

	applicants, err := c.applicationService.ListApplicantsForOffering(ctx.Request.Context(), kind, id, band)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// The band filter runs after loading, so pages are cut from the result.
	lp := parseListPage(ctx)
	summaries := dto.NewApplicantSummaries(applicants)
	total := int64(len(summaries))
	if lp.paged {
		start, end := helpers.CalculateSliceIndices(lp.page, lp.size, len(summaries))
		summaries = summaries[start:end]
	}
	lp.respond(ctx, summaries, total)
}
