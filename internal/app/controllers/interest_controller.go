package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/app/services"
	"github.com/yigit/programhub/internal/middleware"
)

// InterestController handles a participant's interest list
type InterestController struct {
	interestService services.InterestService
}

// NewInterestController creates a new InterestController
func NewInterestController(interestService services.InterestService) *InterestController {
	return &InterestController{interestService: interestService}
}

// Add records interest in exactly one offering
func (c *InterestController) Add(ctx *gin.Context) {
	participantID, ok := currentSubject(ctx)
	if !ok {
		return
	}
	var req dto.AddInterestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	selection, err := req.ToSelection()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	interest, err := c.interestService.AddInterest(ctx.Request.Context(), participantID, selection)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{
		"id":         interest.UUID,
		"kind":       int(interest.Kind),
		"offeringId": interest.OfferingUUID,
	}))
}

// List returns the caller's interests with their offerings
func (c *InterestController) List(ctx *gin.Context) {
	participantID, ok := currentSubject(ctx)
	if !ok {
		return
	}

	entries, err := c.interestService.ListInterests(ctx.Request.Context(), participantID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewInterestResponses(entries)))
}

// Remove deletes one of the caller's interests
func (c *InterestController) Remove(ctx *gin.Context) {
	participantID, ok := currentSubject(ctx)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.interestService.RemoveInterest(ctx.Request.Context(), participantID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
