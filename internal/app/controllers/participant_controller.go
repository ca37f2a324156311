package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/app/services"
	"github.com/yigit/programhub/internal/middleware"
)

// ParticipantController handles participant profile endpoints
type ParticipantController struct {
	identityService services.IdentityService
}

// NewParticipantController creates a new ParticipantController
func NewParticipantController(identityService services.IdentityService) *ParticipantController {
	return &ParticipantController{identityService: identityService}
}

// GetMe returns the caller's participant profile
func (c *ParticipantController) GetMe(ctx *gin.Context) {
	id, ok := currentSubject(ctx)
	if !ok {
		return
	}
	person, err := c.identityService.GetParticipant(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewParticipantResponse(person)))
}

// UpdateMe rewrites the caller's profile
func (c *ParticipantController) UpdateMe(ctx *gin.Context) {
	id, ok := currentSubject(ctx)
	if !ok {
		return
	}
	var req dto.UpdateParticipantRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	person, err := c.identityService.UpdateParticipant(ctx.Request.Context(), id, req.ToProfile(),
		req.Organisation, req.JobTitle, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewParticipantResponse(person)))
}

// ChangeMyPassword replaces the caller's password
func (c *ParticipantController) ChangeMyPassword(ctx *gin.Context) {
	id, ok := currentSubject(ctx)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.identityService.ChangePassword(ctx.Request.Context(), models.RoleParticipant, id, req.Password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Password updated"}))
}

// GetParticipant returns one participant to staff
func (c *ParticipantController) GetParticipant(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	person, err := c.identityService.GetParticipant(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewParticipantResponse(person)))
}
