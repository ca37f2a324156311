package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/app/services"
	"github.com/yigit/programhub/internal/middleware"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// StaffController handles employee profile and approval endpoints
type StaffController struct {
	identityService services.IdentityService
}

// NewStaffController creates a new StaffController
func NewStaffController(identityService services.IdentityService) *StaffController {
	return &StaffController{identityService: identityService}
}

// currentSubject returns the role UUID of the authenticated caller.
func currentSubject(ctx *gin.Context) (uuid.UUID, bool) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return uuid.Nil, false
	}
	return identity.SubjectUUID, true
}

// GetMe returns the caller's employee profile
func (c *StaffController) GetMe(ctx *gin.Context) {
	id, ok := currentSubject(ctx)
	if !ok {
		return
	}
	person, err := c.identityService.GetEmployee(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEmployeeResponse(person)))
}

// UpdateMe rewrites the caller's profile
func (c *StaffController) UpdateMe(ctx *gin.Context) {
	id, ok := currentSubject(ctx)
	if !ok {
		return
	}
	var req dto.UpdateEmployeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	person, err := c.identityService.UpdateEmployee(ctx.Request.Context(), id, req.ToProfile(), req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEmployeeResponse(person)))
}

// ChangeMyPassword replaces the caller's password
func (c *StaffController) ChangeMyPassword(ctx *gin.Context) {
	id, ok := currentSubject(ctx)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.identityService.ChangePassword(ctx.Request.Context(), models.RoleEmployee, id, req.Password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Password updated"}))
}

// ListPending lists employees awaiting approval, oldest first
func (c *StaffController) ListPending(ctx *gin.Context) {
	lp := parseListPage(ctx)
	people, total, err := c.identityService.ListPendingStaff(ctx.Request.Context(), lp.window())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	lp.respond(ctx, dto.NewEmployeeListResponse(people), total)
}

// GetEmployee returns one employee
func (c *StaffController) GetEmployee(ctx *gin.Context) {
	id, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	person, err := c.identityService.GetEmployee(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEmployeeResponse(person)))
}

// SetApproval approves or rejects an employee. Only approved admins may
// call it, and never on themselves.
func (c *StaffController) SetApproval(ctx *gin.Context) {
	actor, ok := currentSubject(ctx)
	if !ok {
		return
	}
	target, ok := middleware.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.SetApprovalRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.identityService.SetApprovalStatus(ctx.Request.Context(), actor, target, *req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	person, err := c.identityService.GetEmployee(ctx.Request.Context(), target)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEmployeeResponse(person)))
}
