// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/app/services"
	"github.com/yigit/programhub/internal/middleware"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// Authenticator logs users in and out.
type Authenticator interface {
	LoginStaff(ctx context.Context, email, password string) (*services.LoginResult, error)
	LoginParticipant(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthController handles registration, login and logout
type AuthController struct {
	authService     Authenticator
	identityService services.IdentityService
	logger          zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService Authenticator, identityService services.IdentityService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:     authService,
		identityService: identityService,
		logger:          logger,
	}
}

// RegisterStaff creates a pending employee account. It cannot log in until
// an admin approves it.
func (c *AuthController) RegisterStaff(ctx *gin.Context) {
	var req dto.RegisterStaffRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	person, err := c.identityService.RegisterStaff(ctx.Request.Context(), req.ToProfile(), req.Password, *req.UserLevel)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Staff registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewEmployeeResponse(person)))
}

// RegisterParticipant creates a participant account
func (c *AuthController) RegisterParticipant(ctx *gin.Context) {
	var req dto.RegisterParticipantRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	person, err := c.identityService.RegisterParticipant(ctx.Request.Context(), req.ToProfile(), req.Password, req.Organisation, req.JobTitle)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Participant registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewParticipantResponse(person)))
}

// LoginStaff authenticates an approved employee
func (c *AuthController) LoginStaff(ctx *gin.Context) {
	c.login(ctx, c.authService.LoginStaff)
}

// LoginParticipant authenticates a participant
func (c *AuthController) LoginParticipant(ctx *gin.Context) {
	c.login(ctx, c.authService.LoginParticipant)
}

func (c *AuthController) login(ctx *gin.Context, fn func(context.Context, string, string) (*services.LoginResult, error)) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := fn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAuthResponse(result.Identity, result.Token, time.Now())))
}

// Logout revokes the bearer token of the current request
func (c *AuthController) Logout(ctx *gin.Context) {
	claims, ok := middleware.GetClaims(ctx)
	if !ok || claims.ExpiresAt == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Logged out"}))
}
