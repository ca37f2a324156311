package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/auth"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthResponse represents successful authentication response. ID is the
// employee or participant UUID.
type AuthResponse struct {
	ID       uuid.UUID     `json:"id"`
	Role     models.Role   `json:"role"`
	UserType *int          `json:"userType,omitempty"`
	Token    TokenResponse `json:"token"`
}

// NewAuthResponse projects an issued token.
func NewAuthResponse(identity auth.Identity, token *auth.AccessToken, now time.Time) AuthResponse {
	resp := AuthResponse{
		ID:   identity.SubjectUUID,
		Role: identity.Role,
		Token: TokenResponse{
			AccessToken: token.Token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(token.ExpiresAt.Sub(now).Seconds()),
		},
	}
	if identity.UserType != nil {
		level := int(*identity.UserType)
		resp.UserType = &level
	}
	return resp
}
