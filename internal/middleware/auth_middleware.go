package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/auth"
	"github.com/yigit/programhub/internal/pkg/logger"
)

// Context keys set by JWTAuth.
const (
	IdentityKey = "identity"
	ClaimsKey   = "claims"
)

// TokenValidator parses and verifies access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// StaffAuthorizer checks an employee's standing in storage.
type StaffAuthorizer interface {
	ValidateApprovedStaff(ctx context.Context, employeeUUID uuid.UUID) error
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	tokens     TokenValidator
	revocation auth.RevocationStore
	staff      StaffAuthorizer
}

// NewAuthMiddleware creates a new AuthMiddleware. revocation may be nil.
func NewAuthMiddleware(tokens TokenValidator, revocation auth.RevocationStore, staff StaffAuthorizer) *AuthMiddleware {
	if revocation == nil {
		revocation = auth.NoopRevocationStore{}
	}
	return &AuthMiddleware{
		tokens:     tokens,
		revocation: revocation,
		staff:      staff,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "Invalid token format")
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				abortWith(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Authentication failed", "Token has expired")
				return
			}
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token")
			return
		}

		revoked, err := m.revocation.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Error().Err(err).Msg("Error checking token revocation")
			abortWith(c, http.StatusServiceUnavailable, dto.ErrorCodeStorageUnavailable, "Storage unavailable", "")
			return
		}
		if revoked {
			HandleAPIError(c, apperrors.ErrTokenRevoked)
			return
		}

		identity, err := claims.Identity()
		if err != nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token claims")
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}
		if identity.Role != requiredRole {
			abortWith(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied",
				"You don't have sufficient permissions for this operation")
			return
		}
		c.Next()
	}
}

// ApprovedStaffRequired lets through employees whose approval is current in
// storage. Token claims alone are not trusted, so a revoked approval takes
// effect before the token expires.
func (m *AuthMiddleware) ApprovedStaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}
		if identity.Role != models.RoleEmployee {
			abortWith(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied", "Staff access required")
			return
		}
		if err := m.staff.ValidateApprovedStaff(c.Request.Context(), identity.SubjectUUID); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity stored by JWTAuth.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

// GetClaims returns the validated claims stored by JWTAuth.
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
