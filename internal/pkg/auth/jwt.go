package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	TokenIssuer    string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Identity is the authenticated principal carried by a token. SubjectUUID is
// the employee or participant UUID, never the person UUID.
type Identity struct {
	SubjectUUID uuid.UUID
	PersonUUID  uuid.UUID
	Role        models.Role
	UserType    *models.UserType
}

// Claims defines JWT token content
type Claims struct {
	Role       string `json:"role"`
	PersonUUID string `json:"personUuid"`
	UserType   *int   `json:"userType,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts validated claims back into an Identity.
func (c *Claims) Identity() (Identity, error) {
	subject, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, apperrors.ErrTokenInvalid
	}
	person, err := uuid.Parse(c.PersonUUID)
	if err != nil {
		return Identity{}, apperrors.ErrTokenInvalid
	}
	role := models.Role(c.Role)
	if !role.Valid() {
		return Identity{}, apperrors.ErrTokenInvalid
	}

	id := Identity{SubjectUUID: subject, PersonUUID: person, Role: role}
	if c.UserType != nil {
		ut, err := models.ParseUserType(*c.UserType)
		if err != nil {
			return Identity{}, apperrors.ErrTokenInvalid
		}
		id.UserType = &ut
	}
	if role == models.RoleEmployee && id.UserType == nil {
		return Identity{}, apperrors.ErrTokenInvalid
	}
	return id, nil
}

// AccessToken is a signed token plus the metadata needed for revocation.
type AccessToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// GenerateAccessToken signs a token for the identity.
func (s *JWTService) GenerateAccessToken(identity Identity) (*AccessToken, error) {
	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenExp)
	tokenID := uuid.NewString()

	claims := &Claims{
		Role:       string(identity.Role),
		PersonUUID: identity.PersonUUID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   identity.SubjectUUID.String(),
			ID:        tokenID,
		},
	}
	if identity.UserType != nil {
		level := int(*identity.UserType)
		claims.UserType = &level
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AccessToken{Token: signed, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

// ValidateToken validates a token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.TokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from an Authorization header using
// the Bearer scheme. The scheme name is case-insensitive and quoted headers,
// which some clients send, are accepted.
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", apperrors.ErrTokenInvalid
	}

	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return "", apperrors.ErrTokenInvalid
	}
	return token, nil
}
