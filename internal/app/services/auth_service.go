package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/pkg/apperrors"
	"github.com/yigit/programhub/internal/pkg/auth"
	"github.com/yigit/programhub/internal/pkg/validation"
)

// TokenIssuer signs access tokens for authenticated identities.
type TokenIssuer interface {
	GenerateAccessToken(identity auth.Identity) (*auth.AccessToken, error)
}

// LoginObserver records login outcomes.
type LoginObserver interface {
	ObserveLogin(role string, success bool)
}

// LoginResult is a successful login.
type LoginResult struct {
	Identity auth.Identity
	Token    *auth.AccessToken
}

// AuthService handles authentication operations
type AuthService struct {
	store      IdentityStore
	hasher     auth.PasswordHasher
	tokens     TokenIssuer
	revocation auth.RevocationStore
	observer   LoginObserver
	now        func() time.Time
	logger     zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. observer may be nil.
func NewAuthService(
	store IdentityStore,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	revocation auth.RevocationStore,
	observer LoginObserver,
	logger zerolog.Logger,
) *AuthService {
	if revocation == nil {
		revocation = auth.NoopRevocationStore{}
	}
	return &AuthService{
		store:      store,
		hasher:     hasher,
		tokens:     tokens,
		revocation: revocation,
		observer:   observer,
		now:        time.Now,
		logger:     logger,
	}
}

// verifiedPerson loads the person and checks the password. A nil person
// with a nil error is a denial.
func (s *AuthService) verifiedPerson(ctx context.Context, email, password string) (*models.Person, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil
	}

	p, err := s.store.GetPersonByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.verifyDummy(ctx, password)
			return nil, nil
		}
		return nil, fmt.Errorf("error loading person: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, p.PasswordHash, password)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownHashFormat) {
			s.logger.Warn().Str("person", p.UUID.String()).Msg("Stored password hash has an unknown format")
			return nil, nil
		}
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return p, nil
}

// verifyDummy spends one hash verification on an unknown email so a miss
// costs about as much as a wrong password.
func (s *AuthService) verifyDummy(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(ctx, uuid.NewString())
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(ctx, s.dummyHash, password)
	}
}

// AuthenticateStaff returns the employee UUID when the password verifies and
// the person is an approved employee with no participant role.
func (s *AuthService) AuthenticateStaff(ctx context.Context, email, password string) (uuid.UUID, bool, error) {
	p, err := s.verifiedPerson(ctx, email, password)
	if err != nil || p == nil {
		return uuid.Nil, false, err
	}
	if !p.IsApprovedStaff() {
		return uuid.Nil, false, nil
	}
	return p.Employee.UUID, true, nil
}

// AuthenticateParticipant returns the participant UUID when the password
// verifies and the person is a participant.
func (s *AuthService) AuthenticateParticipant(ctx context.Context, email, password string) (uuid.UUID, bool, error) {
	p, err := s.verifiedPerson(ctx, email, password)
	if err != nil || p == nil {
		return uuid.Nil, false, err
	}
	if !p.IsParticipant() {
		return uuid.Nil, false, nil
	}
	return p.Participant.UUID, true, nil
}

// LoginStaff authenticates an employee and issues an access token. A denial
// is reported as ErrInvalidCredentials.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*LoginResult, error) {
	p, err := s.verifiedPerson(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsApprovedStaff() {
		s.observe(models.RoleEmployee, false)
		return nil, apperrors.ErrInvalidCredentials
	}

	userType := p.Employee.UserType
	return s.issue(auth.Identity{
		SubjectUUID: p.Employee.UUID,
		PersonUUID:  p.UUID,
		Role:        models.RoleEmployee,
		UserType:    &userType,
	})
}

// LoginParticipant authenticates a participant and issues an access token.
func (s *AuthService) LoginParticipant(ctx context.Context, email, password string) (*LoginResult, error) {
	p, err := s.verifiedPerson(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsParticipant() {
		s.observe(models.RoleParticipant, false)
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(auth.Identity{
		SubjectUUID: p.Participant.UUID,
		PersonUUID:  p.UUID,
		Role:        models.RoleParticipant,
	})
}

func (s *AuthService) issue(identity auth.Identity) (*LoginResult, error) {
	token, err := s.tokens.GenerateAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	s.observe(identity.Role, true)
	s.logger.Info().Str("subject", identity.SubjectUUID.String()).Str("role", string(identity.Role)).
		Msg("Login succeeded")
	return &LoginResult{Identity: identity, Token: token}, nil
}

func (s *AuthService) observe(role models.Role, success bool) {
	if s.observer != nil {
		s.observer.ObserveLogin(string(role), success)
	}
}

// Logout revokes a token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return apperrors.ErrTokenInvalid
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocation.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("%w: error revoking token: %w", apperrors.ErrStorageFailure, err)
	}
	return nil
}
