package services

import (
	"github.com/rs/zerolog"
	appauth "github.com/yigit/programhub/internal/app/auth"
	"github.com/yigit/programhub/internal/app/repositories"
	"github.com/yigit/programhub/internal/pkg/auth"
)

// Services defined in this package:
// - IdentityService: registration, approval and profile management
// - AuthService: login, logout and token issue
// - CatalogService: course, fellowship, diploma and scholarship CRUD
// - ApplicationService: the application lifecycle
// - InterestService: participant interests
type Services struct {
	Identity      IdentityService
	Auth          *AuthService
	Catalog       CatalogService
	Applications  ApplicationService
	Interests     InterestService
	Authorization *appauth.AuthorizationService
}

// Deps carries the infrastructure the services are built on.
type Deps struct {
	Repos      *repositories.Repositories
	Hasher     auth.PasswordHasher
	Tokens     TokenIssuer
	Revocation auth.RevocationStore
	Observer   LoginObserver
	Logger     zerolog.Logger
}

// New wires every service over the repositories.
func New(d Deps) *Services {
	authz := appauth.NewAuthorizationService(d.Repos.UserRepository)
	catalog := NewCatalogService(CatalogStores{
		Courses:      d.Repos.CourseRepository,
		Fellowships:  d.Repos.FellowshipRepository,
		Diplomas:     d.Repos.DiplomaRepository,
		Scholarships: d.Repos.ScholarshipRepository,
	}, d.Logger.With().Str("service", "catalog").Logger())

	return &Services{
		Identity:      NewIdentityService(d.Repos.UserRepository, d.Hasher, authz, d.Logger.With().Str("service", "identity").Logger()),
		Auth:          NewAuthService(d.Repos.UserRepository, d.Hasher, d.Tokens, d.Revocation, d.Observer, d.Logger.With().Str("service", "auth").Logger()),
		Catalog:       catalog,
		Applications:  NewApplicationService(d.Repos.ApplicationRepository, catalog, d.Logger.With().Str("service", "applications").Logger()),
		Interests:     NewInterestService(d.Repos.InterestRepository, catalog, d.Logger.With().Str("service", "interests").Logger()),
		Authorization: authz,
	}
}
