package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/config"
)

// AdminEnsurer is the part of the identity service the seeder needs.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, profile appModels.Profile, password string) (*appModels.Person, bool, error)
}

// Placeholder identity fields for the bootstrap account. The admin is
// expected to replace them through the profile endpoint.
const (
	adminPassport = "ADMIN00001"
	adminContact  = "+0000000"
	adminCountry  = "N/A"
)

// AdminProfile builds the bootstrap admin profile from configuration.
func AdminProfile(cfg *config.Config) appModels.Profile {
	return appModels.Profile{
		FirstName:      cfg.Seed.AdminFirstName,
		LastName:       cfg.Seed.AdminLastName,
		Email:          cfg.Seed.AdminEmail,
		DateOfBirth:    time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		PassportNumber: adminPassport,
		PassportExpiry: time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC),
		Country:        adminCountry,
		ContactNumber:  adminContact,
	}
}

// CreateDefaultData creates an approved admin account when one is configured
// and the email is not registered yet.
func CreateDefaultData(ctx context.Context, cfg *config.Config, identity AdminEnsurer, lgr zerolog.Logger) error {
	if cfg.Seed.AdminEmail == "" {
		lgr.Info().Msg("No seed admin configured, skipping default data")
		return nil
	}

	lgr.Info().Str("email", cfg.Seed.AdminEmail).Msg("Checking/Creating default admin...")
	person, created, err := identity.EnsureAdmin(ctx, AdminProfile(cfg), cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to ensure default admin: %w", err)
	}

	if created {
		lgr.Info().Str("uuid", person.UUID.String()).Msg("Default admin created")
	} else {
		lgr.Info().Str("email", person.Email).Msg("Default admin already exists")
	}
	return nil
}
