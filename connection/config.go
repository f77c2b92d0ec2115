// Package connection builds authenticated Azure DevOps client handles
// from environment credentials. Handles are stateless and reusable; the
// remote service arbitrates all concurrent-write correctness.
package connection

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// ErrMissingCredentials is returned when the organization URL or access
// token is absent from the environment.
var ErrMissingCredentials = errors.New("AZURE_DEVOPS_ORGANIZATION_URL or AZURE_DEVOPS_PAT not set")

// Config holds the credentials for one Azure DevOps organization. The
// token must have organization-wide scope, otherwise the identity service
// answers 401.
type Config struct {
	OrganizationURL     string `env:"AZURE_DEVOPS_ORGANIZATION_URL"`
	PersonalAccessToken string `env:"AZURE_DEVOPS_PAT"`
}

// LoadConfig reads credentials from the environment, honoring a .env file
// in the working directory when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment configuration")
	}

	if cfg.OrganizationURL == "" || cfg.PersonalAccessToken == "" {
		return nil, ErrMissingCredentials
	}

	return &cfg, nil
}
