package actions

import (
	"fmt"
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultAPIURL is the public GitHub REST API root.
const DefaultAPIURL = "https://api.github.com"

// Env holds the runner-provided environment of a workflow step.
type Env struct {
	// Token authenticates API calls, from GITHUB_TOKEN.
	Token string `env:"GITHUB_TOKEN"`
	// GHToken is the gh CLI token, used when GITHUB_TOKEN is unset.
	GHToken string `env:"GH_TOKEN"`
	// Repository is the owner/name slug from GITHUB_REPOSITORY.
	Repository string `env:"GITHUB_REPOSITORY"`
	// Workspace is the job workspace root from GITHUB_WORKSPACE.
	Workspace string `env:"GITHUB_WORKSPACE"`
	// RunID is the current workflow run from GITHUB_RUN_ID.
	RunID int64 `env:"GITHUB_RUN_ID"`
	// EventName is the triggering event from GITHUB_EVENT_NAME.
	EventName string `env:"GITHUB_EVENT_NAME"`
	// EventPath is the event payload file from GITHUB_EVENT_PATH.
	EventPath string `env:"GITHUB_EVENT_PATH"`
	// APIURL is the REST API root from GITHUB_API_URL.
	APIURL string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	// OutputPath is the step output file from GITHUB_OUTPUT.
	OutputPath string `env:"GITHUB_OUTPUT"`
	// SummaryPath is the job summary file from GITHUB_STEP_SUMMARY.
	SummaryPath string `env:"GITHUB_STEP_SUMMARY"`
}

// ParseEnv reads Env from the process environment.
func ParseEnv() (Env, error) {
	e, err := envparse.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("parse runner environment: %w", err)
	}
	return e, nil
}

// ParseEnvFrom reads Env from vars only, ignoring the process environment.
func ParseEnvFrom(vars map[string]string) (Env, error) {
	e, err := envparse.ParseAsWithOptions[Env](envparse.Options{Environment: vars})
	if err != nil {
		return Env{}, fmt.Errorf("parse runner environment: %w", err)
	}
	return e, nil
}

// AuthToken returns GITHUB_TOKEN, falling back to GH_TOKEN.
func (e Env) AuthToken() string {
	if t := strings.TrimSpace(e.Token); t != "" {
		return t
	}
	return strings.TrimSpace(e.GHToken)
}

// IsEnterprise reports whether APIURL points somewhere other than github.com.
func (e Env) IsEnterprise() bool {
	return strings.TrimRight(e.APIURL, "/") != DefaultAPIURL
}

// LoadDotEnv loads .env-style files into the process environment for local
// runs. Variables that are already set are left untouched.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("load env file %q: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %q: %w", path, err)
		}
	}
	return nil
}
