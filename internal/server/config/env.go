package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/studentrecords/internal/flagx"
	"github.com/dmitrijs2005/studentrecords/internal/timex"
)

const defaultEnvFile = ".env"

// loadEnvFile reads KEY=VALUE pairs from the file named by -env, or from
// ./.env when the flag is absent. Variables already set in the process
// environment win. A missing default file is not an error.
func loadEnvFile() error {
	path := flagx.EnvFileFlag()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// parseEnv overlays values from environment variables.
//
//	PORT                  HTTP port, ":" is prepended when missing
//	GRPC_ADDR             gRPC health endpoint address
//	DATABASE_URL          PostgreSQL DSN
//	JWT_SECRET            HMAC secret
//	JWT_EXPIRE            token lifetime ("30d", "12h", or seconds)
//	GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET, GITHUB_REDIRECT_URI
//	GITHUB_TIMEOUT        outbound GitHub request timeout
//	APP_ENV               deployment environment, NODE_ENV when unset
//	LOG_BACKEND           slog or zap
func parseEnv(config *Config) error {
	if err := loadEnvFile(); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		config.EndpointAddrHTTP = v
	}

	lookupString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	lookupString(&config.DatabaseDSN, "DATABASE_URL")
	lookupString(&config.SecretKey, "JWT_SECRET")
	lookupString(&config.GitHubClientID, "GITHUB_CLIENT_ID")
	lookupString(&config.GitHubClientSecret, "GITHUB_CLIENT_SECRET")
	lookupString(&config.GitHubRedirectURI, "GITHUB_REDIRECT_URI")
	lookupString(&config.Environment, "NODE_ENV")
	lookupString(&config.Environment, "APP_ENV")
	lookupString(&config.LogBackend, "LOG_BACKEND")

	if v, ok := os.LookupEnv("JWT_EXPIRE"); ok && v != "" {
		d, err := timex.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRE: %w", err)
		}
		config.AccessTokenValidityDuration = d
	}

	if v, ok := os.LookupEnv("GITHUB_TIMEOUT"); ok && v != "" {
		d, err := timex.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GITHUB_TIMEOUT: %w", err)
		}
		config.GitHubTimeout = d
	}

	return nil
}

func lookupString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
