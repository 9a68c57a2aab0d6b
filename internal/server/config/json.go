package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/studentrecords/internal/flagx"
	"github.com/dmitrijs2005/studentrecords/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Duration fields accept strings such as "30d" or "10s" as well as integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	GitHubClientID              string         `json:"github_client_id"`
	GitHubClientSecret          string         `json:"github_client_secret"`
	GitHubRedirectURI           string         `json:"github_redirect_uri"`
	GitHubTimeout               timex.Duration `json:"github_timeout"`
	Environment                 string         `json:"environment"`
	LogBackend                  string         `json:"log_backend"`
}

// parseJson overlays values from the file named by -c/-config.
// Without the flag nothing is loaded. Fields absent from the file keep
// their current values.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.GitHubClientID, c.GitHubClientID)
	setString(&config.GitHubClientSecret, c.GitHubClientSecret)
	setString(&config.GitHubRedirectURI, c.GitHubRedirectURI)
	setString(&config.Environment, c.Environment)
	setString(&config.LogBackend, c.LogBackend)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.GitHubTimeout.Duration != 0 {
		config.GitHubTimeout = c.GitHubTimeout.Duration
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
