package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/studentrecords/internal/flagx"
	"github.com/dmitrijs2005/studentrecords/internal/timex"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t string   token validity ("30d", "12h", or seconds)
//	-i string   GitHub OAuth client id
//	-x string   GitHub OAuth client secret
//	-r string   GitHub OAuth redirect URI
//	-e string   environment ("development" exposes error details)
//	-l string   log backend (slog or zap)
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and -env,
// handled by other stages, do not cause parse errors.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-i", "-x", "-r", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validity := fs.String("t", "", "access token validity")
	fs.StringVar(&config.GitHubClientID, "i", config.GitHubClientID, "GitHub client id")
	fs.StringVar(&config.GitHubClientSecret, "x", config.GitHubClientSecret, "GitHub client secret")
	fs.StringVar(&config.GitHubRedirectURI, "r", config.GitHubRedirectURI, "GitHub redirect URI")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *validity != "" {
		d, err := timex.ParseDuration(*validity)
		if err != nil {
			return fmt.Errorf("-t: %w", err)
		}
		config.AccessTokenValidityDuration = d
	}

	return nil
}
