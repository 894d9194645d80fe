// Package config provides configuration management for the HexaCiphers API.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have sensible defaults for development use;
// PostgreSQL settings follow the DATABASE_URL / POSTGRES_* convention and
// Redis is optional.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
