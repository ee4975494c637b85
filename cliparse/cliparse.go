package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	UpstreamURL  string
	DatabaseURL  string
	DatabaseType string
	SessionSalt  string
	SessionTTL   time.Duration
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ttlMinutes int

	fs := flag.NewFlagSet("election-console", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.UpstreamURL, "u", "", "Voting backend base URL")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Session database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Session database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")
	fs.IntVar(&ttlMinutes, "session-ttl", 0, "Session lifetime in minutes")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4170 // default
		}
	}

	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = os.Getenv("UPSTREAM_URL")
	}
	if cfg.UpstreamURL == "" {
		return Config{}, errors.New("backend URL required (use -u or UPSTREAM_URL env)")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	if ttlMinutes == 0 {
		if ttlStr := os.Getenv("SESSION_TTL_MINUTES"); ttlStr != "" {
			m, err := strconv.Atoi(ttlStr)
			if err != nil || m <= 0 {
				return Config{}, errors.New("invalid SESSION_TTL_MINUTES env variable")
			}
			ttlMinutes = m
		} else {
			ttlMinutes = 720 // 12 hours
		}
	}
	cfg.SessionTTL = time.Duration(ttlMinutes) * time.Minute

	return cfg, nil
}
