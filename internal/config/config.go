package config

import (
    "log"
    "os"
    "time"
)

// Config holds all runtime configuration values. Each field maps to
// one environment variable; required variables are enforced by must()
// and missing values abort startup.
type Config struct {
    Env             string        // application environment (dev/test/prod)
    Port            string        // HTTP port to listen on
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    JWTSecret       string        // shared secret used to verify access tokens
    StaffAPIKeyHash string        // bcrypt hash of the box-office API key (optional)
    HoldTTL         time.Duration // how long an unpaid reservation holds its seats
    SweepInterval   time.Duration // how often the background sweeper runs
}

// Load reads configuration from environment variables.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        DBUser:          must("DB_USER"),
        DBPass:          os.Getenv("DB_PASS"),
        DBHost:          must("DB_HOST"),
        DBPort:          must("DB_PORT"),
        DBName:          must("DB_NAME"),
        JWTSecret:       must("JWT_SECRET"),
        StaffAPIKeyHash: os.Getenv("STAFF_API_KEY_HASH"),
        HoldTTL:         envDur("HOLD_TTL", 5*time.Minute),
        SweepInterval:   envDur("SWEEP_INTERVAL", time.Minute),
    }
}

// must retrieves a required environment variable or exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
