package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Solver   SolverConfig
	Roster   RosterConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Session store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// SessionConfig selects where roster sessions live.
type SessionConfig struct {
	Store      string
	TTLMinutes int
}

// SolverConfig bounds enumeration requests.
type SolverConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// RosterConfig holds the default category parameters.
type RosterConfig struct {
	FullTimeHours   int
	PartTimeHours   int
	ManagerHours    int
	FullShiftHours  int
	HalfShiftHours  int
	ExtensionPolicy domain.ExtensionPolicy
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "shift-roster"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			Store:      strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 1440),
		},
		Solver: SolverConfig{
			DefaultLimit: getEnvAsInt("SOLVER_DEFAULT_LIMIT", 3),
			MaxLimit:     getEnvAsInt("SOLVER_MAX_LIMIT", 100),
		},
		Roster: RosterConfig{
			FullTimeHours:   getEnvAsInt("ROSTER_FULL_TIME_HOURS", 40),
			PartTimeHours:   getEnvAsInt("ROSTER_PART_TIME_HOURS", 20),
			ManagerHours:    getEnvAsInt("ROSTER_MANAGER_HOURS", 40),
			FullShiftHours:  getEnvAsInt("ROSTER_FULL_SHIFT_HOURS", 8),
			HalfShiftHours:  getEnvAsInt("ROSTER_HALF_SHIFT_HOURS", 4),
			ExtensionPolicy: domain.ExtensionPolicy(getEnv("ROSTER_EXTENSION_POLICY", string(domain.ExtensionRebuild))),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("SESSION_STORE=%s requires POSTGRES_DSN", StorePostgres)
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE %q", c.Session.Store)
	}
	if !c.Roster.ExtensionPolicy.Valid() {
		return fmt.Errorf("invalid ROSTER_EXTENSION_POLICY %q", c.Roster.ExtensionPolicy)
	}
	if c.Solver.MaxLimit <= 0 {
		return fmt.Errorf("invalid SOLVER_MAX_LIMIT %d", c.Solver.MaxLimit)
	}
	if c.Solver.DefaultLimit <= 0 || c.Solver.DefaultLimit > c.Solver.MaxLimit {
		return fmt.Errorf("invalid SOLVER_DEFAULT_LIMIT %d", c.Solver.DefaultLimit)
	}
	if err := c.Roster.Rules().Validate(); err != nil {
		return fmt.Errorf("invalid ROSTER_* defaults: %w", err)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns how long an idle session is kept; zero keeps it forever.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// ClampLimit maps a requested enumeration limit into (0, MaxLimit].
func (s SolverConfig) ClampLimit(requested int) int {
	if requested <= 0 {
		return s.DefaultLimit
	}
	if requested > s.MaxLimit {
		return s.MaxLimit
	}
	return requested
}

// Rules returns the default rule table: full-time and manager on full
// shifts, part-time on half shifts, with full-time owing at least one shift.
func (r RosterConfig) Rules() domain.RuleTable {
	return domain.RuleTable{
		domain.CategoryFullTime: {ShiftHours: r.FullShiftHours, MaxHours: r.FullTimeHours, MinShifts: 1},
		domain.CategoryPartTime: {ShiftHours: r.HalfShiftHours, MaxHours: r.PartTimeHours},
		domain.CategoryManager:  {ShiftHours: r.FullShiftHours, MaxHours: r.ManagerHours},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
