package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Geocode  GeocodeConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type AuthConfig struct {
	AdminUsername       string
	AdminPassword       string
	SessionTTL          time.Duration
	MaxAttempts         int
	AttemptWindow       time.Duration
	BlockDuration       time.Duration
	SweepInterval       time.Duration
	BlockLogFile        string
	TimingDelayBaseMs   int
	TimingDelayRandomMs int
}

type GeocodeConfig struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "matriculas"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Auth: AuthConfig{
			AdminUsername:       getEnv("ADMIN_USERNAME", ""),
			AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
			SessionTTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			MaxAttempts:         getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
			AttemptWindow:       getEnvAsDuration("ATTEMPT_WINDOW", 10*time.Minute),
			BlockDuration:       getEnvAsDuration("BLOCK_DURATION", 15*time.Minute),
			SweepInterval:       getEnvAsDuration("SWEEP_INTERVAL", 1*time.Hour),
			BlockLogFile:        getEnv("BLOCK_LOG_FILE", "blocked.log"),
			TimingDelayBaseMs:   getEnvAsInt("AUTH_TIMING_DELAY_BASE_MS", 100),
			TimingDelayRandomMs: getEnvAsInt("AUTH_TIMING_DELAY_RANDOM_MS", 50),
		},
		Geocode: GeocodeConfig{
			BaseURL:        getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:      getEnv("GEOCODE_USER_AGENT", "matricula-app/1.0 (+https://matriculas.casadocarlos.info)"),
			AcceptLanguage: getEnv("GEOCODE_ACCEPT_LANGUAGE", "pt-PT"),
			Timeout:        getEnvAsDuration("GEOCODE_TIMEOUT", 5*time.Second),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if cfg.Auth.MaxAttempts < 1 {
		return nil, fmt.Errorf("MAX_LOGIN_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

// AuthEnabled reports whether the login gate is active. Without an admin
// password the whole API runs open, which Load does not treat as an error;
// main logs the warning once.
func (c *Config) AuthEnabled() bool {
	return c.Auth.AdminPassword != ""
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			// The API fronts a public SPA; without explicit origins it
			// behaves like the open CORS policy it replaced.
			return []string{"*"}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	return []string{"*"}
}
