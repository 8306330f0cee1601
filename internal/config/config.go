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
	Database  DatabaseConfig
	Server    ServerConfig
	Auth      AuthConfig
	Directory DirectoryConfig
	Email     EmailConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type ServerConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
}

// DirectoryConfig holds LDAP/Active Directory settings. The service account
// (BindDN/BindPassword) is used for all searches; user credentials are only
// ever used for the verification bind.
type DirectoryConfig struct {
	Enabled          bool
	URL              string
	BaseDN           string
	BindDN           string
	BindPassword     string
	UserSearchBase   string
	GroupSearchBase  string
	AdminsGroup      string
	InstructorsGroup string
	StudentsGroup    string
	Timeout          time.Duration
}

type EmailConfig struct {
	Enabled     bool
	AWSRegion   string
	FromAddress string
	ResetURL    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters (got %d)", len(jwtSecret))
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "scholarspace_users"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "8081"),
			Env:         getEnv("ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Auth: AuthConfig{
			JWTSecret:     jwtSecret,
			TokenTTL:      getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
			ResetTokenTTL: getEnvAsDuration("RESET_TOKEN_TTL", 24*time.Hour),
		},
		Directory: DirectoryConfig{
			Enabled:          getEnvAsBool("LDAP_ENABLED", false),
			URL:              getEnv("LDAP_URL", ""),
			BaseDN:           getEnv("LDAP_BASE_DN", ""),
			BindDN:           getEnv("LDAP_BIND_DN", ""),
			BindPassword:     getEnv("LDAP_BIND_PASSWORD", ""),
			UserSearchBase:   getEnv("LDAP_USER_SEARCH_BASE", ""),
			GroupSearchBase:  getEnv("LDAP_GROUP_SEARCH_BASE", ""),
			AdminsGroup:      getEnv("LDAP_ADMINS_GROUP", "ScholarSpace-Admins"),
			InstructorsGroup: getEnv("LDAP_INSTRUCTORS_GROUP", "ScholarSpace-Instructors"),
			StudentsGroup:    getEnv("LDAP_STUDENTS_GROUP", "ScholarSpace-Students"),
			Timeout:          getEnvAsDuration("LDAP_TIMEOUT", 5*time.Second),
		},
		Email: EmailConfig{
			Enabled:     getEnvAsBool("EMAIL_ENABLED", false),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
			ResetURL:    getEnv("EMAIL_RESET_URL_BASE", "http://localhost:3000/reset-password"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if cfg.Directory.Enabled {
		if cfg.Directory.URL == "" || cfg.Directory.BindDN == "" {
			return nil, fmt.Errorf("LDAP_URL and LDAP_BIND_DN are required when LDAP_ENABLED is set")
		}
	}

	if cfg.Email.Enabled && cfg.Email.FromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when EMAIL_ENABLED is set")
	}

	return cfg, nil
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

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
