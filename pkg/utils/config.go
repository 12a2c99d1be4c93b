package utils

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	JWT      JWTConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// DSN returns the connection URL shared by the pgx pool and the migration
// runner.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// SessionConfig holds every knob of the cookie-session lifecycle. It is built
// once at startup and injected; nothing reads the environment after that.
type SessionConfig struct {
	IdleTimeoutMinutes      int
	AbsoluteTimeoutHours    int
	CookieName              string
	CookieSecure            bool
	CookieSameSite          string
	CookieDomain            string
	CookiePath              string
	CookieMaxAgeSeconds     int
	SendIdleRemainingHeader bool
	RevokedRetentionDays    int
}

func (c SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}

func (c SessionConfig) AbsoluteTimeout() time.Duration {
	return time.Duration(c.AbsoluteTimeoutHours) * time.Hour
}

func (c SessionConfig) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type JWTConfig struct {
	Secret               string
	Issuer               string
	AccessExpiryMinutes  int
	RefreshExpiryMinutes int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SESSION_IDLE_TIMEOUT_MINUTES", 30)
	viper.SetDefault("SESSION_ABSOLUTE_TIMEOUT_HOURS", 24)
	viper.SetDefault("SESSION_COOKIE_NAME", "session_id")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("SESSION_COOKIE_SAMESITE", "lax")
	viper.SetDefault("SESSION_COOKIE_PATH", "/")
	viper.SetDefault("SESSION_COOKIE_MAX_AGE_SECONDS", 0)
	viper.SetDefault("SESSION_SEND_IDLE_REMAINING_HEADER", true)
	viper.SetDefault("SESSION_REVOKED_RETENTION_DAYS", 30)
	viper.SetDefault("JWT_ISSUER", "library-management")
	viper.SetDefault("JWT_ACCESS_EXPIRY_MINUTES", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY_MINUTES", 7*24*60)

	// A missing .env is fine; the environment alone can carry the config.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			IdleTimeoutMinutes:      viper.GetInt("SESSION_IDLE_TIMEOUT_MINUTES"),
			AbsoluteTimeoutHours:    viper.GetInt("SESSION_ABSOLUTE_TIMEOUT_HOURS"),
			CookieName:              viper.GetString("SESSION_COOKIE_NAME"),
			CookieSecure:            viper.GetBool("SESSION_COOKIE_SECURE"),
			CookieSameSite:          viper.GetString("SESSION_COOKIE_SAMESITE"),
			CookieDomain:            viper.GetString("SESSION_COOKIE_DOMAIN"),
			CookiePath:              viper.GetString("SESSION_COOKIE_PATH"),
			CookieMaxAgeSeconds:     viper.GetInt("SESSION_COOKIE_MAX_AGE_SECONDS"),
			SendIdleRemainingHeader: viper.GetBool("SESSION_SEND_IDLE_REMAINING_HEADER"),
			RevokedRetentionDays:    viper.GetInt("SESSION_REVOKED_RETENTION_DAYS"),
		},
		JWT: JWTConfig{
			Secret:               viper.GetString("JWT_SECRET"),
			Issuer:               viper.GetString("JWT_ISSUER"),
			AccessExpiryMinutes:  viper.GetInt("JWT_ACCESS_EXPIRY_MINUTES"),
			RefreshExpiryMinutes: viper.GetInt("JWT_REFRESH_EXPIRY_MINUTES"),
		},
	}

	return config, nil
}
