package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

// Config holds application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
		return errors.New("postgres credentials are required")
	}
	if c.Postgres.Host == "" {
		return errors.New("postgres.host is required")
	}
	if c.Postgres.TxTimeout <= 0 {
		return errors.New("postgres.tx_timeout must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if _, err := c.Attendance.Location(); err != nil {
		return err
	}
	if c.Attendance.JoinCodeLength < 4 {
		return errors.New("attendance.join_code_length must be at least 4")
	}
	if c.Attendance.JoinCodeAttempts < 1 {
		return errors.New("attendance.join_code_attempts must be at least 1")
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig holds the key used to verify bearer tokens issued elsewhere.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// AttendanceConfig tunes the attendance and team code rules.
type AttendanceConfig struct {
	// Timezone is the IANA zone whose calendar date is the attendance day-key.
	Timezone         string `mapstructure:"timezone"`
	JoinCodeLength   int    `mapstructure:"join_code_length"`
	JoinCodeAttempts int    `mapstructure:"join_code_attempts"`
}

// Location resolves Timezone.
func (a AttendanceConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("attendance.timezone: %w", err)
	}
	return loc, nil
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	TxTimeout      time.Duration `mapstructure:"tx_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}
