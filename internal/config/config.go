// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.
type Config struct {
	Env        string // local, dev or prod; selects the log handler
	Port       string // HTTP port to listen on
	DB         DBConfig
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
	AMQPURL    string // empty disables publishing and the consumer
	Upload     UploadConfig
	Payment    PaymentConfig
	Jobs       JobsConfig
}

// DBConfig holds MySQL connection settings.
type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// Load reads configuration. A .env file in the working directory is applied
// first when present; real environment variables win over it. Missing
// required variables stop the process.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:        envStr("APP_ENV", "local"),
		Port:       must("APP_PORT"),
		DB:         LoadDBConfig(),
		JWTSecret:  must("JWT_SECRET"),
		AccessTTL:  time.Duration(mustInt("ACCESS_TOKEN_TTL_MIN")) * time.Minute,
		RefreshTTL: time.Duration(mustInt("REFRESH_TOKEN_TTL_DAYS")) * 24 * time.Hour,
		BcryptCost: envInt("BCRYPT_COST", 12),
		AMQPURL:    os.Getenv("RABBITMQ_URL"),
		Upload:     LoadUploadConfig(),
		Payment:    LoadPaymentConfig(),
		Jobs:       LoadJobsConfig(),
	}
}

// LoadDBConfig reads the DB_* variables. DB_PASS may be empty.
func LoadDBConfig() DBConfig {
	return DBConfig{
		User: must("DB_USER"),
		Pass: os.Getenv("DB_PASS"),
		Host: must("DB_HOST"),
		Port: must("DB_PORT"),
		Name: must("DB_NAME"),
	}
}

func (c DBConfig) auth() string {
	if c.Pass != "" {
		return c.User + ":" + c.Pass
	}
	return c.User
}

// DSN is the go-sql-driver/mysql connection string.
// parseTime=true -> DATETIME/DATE scan into time.Time | loc=UTC keeps times consistent |
// clientFoundRows=true -> RowsAffected counts matched rows.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		c.auth(), c.Host, c.Port, c.Name)
}

// MigrateURL is the golang-migrate database URL for the same database.
func (c DBConfig) MigrateURL(table string) string {
	return fmt.Sprintf("mysql://%s@tcp(%s:%s)/%s?multiStatements=true&x-migrations-table=%s",
		c.auth(), c.Host, c.Port, c.Name, table)
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the process exits with a fatal log message.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envInt64(k string, d int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(k), 10, 64); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
