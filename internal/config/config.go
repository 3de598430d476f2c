package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database настройки подключения к Postgres. Либо задаётся готовый URL,
// либо собирается из отдельных полей.
type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	// ConnRecycle максимальное время жизни соединения в пуле; защищает
	// от обрывов со стороны сервера баз данных
	ConnRecycle time.Duration
}

// Config настройки приложения, читаются из окружения
type Config struct {
	Addr      string
	Templates string
	LogFile   string
	DB        Database
}

// DSN собирает строку подключения для pgx
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password),
		d.Host, d.Port, d.Name, d.SSLMode)
}

// Validate проверяет, что обязательные настройки подключения заданы;
// вызывается до построения пула, чтобы падать сразу, а не на первом запросе
func (d Database) Validate() error {
	if d.URL != "" {
		return nil
	}
	var missing []string
	if d.Host == "" {
		missing = append(missing, "CANTEEN_DB_HOST")
	}
	if d.User == "" {
		missing = append(missing, "CANTEEN_DB_USER")
	}
	if d.Name == "" {
		missing = append(missing, "CANTEEN_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("database is not configured: set DATABASE_URL or %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load читает конфигурацию из переменных окружения; .env подхватывается,
// если лежит рядом
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Addr:      envOr("CANTEEN_ADDR", ":9091"),
		Templates: envOr("CANTEEN_TEMPLATES", "web/templates/*.html"),
		LogFile:   os.Getenv("CANTEEN_LOG_FILE"),
		DB: Database{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("CANTEEN_DB_HOST"),
			Port:     envOr("CANTEEN_DB_PORT", "5432"),
			User:     os.Getenv("CANTEEN_DB_USER"),
			Password: os.Getenv("CANTEEN_DB_PASSWORD"),
			Name:     os.Getenv("CANTEEN_DB_NAME"),
			SSLMode:  envOr("CANTEEN_DB_SSLMODE", "disable"),
		},
	}

	maxConns, err := envIntOr("CANTEEN_DB_MAX_CONNS", 8)
	if err != nil {
		return nil, err
	}
	cfg.DB.MaxConns = int32(maxConns)

	recycle, err := envDurationOr("CANTEEN_DB_RECYCLE", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.DB.ConnRecycle = recycle

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envDurationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
