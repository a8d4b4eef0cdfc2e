package config

import (
	"dashboard/internal/engine"
	"dashboard/internal/models"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type Config struct {
	ServerPort int

	SalesDays      int
	InventoryCount int
	Categories     []models.Category
	Seed           uint64
	TableRows      int

	RateLimit   float64
	SessionTTL  time.Duration
	MaxSessions int

	LogLevel log.Lvl
}

// Params is the snapshot signature every new session starts from.
func (c *Config) Params() engine.Params {
	return engine.Params{
		Days:           c.SalesDays,
		InventoryCount: c.InventoryCount,
		Categories:     c.Categories,
		Seed:           c.Seed,
	}
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var err error
	config := &Config{}

	if config.ServerPort, err = intEnv("DASHBOARD_PORT", 8080, 1); err != nil {
		return nil, err
	}
	if config.SalesDays, err = intEnv("DASHBOARD_SALES_DAYS", 30, 1); err != nil {
		return nil, err
	}
	if config.InventoryCount, err = intEnv("DASHBOARD_INVENTORY_COUNT", 40, 1); err != nil {
		return nil, err
	}
	if config.TableRows, err = intEnv("DASHBOARD_TABLE_ROWS", 5, 0); err != nil {
		return nil, err
	}
	if config.MaxSessions, err = intEnv("DASHBOARD_MAX_SESSIONS", 1000, 1); err != nil {
		return nil, err
	}

	seed := getEnvOrDefault("DASHBOARD_SEED", "0")
	if config.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("DASHBOARD_SEED: %w", err)
	}

	rate := getEnvOrDefault("DASHBOARD_RATE_LIMIT", "20")
	if config.RateLimit, err = strconv.ParseFloat(rate, 64); err != nil || config.RateLimit < 0 {
		return nil, fmt.Errorf("DASHBOARD_RATE_LIMIT: invalid value %q", rate)
	}

	ttl := getEnvOrDefault("DASHBOARD_SESSION_TTL", "30m")
	if config.SessionTTL, err = time.ParseDuration(ttl); err != nil {
		return nil, fmt.Errorf("DASHBOARD_SESSION_TTL: %w", err)
	}

	if config.Categories, err = parseCategories(os.Getenv("DASHBOARD_CATEGORIES")); err != nil {
		return nil, err
	}

	if config.LogLevel, err = parseLevel(getEnvOrDefault("DASHBOARD_LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	return config, nil
}

func parseCategories(raw string) ([]models.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return append([]models.Category(nil), models.Categories...), nil
	}
	var cats []models.Category
	for _, part := range strings.Split(raw, ",") {
		c := models.Category(strings.TrimSpace(part))
		if !c.Valid() {
			return nil, fmt.Errorf("DASHBOARD_CATEGORIES: unknown category %q", c)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

func parseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG, nil
	case "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("DASHBOARD_LOG_LEVEL: unknown level %q", s)
}

func intEnv(key string, def, floor int) (int, error) {
	raw := getEnvOrDefault(key, strconv.Itoa(def))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if v < floor {
		return 0, fmt.Errorf("%s: must be at least %d, got %d", key, floor, v)
	}
	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
