package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

// Settings is everything the service reads from its environment.
type Settings struct {
	Port        string
	DBDriver    string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	AdminName     string
	AdminEmail    string
	AdminPassword string

	// StrictCorrectOption rejects question writes whose correct option
	// does not name one of the question's option ids.
	StrictCorrectOption bool

	QuizDefaultLimit int
	QuizMaxLimit     int
}

func loadEnv() {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})
}

func Config(key string) string {
	loadEnv()
	return os.Getenv(key)
}

func Load() (Settings, error) {
	s := Settings{
		Port:          withDefault(Config("PORT"), "8080"),
		DBDriver:      withDefault(Config("DB_DRIVER"), "postgres"),
		DatabaseURL:   Config("DATABASE_URL"),
		JWTSecret:     Config("JWT_SECRET"),
		AdminName:     withDefault(Config("ADMIN_NAME"), "Administrator"),
		AdminEmail:    Config("ADMIN_EMAIL"),
		AdminPassword: Config("ADMIN_PASSWORD"),
	}

	if s.DatabaseURL == "" {
		return s, fmt.Errorf("DATABASE_URL is required")
	}
	if s.JWTSecret == "" {
		return s, fmt.Errorf("JWT_SECRET is required")
	}
	if s.DBDriver != "postgres" && s.DBDriver != "sqlite" {
		return s, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", s.DBDriver)
	}

	ttlHours, err := intSetting("JWT_TTL_HOURS", 72)
	if err != nil {
		return s, err
	}
	s.TokenTTL = time.Duration(ttlHours) * time.Hour

	if s.StrictCorrectOption, err = boolSetting("STRICT_CORRECT_OPTION", true); err != nil {
		return s, err
	}
	if s.QuizDefaultLimit, err = intSetting("QUIZ_DEFAULT_LIMIT", 10); err != nil {
		return s, err
	}
	if s.QuizMaxLimit, err = intSetting("QUIZ_MAX_LIMIT", 200); err != nil {
		return s, err
	}
	if s.QuizDefaultLimit > s.QuizMaxLimit {
		s.QuizDefaultLimit = s.QuizMaxLimit
	}

	return s, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intSetting(key string, def int) (int, error) {
	raw := Config(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func boolSetting(key string, def bool) (bool, error) {
	raw := Config(key)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}
	return b, nil
}
