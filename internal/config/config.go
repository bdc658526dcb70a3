// apps/solver/internal/config/config.go
//
// Environment configuration shared by the HTTP service and the CLI.
// main loads .env via godotenv before calling Load.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds every tunable the solver reads from the environment.
type Config struct {
	Port     string // PORT
	LogLevel string // LOG_LEVEL

	OpeningWord string // SOLVER_OPENING_WORD
	MaxRounds   int    // SOLVER_MAX_ROUNDS

	AnswersFile string // WORDS_ANSWERS_FILE
	AllowedFile string // WORDS_ALLOWED_FILE
	WordLength  int    // WORDS_LENGTH

	FreqFile   string  // FREQ_FILE; empty = embedded table
	FreqAPIURL string  // FREQ_API_URL; set to use the remote oracle
	FreqAPIKey string  // FREQ_API_KEY
	FreqAPIRPS float64 // FREQ_API_RPS

	DBPath string // DB_PATH; empty = in-memory run store

	JWTSecret    string // JWT_SECRET
	AdminKeyHash string // SOLVER_ADMIN_KEY_HASH (bcrypt)
	DailySalt    string // DAILY_SALT
	ClientOrigin string // CLIENT_ORIGIN

	SessionTimeout time.Duration // SESSION_TIMEOUT; idle HTTP sessions
}

// Load reads the environment, applying defaults.
func Load() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		OpeningWord:  strings.ToLower(strings.TrimSpace(getEnv("SOLVER_OPENING_WORD", "crane"))),
		MaxRounds:    getEnvInt("SOLVER_MAX_ROUNDS", 6),
		AnswersFile:  os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile:  os.Getenv("WORDS_ALLOWED_FILE"),
		WordLength:   getEnvInt("WORDS_LENGTH", 5),
		FreqFile:     os.Getenv("FREQ_FILE"),
		FreqAPIURL:   os.Getenv("FREQ_API_URL"),
		FreqAPIKey:   os.Getenv("FREQ_API_KEY"),
		FreqAPIRPS:   getEnvFloat("FREQ_API_RPS", 5),
		DBPath:       lookupEnv("DB_PATH", "./data/solver.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		AdminKeyHash: os.Getenv("SOLVER_ADMIN_KEY_HASH"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),

		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// lookupEnv is getEnv but keeps an explicitly empty value.
func lookupEnv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

// getEnvInt reads an int from the environment or returns a fallback.
func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid int, using default")
		return def
	}
	return n
}

// getEnvDuration reads a time.Duration from the environment or returns a fallback.
func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}

// getEnvFloat reads a float from the environment or returns a fallback.
func getEnvFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Float64("default", def).Msg("invalid float, using default")
		return def
	}
	return f
}
