package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Model server
	OllamaBaseURL   string
	EmbedModelName  string
	LLMModelName    string
	EmbeddingDim    int
	EmbedTimeout    time.Duration
	GenerateTimeout time.Duration
	ModelCheckTTL   time.Duration

	// Postgres / pgvector
	PGHost       string
	PGPort       int
	PGDatabase   string
	PGUser       string
	PGPassword   string
	PGPoolMax    int
	StoreTimeout time.Duration

	// Ingestion
	KBPath            string
	KBExtensions      []string
	ChunkSize         int
	ChunkOverlap      int
	IngestConcurrency int

	// Retrieval
	StrongThreshold float64
	SoftThreshold   float64
	TopK            int
	EnableCitations bool

	// API server
	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the result.
// If a .env file exists in the current directory or a parent directory, it is
// loaded automatically; environment variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up to find a .env at the project root
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://ollama:11434"),
		EmbedModelName: getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		LLMModelName:   getEnv("OLLAMA_LLM_MODEL", "llama3.2"),

		PGHost:     getEnv("PG_HOST", "pgvector"),
		PGDatabase: getEnv("PG_DB", "postgres"),
		PGUser:     getEnv("PG_USER", "rag_user"),
		PGPassword: getEnv("PG_PASSWORD", "rag_pass"),

		KBPath:    getEnv("KB_PATH", "./kb"),
		APIPort:   getEnv("PORT", "3001"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.PGPort, err = getEnvInt("PG_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.PGPoolMax, err = getEnvInt("PG_POOL_MAX", 10); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 800); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 100); err != nil {
		return nil, err
	}
	if cfg.IngestConcurrency, err = getEnvInt("INGEST_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getEnvInt("TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.StrongThreshold, err = getEnvFloat("STRONG_THRESHOLD", -0.85); err != nil {
		return nil, err
	}
	if cfg.SoftThreshold, err = getEnvFloat("SOFT_THRESHOLD", -0.5); err != nil {
		return nil, err
	}
	if cfg.EnableCitations, err = getEnvBool("ENABLE_CITATIONS", true); err != nil {
		return nil, err
	}
	if cfg.EmbedTimeout, err = getEnvDuration("EMBED_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.GenerateTimeout, err = getEnvDuration("GENERATE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = getEnvDuration("STORE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ModelCheckTTL, err = getEnvDuration("MODEL_CHECK_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	// EMBEDDING_DIM must match the vector column of the documents table.
	// If the embedding model changes, the table must be recreated.
	dimStr := getEnv("EMBEDDING_DIM", "")
	if dimStr == "" {
		return nil, fmt.Errorf("EMBEDDING_DIM is required")
	}
	dim, err := strconv.Atoi(dimStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_DIM must be a valid integer: %w", err)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIM must be greater than 0")
	}
	cfg.EmbeddingDim = dim

	cfg.KBExtensions = splitExtensions(getEnv("KB_EXTENSIONS", ".md,.txt,.json,.yaml,.yml"))
	if len(cfg.KBExtensions) == 0 {
		return nil, fmt.Errorf("KB_EXTENSIONS must list at least one extension")
	}

	cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects configurations that would misbehave at run time.
// The chunk geometry check keeps the chunker cursor advancing; overlap >= size
// would loop forever and must never reach the chunker.
func (c *Config) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must satisfy 0 <= overlap < CHUNK_SIZE, got overlap=%d size=%d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.StrongThreshold > c.SoftThreshold {
		return fmt.Errorf("STRONG_THRESHOLD (%v) must not exceed SOFT_THRESHOLD (%v)", c.StrongThreshold, c.SoftThreshold)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be greater than 0, got %d", c.TopK)
	}
	if c.PGPoolMax <= 0 {
		return fmt.Errorf("PG_POOL_MAX must be greater than 0, got %d", c.PGPoolMax)
	}
	if c.IngestConcurrency <= 0 {
		return fmt.Errorf("INGEST_CONCURRENCY must be greater than 0, got %d", c.IngestConcurrency)
	}
	return nil
}

// ConnString builds a pgx connection string including the pool bound.
func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s pool_max_conns=%d",
		c.PGHost, c.PGPort, c.PGDatabase, c.PGUser, c.PGPassword, c.PGPoolMax,
	)
}

// splitExtensions parses a comma-separated extension list, normalizing to
// lowercase with a leading dot.
func splitExtensions(raw string) []string {
	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		exts = append(exts, p)
	}
	return exts
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: got %q", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be a boolean value: got %q", key, value)
	}
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	// Accept plain seconds for parity with the original deployment env.
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration or seconds count: %w", key, err)
	}
	return d, nil
}
