package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	CodePath              string
	OutputDir             string
	CacheFile             string
	DatabaseURL           string
	APIKey                string
	APIKeyFile            string
	TranslationURL        string
	TranslationModel      string
	WorkerCount           int
	MaxConcurrentAPICalls int
	MaxKeyLength          int
	ExclusionsFile        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		CodePath:              getEnv("CODE_PATH", "Assets/Scripts/Game/Module/Function"),
		OutputDir:             getEnv("OUTPUT_DIR", "csv"),
		CacheFile:             getEnv("CACHE_FILE", "translation_cache.json"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		APIKey:                getEnv("DEEPSEEK_API_KEY", ""),
		APIKeyFile:            getEnv("API_KEY_FILE", "ds_api.txt"),
		TranslationURL:        getEnv("TRANSLATION_URL", "https://api.deepseek.com/v1/chat/completions"),
		TranslationModel:      getEnv("TRANSLATION_MODEL", "deepseek-chat"),
		WorkerCount:           getEnvInt("WORKER_COUNT", 8),
		MaxConcurrentAPICalls: getEnvInt("MAX_CONCURRENT_API_CALLS", 4),
		MaxKeyLength:          getEnvInt("MAX_KEY_LENGTH", 50),
		ExclusionsFile:        getEnv("EXCLUSIONS_FILE", ""),
	}

	if cfg.APIKey == "" {
		if key, err := ReadAPIKey(cfg.APIKeyFile); err == nil && key != "" {
			log.Info().Str("file", cfg.APIKeyFile).Msg("Loaded API key from file")
			cfg.APIKey = key
		}
	}
	return cfg
}

// ReadAPIKey returns the first line of path that is neither blank nor a
// '#' comment.
func ReadAPIKey(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, nil
		}
	}
	return "", scanner.Err()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
