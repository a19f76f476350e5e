package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the console needs for one process lifetime.
// It is built once at startup and passed down explicitly; nothing re-reads
// the environment mid-run.
type Config struct {
	ProjectDir string `json:"project_dir"`
	DataDir    string `json:"data_dir"`
	LogDBPath  string `json:"log_db_path"`

	LLMProvider    string `json:"llm_provider"`
	Model          string `json:"model"`
	BackendURL     string `json:"backend_url"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	FinnhubAPIKey string        `json:"finnhub_api_key"`
	QuoteCacheTTL time.Duration `json:"quote_cache_ttl"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir: currentDir,
		DataDir:    filepath.Join(currentDir, "data"),
		LogDBPath:  filepath.Join(currentDir, "data", "memory_log.db"),

		LLMProvider: "deepseek",
		Model:       "deepseek-chat",
		BackendURL:  "",

		QuoteCacheTTL: 5 * time.Minute,
		Debug:         false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("WARROOM_DATA_DIR"); val != "" {
		c.DataDir = val
		c.LogDBPath = filepath.Join(val, "memory_log.db")
	}
	if val := os.Getenv("WARROOM_LOG_DB"); val != "" {
		c.LogDBPath = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}

	if val := os.Getenv("QUOTE_CACHE_TTL_MINUTES"); val != "" {
		if mins, err := strconv.Atoi(val); err == nil && mins > 0 {
			c.QuoteCacheTTL = time.Duration(mins) * time.Minute
		}
	}

	if val := os.Getenv("WARROOM_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if strings.EqualFold(c.LLMProvider, "openai") {
		return c.OpenAIAPIKey
	}
	return c.DeepSeekAPIKey
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, filepath.Dir(c.LogDBPath)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
