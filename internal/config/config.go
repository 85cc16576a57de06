package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	// Row store
	DatabaseDriver string `mapstructure:"database_driver"` // sqlite3, postgres
	DatabaseURL    string `mapstructure:"database_url"`

	// Blob store
	StorageBackend string `mapstructure:"storage_backend"` // local, s3
	StorageDir     string `mapstructure:"storage_dir"`
	StorageBucket  string `mapstructure:"storage_bucket"`
	PublicBaseURL  string `mapstructure:"public_base_url"`
	S3Endpoint     string `mapstructure:"s3_endpoint"`
	S3Region       string `mapstructure:"s3_region"`
	R2AccountID    string `mapstructure:"r2_account_id"`
	S3AccessKey    string `mapstructure:"s3_access_key"`
	S3SecretKey    string `mapstructure:"s3_secret_key"`

	// Limits
	MaxResumeSizeMB  int `mapstructure:"max_resume_size_mb"`
	ActivityPageSize int `mapstructure:"activity_page_size"`

	RabbitMQURL string `mapstructure:"rabbitmq_url"`
	HTTPAddr    string `mapstructure:"http_addr"`
	LogLevel    string `mapstructure:"log_level"`

	// Question generation
	AIProvider   string `mapstructure:"ai_provider"` // openai, anthropic, ollama, gemini
	DefaultModel string `mapstructure:"default_model"`
	OpenAIKey    string `mapstructure:"openai_key"`
	AnthropicKey string `mapstructure:"anthropic_key"`
	GeminiKey    string `mapstructure:"gemini_key"`
	OllamaURL    string `mapstructure:"ollama_url"`

	SessionToken string `mapstructure:"session_token"`
}

// MaxResumeSize returns the upload limit in bytes
func (c *Config) MaxResumeSize() int64 {
	return int64(c.MaxResumeSizeMB) * 1024 * 1024
}

var AppConfig *Config

// Keys that may be changed with `config set`
var SettableKeys = []string{
	"database_driver", "database_url",
	"storage_backend", "storage_dir", "storage_bucket", "public_base_url",
	"s3_endpoint", "s3_region", "r2_account_id", "s3_access_key", "s3_secret_key",
	"max_resume_size_mb", "activity_page_size",
	"rabbitmq_url", "http_addr", "log_level",
	"ai_provider", "default_model", "openai_key", "anthropic_key", "gemini_key", "ollama_url",
}

// Initialize loads or creates the configuration file
func Initialize() error {
	configDir := GetConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	// A .env file in the working directory is optional
	_ = godotenv.Load()

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("MOCKPREP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(configDir)

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func setDefaults(configDir string) {
	viper.SetDefault("database_driver", "sqlite3")
	viper.SetDefault("database_url", "")
	viper.SetDefault("storage_backend", "local")
	viper.SetDefault("storage_dir", filepath.Join(configDir, "storage"))
	viper.SetDefault("storage_bucket", "resumes")
	viper.SetDefault("public_base_url", "")
	viper.SetDefault("s3_endpoint", "")
	viper.SetDefault("s3_region", "auto")
	viper.SetDefault("r2_account_id", "")
	viper.SetDefault("s3_access_key", "")
	viper.SetDefault("s3_secret_key", "")
	viper.SetDefault("max_resume_size_mb", 10)
	viper.SetDefault("activity_page_size", 20)
	viper.SetDefault("rabbitmq_url", "")
	viper.SetDefault("http_addr", ":8080")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("ai_provider", "ollama")
	viper.SetDefault("default_model", "llama3.2")
	viper.SetDefault("openai_key", "")
	viper.SetDefault("anthropic_key", "")
	viper.SetDefault("gemini_key", "")
	viper.SetDefault("ollama_url", "http://localhost:11434")
	viper.SetDefault("session_token", "")
}

// load unmarshals viper state and fills anything left blank
func load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.MaxResumeSizeMB <= 0 {
		cfg.MaxResumeSizeMB = 10
	}
	if cfg.ActivityPageSize <= 0 {
		cfg.ActivityPageSize = 20
	}
	return cfg, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# mockprep configuration
# Row store: sqlite3 (default, ~/.mockprep/mockprep.db) or postgres
database_driver: sqlite3
database_url: ""

# Resume storage: local or s3 (Cloudflare R2 works with r2_account_id)
storage_backend: local
storage_bucket: resumes
max_resume_size_mb: 10

activity_page_size: 20
http_addr: ":8080"
log_level: info

# Question generation: openai, anthropic, ollama, gemini
ai_provider: ollama
default_model: llama3.2
ollama_url: http://localhost:11434

# API keys (keep this file secure!)
openai_key: ""
anthropic_key: ""
gemini_key: ""
s3_access_key: ""
s3_secret_key: ""
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// IsSettable reports whether key may be changed with `config set`
func IsSettable(key string) bool {
	for _, k := range SettableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// GetConfigDir returns ~/.mockprep, or MOCKPREP_HOME when set
func GetConfigDir() string {
	if dir := os.Getenv("MOCKPREP_HOME"); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".mockprep")
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}
