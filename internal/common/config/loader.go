package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on
// top, applies environment overrides and defaults. It does not check
// binary-specific requirements; see ValidateServer and friends.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers every key that may be set only through the
// environment, so AutomaticEnv picks it up during Unmarshal.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"app.environment", "app.language",
		"server.address",
		"camunda.enabled", "camunda.broker_address",
		"database.postgres.host", "database.postgres.port", "database.postgres.database",
		"database.postgres.user", "database.postgres.password",
		"database.redis.address", "database.redis.password",
		"database.elasticsearch.enabled",
		"ai.mode", "ai.proxy_url", "ai.provider", "ai.api_key", "ai.model",
		"submission.base_url",
		"storage.backend", "storage.namespace",
		"logging.level", "logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working
// directory, stopping at the module root.
func loadEnvFile() string {
	candidates := []string{".env", "../.env", "../../.env", "../../../.env"}
	if root := findProjectRoot(); root != "" {
		candidates = append(candidates, filepath.Join(root, ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
			v.Set(key, expanded)
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional variable names
// when the yaml left them blank.
func overrideEmptyConfig(cfg *Config) {
	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case ProviderGemini:
			cfg.AI.APIKey = firstEnv("AI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
		default:
			cfg.AI.APIKey = firstEnv("AI_API_KEY", "ANTHROPIC_API_KEY")
		}
	}
	if cfg.Database.Postgres.User == "" {
		cfg.Database.Postgres.User = os.Getenv("DB_USER")
	}
	if cfg.Database.Postgres.Password == "" {
		cfg.Database.Postgres.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Database.Redis.Password == "" {
		cfg.Database.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if val := os.Getenv(n); val != "" {
			return val
		}
	}
	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "social-support"
	}
	if cfg.App.Language == "" {
		cfg.App.Language = "en"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}

	if cfg.Camunda.ProcessID == "" {
		cfg.Camunda.ProcessID = "social-support-review"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "social-support-applications"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	if cfg.AI.Mode == "" {
		cfg.AI.Mode = AIModeLiveFallback
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 30000
	}
	if cfg.AI.MaxAttempts == 0 {
		cfg.AI.MaxAttempts = 3
	}
	if cfg.AI.BaseDelay == 0 {
		cfg.AI.BaseDelay = 1000
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = ProviderAnthropic
	}
	if cfg.AI.Model == "" {
		switch cfg.AI.Provider {
		case ProviderGemini:
			cfg.AI.Model = "gemini-2.0-flash"
		default:
			cfg.AI.Model = "claude-haiku-4-5"
		}
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 500
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.7
	}

	if cfg.Submission.BaseURL == "" {
		cfg.Submission.BaseURL = "http://localhost:8080"
	}
	if cfg.AI.ProxyURL == "" {
		cfg.AI.ProxyURL = strings.TrimRight(cfg.Submission.BaseURL, "/") + "/ai-proxy"
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageRedis
	}
	if cfg.Autosave.Debounce == 0 {
		cfg.Autosave.Debounce = 500
	}

	if cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = "us-east-1"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig checks values every binary depends on.
func validateConfig(cfg *Config) error {
	switch cfg.AI.Mode {
	case AIModeLive, AIModeOffline, AIModeLiveFallback:
	default:
		return fmt.Errorf("ai.mode must be one of live, offline, live-fallback; got %q", cfg.AI.Mode)
	}
	switch cfg.AI.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("ai.provider must be anthropic or gemini; got %q", cfg.AI.Provider)
	}
	switch cfg.Storage.Backend {
	case StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("storage.backend must be redis or memory; got %q", cfg.Storage.Backend)
	}
	if cfg.AI.MaxAttempts < 1 {
		return fmt.Errorf("ai.max_attempts must be at least 1")
	}
	return nil
}

// ValidateServer checks what cmd/application-server needs.
func ValidateServer(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if cfg.Database.Elasticsearch.Enabled && len(cfg.Database.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses is required when indexing is enabled")
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}
	return nil
}

// ValidateApplicant checks what cmd/applicant needs.
func ValidateApplicant(cfg *Config) error {
	if cfg.Storage.Backend == StorageRedis && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required for redis storage")
	}
	if cfg.AI.Mode != AIModeOffline && cfg.AI.ProxyURL == "" {
		return fmt.Errorf("ai.proxy_url is required unless ai.mode is offline")
	}
	if cfg.Submission.BaseURL == "" {
		return fmt.Errorf("submission.base_url is required")
	}
	return nil
}

// ValidateWorker checks what cmd/worker-manager needs.
func ValidateWorker(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	if cfg.Notifications.Email.Enabled && cfg.Notifications.Email.FromEmail == "" {
		return fmt.Errorf("notifications.email.from_email is required when email is enabled")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig returns the worker section, falling back to defaults.
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	return GetWorkerConfig(cfg, workerName).Enabled
}
