// Package config loads the risk service configuration from a YAML file
// with .env and environment variable overrides.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName    = "risk-api"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8080
	defaultTopK           = 5
	defaultConcurrency    = 4
	defaultBotName        = "Companion"
	defaultDBDriver       = "postgres"
	defaultDBHost         = "localhost"
	defaultDBPort         = "5432"
	defaultDBUser         = "postgres"
	defaultDBName         = "riskapi"
	defaultDBSSLMode      = "disable"
	defaultAdvisoryTTL    = 2 * time.Hour
	defaultChatTTL        = 4 * time.Hour
	defaultProviderURL    = "https://generativelanguage.googleapis.com"
	defaultProviderModel  = "gemini-2.5-flash"
	defaultProviderRPS    = 2
	defaultProviderWait   = 10 * time.Second
	defaultLogLevel       = "info"
)

// Config holds all configuration for the risk service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Models   ModelsConfig   `yaml:"models"`
	Advisory AdvisoryConfig `yaml:"advisory"`
	Chat     ChatConfig     `yaml:"chat"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"RISKAPI_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`
	// TopK is how many feature contributions each prediction reports.
	TopK int `yaml:"top_k"`
	// Concurrency sizes the batch prediction worker pool.
	Concurrency int `yaml:"concurrency"`
}

// ModelConfig holds one disease model sidecar's settings.
type ModelConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	// ThresholdHigh and ThresholdModerate override the disease's tier
	// table when both are set.
	ThresholdHigh     float64 `yaml:"threshold_high"`
	ThresholdModerate float64 `yaml:"threshold_moderate"`
}

// ModelsConfig maps disease identifiers to their sidecars.
type ModelsConfig struct {
	Diabetes     ModelConfig `yaml:"diabetes"`
	Hypertension ModelConfig `yaml:"hypertension"`
	Stroke       ModelConfig `yaml:"stroke"`
}

// AdvisoryConfig holds the advisory generation settings.
type AdvisoryConfig struct {
	ProviderURL   string        `env:"GENAI_BASE_URL" yaml:"provider_url"`
	ProviderModel string        `yaml:"provider_model"`
	APIKey        string        `env:"GENAI_API_KEY"  yaml:"api_key"`
	Timeout       time.Duration `yaml:"timeout"`
	RPS           int           `yaml:"rps"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

// ChatConfig holds the chat responder settings.
type ChatConfig struct {
	BotName      string        `yaml:"bot_name"`
	SentimentURL string        `env:"SENTIMENT_URL" yaml:"sentiment_url"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `env:"DB_DRIVER"         yaml:"driver"`
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     string `env:"POSTGRES_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	Path     string `env:"SQLITE_PATH"       yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration built only from defaults and environment
// variables, for running without a config file.
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setAdvisoryDefaults(&cfg.Advisory)
	setChatDefaults(&cfg.Chat)
	setDatabaseDefaults(&cfg.Database)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.TopK == 0 {
		s.TopK = defaultTopK
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
}

func setAdvisoryDefaults(a *AdvisoryConfig) {
	if a.ProviderURL == "" {
		a.ProviderURL = defaultProviderURL
	}
	if a.ProviderModel == "" {
		a.ProviderModel = defaultProviderModel
	}
	if a.Timeout == 0 {
		a.Timeout = defaultProviderWait
	}
	if a.RPS == 0 {
		a.RPS = defaultProviderRPS
	}
	if a.CacheTTL == 0 {
		a.CacheTTL = defaultAdvisoryTTL
	}
}

func setChatDefaults(c *ChatConfig) {
	if c.BotName == "" {
		c.BotName = defaultBotName
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = defaultChatTTL
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDBDriver
	}
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == "" {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}
