package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the site backend
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Site      SiteConfig      `mapstructure:"site"`
	LLM       LLMConfig       `mapstructure:"llm"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// GeneralConfig contains server-wide settings
type GeneralConfig struct {
	Debug     bool   `mapstructure:"debug"`
	LogLevel  string `mapstructure:"log_level"`
	Listen    string `mapstructure:"listen"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// SiteConfig describes the institutional site content the chatbot answers from
type SiteConfig struct {
	Name          string        `mapstructure:"name"`
	TemplatesDir  string        `mapstructure:"templates_dir"`
	ScrapeURL     string        `mapstructure:"scrape_url"`
	Fetcher       string        `mapstructure:"fetcher"` // http or chromedp
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	ChunkWords    int           `mapstructure:"chunk_words"`
	TopChunks     int           `mapstructure:"top_chunks"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"` // bcrypt hash, or plaintext for dev
}

// LLMConfig contains the hosted completion API settings
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.APIKey) == "" {
		return fmt.Errorf("llm.api_key required (CAMPUSITE_LLM_API_KEY)")
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model required")
	}
	return nil
}

// RateLimitConfig controls per-client chat throttling
type RateLimitConfig struct {
	Backend string        `mapstructure:"backend"` // memory or redis
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

func (r RateLimitConfig) Validate() error {
	if r.Limit <= 0 {
		return fmt.Errorf("ratelimit.limit must be > 0")
	}
	if r.Window <= 0 {
		return fmt.Errorf("ratelimit.window must be > 0")
	}
	switch r.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("ratelimit.backend must be memory or redis")
	}
	return nil
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("storage.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

// DSN builds a Postgres connection string from the configured parts.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl)
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%s", r.Host, r.Port) }

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.listen", ":8000")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("site.name", "Campus Assistant")
	viper.SetDefault("site.templates_dir", "templates")
	viper.SetDefault("site.fetcher", "http")
	viper.SetDefault("site.fetch_timeout", 10*time.Second)
	viper.SetDefault("site.chunk_words", 250)
	viper.SetDefault("site.top_chunks", 3)
	viper.SetDefault("llm.base_url", "https://router.huggingface.co/v1/chat/completions")
	viper.SetDefault("llm.model", "meta-llama/Llama-3.1-8B-Instruct")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.timeout", 30*time.Second)
	viper.SetDefault("ratelimit.backend", "memory")
	viper.SetDefault("ratelimit.limit", 5)
	viper.SetDefault("ratelimit.window", 60*time.Second)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("CAMPUSITE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.RateLimit.Validate(); err != nil {
		panic(err)
	}
	if err := config.Storage.Postgres.Validate(); err != nil {
		panic(err)
	}
	return &config
}
