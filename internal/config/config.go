package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Known extraction provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	CORS    CORSConfig
	Parser  ParserConfig
	Store   StoreConfig
	Upload  UploadConfig
	Archive ArchiveConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single extraction provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// Configured reports whether a credential is present.
func (p *ParserProviderConfig) Configured() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// ParserConfig holds extraction provider settings. Primary and Fallback name entries of
// Providers.
type ParserConfig struct {
	Primary   string                          `mapstructure:"primary"`
	Fallback  string                          `mapstructure:"fallback"`
	Providers map[string]ParserProviderConfig `mapstructure:"providers"`
}

// FallbackProvider returns the configured fallback, deriving it from the primary when unset.
func (p *ParserConfig) FallbackProvider() string {
	if p.Fallback != "" {
		return p.Fallback
	}
	if p.Primary == ProviderOpenAI {
		return ProviderGemini
	}
	return ProviderOpenAI
}

// ProviderConfig returns the settings for a provider name. Unknown names yield a config
// carrying only the name.
func (p *ParserConfig) ProviderConfig(name string) *ParserProviderConfig {
	if pc, ok := p.Providers[name]; ok {
		return &pc
	}
	return &ParserProviderConfig{Provider: name}
}

// Validate checks that primary and fallback are known and distinct.
func (p *ParserConfig) Validate() error {
	fallback := p.FallbackProvider()
	for _, name := range []string{p.Primary, fallback} {
		if _, ok := p.Providers[name]; !ok {
			return fmt.Errorf("unknown parser provider: %q", name)
		}
	}
	if p.Primary == fallback {
		return fmt.Errorf("parser primary and fallback must differ (both %q)", fallback)
	}
	return nil
}

// StoreConfig locates the order store workbooks.
type StoreConfig struct {
	ReferencePath string        `mapstructure:"reference_path"`
	ExtractedPath string        `mapstructure:"extracted_path"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// UploadConfig holds invoice upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB << 20
}

// ArchiveConfig holds settings for archiving uploaded invoices to S3.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

var providerNames = []string{ProviderOpenAI, ProviderGemini, ProviderClaude}

var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4o",
	ProviderGemini: "gemini-2.0-flash",
	ProviderClaude: "claude-sonnet-4-20250514",
}

// Unprefixed variables used by earlier deployments, still honored when the prefixed
// variable is absent.
var legacyEnv = map[string]string{
	"parser.providers.openai.api_key": "OPENAI_API_KEY",
	"parser.providers.gemini.api_key": "GEMINI_API_KEY",
	"parser.providers.claude.api_key": "ANTHROPIC_API_KEY",
	"parser.primary":                  "PRIMARY_LLM",
	"cors.allowed_origins":            "CORS_ORIGINS",
}

// Load reads configuration from environment variables with the DOCEXTRACT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCEXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5001")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("log.level", "debug")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Parser defaults
	v.SetDefault("parser.primary", ProviderOpenAI)
	v.SetDefault("parser.fallback", "")
	for _, name := range providerNames {
		v.SetDefault("parser.providers."+name+".api_key", "")
		v.SetDefault("parser.providers."+name+".default_model", defaultModels[name])
		v.SetDefault("parser.providers."+name+".timeout_secs", 120)
	}

	// Store defaults
	v.SetDefault("store.reference_path", "data/Case Study Data.xlsx")
	v.SetDefault("store.extracted_path", "data/Extracted_Orders.xlsx")
	v.SetDefault("store.cache_ttl", "60s")

	v.SetDefault("upload.max_file_size_mb", 16)

	// Archive defaults
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "docextract-invoices")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.prefix", "invoices")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "DOCEXTRACT_SERVER_PORT",
		"server.read_timeout":     "DOCEXTRACT_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "DOCEXTRACT_SERVER_WRITE_TIMEOUT",
		"server.environment":      "DOCEXTRACT_SERVER_ENVIRONMENT",
		"log.level":               "DOCEXTRACT_LOG_LEVEL",
		"cors.allowed_origins":    "DOCEXTRACT_CORS_ALLOWED_ORIGINS",
		"parser.primary":          "DOCEXTRACT_PARSER_PRIMARY",
		"parser.fallback":         "DOCEXTRACT_PARSER_FALLBACK",
		"store.reference_path":    "DOCEXTRACT_STORE_REFERENCE_PATH",
		"store.extracted_path":    "DOCEXTRACT_STORE_EXTRACTED_PATH",
		"store.cache_ttl":         "DOCEXTRACT_STORE_CACHE_TTL",
		"upload.max_file_size_mb": "DOCEXTRACT_UPLOAD_MAX_FILE_SIZE_MB",
		"archive.enabled":         "DOCEXTRACT_ARCHIVE_ENABLED",
		"archive.region":          "DOCEXTRACT_ARCHIVE_REGION",
		"archive.bucket":          "DOCEXTRACT_ARCHIVE_BUCKET",
		"archive.endpoint":        "DOCEXTRACT_ARCHIVE_ENDPOINT",
		"archive.access_key":      "DOCEXTRACT_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":      "DOCEXTRACT_ARCHIVE_SECRET_KEY",
		"archive.prefix":          "DOCEXTRACT_ARCHIVE_PREFIX",
	}
	for _, name := range providerNames {
		for _, field := range []string{"api_key", "default_model", "timeout_secs"} {
			key := "parser.providers." + name + "." + field
			envBindings[key] = "DOCEXTRACT_PARSER_" + strings.ToUpper(name+"_"+field)
		}
	}
	for key, env := range envBindings {
		// BindEnv takes the first variable that is set, so the prefixed name wins.
		if legacy, ok := legacyEnv[key]; ok {
			_ = v.BindEnv(key, env, legacy)
			continue
		}
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// PORT is set by most PaaS runtimes. Use it if DOCEXTRACT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCEXTRACT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Parser = ParserConfig{
		Primary:   strings.ToLower(strings.TrimSpace(v.GetString("parser.primary"))),
		Fallback:  strings.ToLower(strings.TrimSpace(v.GetString("parser.fallback"))),
		Providers: make(map[string]ParserProviderConfig, len(providerNames)),
	}
	for _, name := range providerNames {
		prefix := "parser.providers." + name + "."
		cfg.Parser.Providers[name] = ParserProviderConfig{
			Provider:     name,
			APIKey:       v.GetString(prefix + "api_key"),
			DefaultModel: v.GetString(prefix + "default_model"),
			TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
		}
	}
	if err := cfg.Parser.Validate(); err != nil {
		return nil, err
	}

	cfg.Store = StoreConfig{
		ReferencePath: v.GetString("store.reference_path"),
		ExtractedPath: v.GetString("store.extracted_path"),
		CacheTTL:      v.GetDuration("store.cache_ttl"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Archive = ArchiveConfig{
		Enabled:   v.GetBool("archive.enabled"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
		Prefix:    v.GetString("archive.prefix"),
	}

	return cfg, nil
}
