package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/assetmap/internal/narrative"
	"github.com/agentstation/assetmap/internal/server"
	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/stats"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Reconciliation
	Policy       string
	PolicyFile   string
	AssetsConfig string // YAML file with exemptions, keywords and column aliases
	Concurrency  int

	// Narrative
	GeminiAPIKey      string
	GeminiModel       string
	NarrativeLanguage string

	// Server
	Server server.Config

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (ASSETMAP_ prefix, plus GEMINI_API_KEY / GOOGLE_API_KEY)
// 3. .env files
// 4. Config file (~/.assetmap.yaml or ./.assetmap.yaml)
// 5. Defaults
//
// An explicit configFile must exist; the default locations are optional.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("ASSETMAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindAPIKeys(v)
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".assetmap")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.WrapIO("read", v.ConfigFileUsed(), err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	defaults := server.DefaultConfig()

	v.SetDefault("policy", stats.DefaultPolicyName)
	v.SetDefault("concurrency", 4)
	v.SetDefault("narrative.model", narrative.DefaultModel)
	v.SetDefault("narrative.language", narrative.DefaultLanguage)

	v.SetDefault("server.host", defaults.Host)
	v.SetDefault("server.port", defaults.Port)
	v.SetDefault("server.prefix", defaults.PathPrefix)
	v.SetDefault("server.auth_header", defaults.AuthHeader)
	v.SetDefault("server.max_upload_bytes", defaults.MaxUploadBytes)
	v.SetDefault("server.narrative_ttl", defaults.NarrativeTTL)
	v.SetDefault("server.read_timeout", defaults.ReadTimeout)
	v.SetDefault("server.write_timeout", defaults.WriteTimeout)
	v.SetDefault("server.idle_timeout", defaults.IdleTimeout)
}

func fromViper(v *viper.Viper) *Config {
	apiKey := v.GetString("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = v.GetString("GOOGLE_API_KEY")
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Policy:       v.GetString("policy"),
		PolicyFile:   v.GetString("policy_file"),
		AssetsConfig: v.GetString("assets_config"),
		Concurrency:  v.GetInt("concurrency"),

		GeminiAPIKey:      apiKey,
		GeminiModel:       v.GetString("narrative.model"),
		NarrativeLanguage: v.GetString("narrative.language"),

		Server: server.Config{
			Host:           v.GetString("server.host"),
			Port:           v.GetInt("server.port"),
			PathPrefix:     v.GetString("server.prefix"),
			CORSEnabled:    v.GetBool("server.cors"),
			CORSOrigins:    v.GetStringSlice("server.cors_origins"),
			AuthEnabled:    v.GetBool("server.auth"),
			AuthHeader:     v.GetString("server.auth_header"),
			APIKey:         v.GetString("server.api_key"),
			MaxUploadBytes: v.GetInt64("server.max_upload_bytes"),
			NarrativeTTL:   v.GetDuration("server.narrative_ttl"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			IdleTimeout:    v.GetDuration("server.idle_timeout"),
		},

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// bindAPIKeys binds the unprefixed Gemini key variables.
func bindAPIKeys(v *viper.Viper) {
	for _, key := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if err := v.BindEnv(key, key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
