package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIKeyEnvVar names the environment variable holding the Google Maps API key.
const APIKeyEnvVar = "GOOGLE_MAPS_API_KEY"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	StreetViewBaseURL     string        `mapstructure:"streetview_base_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	ArtifactStore          string        `mapstructure:"artifact_store"`
	ArtifactDir            string        `mapstructure:"artifact_dir"`
	ArtifactBaseURL        string        `mapstructure:"artifact_base_url"`
	GCSBucket              string        `mapstructure:"gcs_bucket"`
	GCSEndpoint            string        `mapstructure:"gcs_endpoint"`
	GCSPrefix              string        `mapstructure:"gcs_prefix"`
	GCSSignedURLTTLSeconds int64         `mapstructure:"gcs_signed_url_ttl_seconds"`
	GCSSignedURLTTL        time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "streetview-node")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("streetview_base_url", "https://maps.googleapis.com/maps/api/streetview")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("artifact_store", "url")
	v.SetDefault("artifact_dir", "./static")
	v.SetDefault("artifact_base_url", "")
	v.SetDefault("gcs_bucket", "")
	v.SetDefault("gcs_endpoint", "")
	v.SetDefault("gcs_prefix", "streetview")
	v.SetDefault("gcs_signed_url_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.GCSSignedURLTTLSeconds < 0 {
		return nil, fmt.Errorf("invalid gcs_signed_url_ttl_seconds (must be zero or positive seconds)")
	}
	cfg.GCSSignedURLTTL = time.Duration(cfg.GCSSignedURLTTLSeconds) * time.Second

	cfg.ArtifactStore = strings.ToLower(strings.TrimSpace(cfg.ArtifactStore))
	switch cfg.ArtifactStore {
	case "url", "file", "gcs":
	default:
		return nil, fmt.Errorf("invalid artifact_store %q (expected url, file or gcs)", cfg.ArtifactStore)
	}
	if cfg.ArtifactStore == "gcs" && strings.TrimSpace(cfg.GCSBucket) == "" {
		return nil, fmt.Errorf("gcs_bucket is required when artifact_store is gcs")
	}

	return &cfg, nil
}

// APIKey reads the Maps API key from the environment. It is called per
// invocation so a key exported after startup is picked up.
func APIKey() string {
	v := viper.New()
	_ = v.BindEnv("api_key", APIKeyEnvVar)
	return strings.TrimSpace(v.GetString("api_key"))
}
