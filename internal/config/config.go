// Package config loads runtime settings from an optional dotenv file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port         int
	DatabasePath string
	UploadsDir   string
	AppEnv       string
	LogLevel     string

	StrictCategoryReferences bool
	CORSAllowedOrigins       []string

	Cloudinary Cloudinary

	GeminiAPIKey string
	GeminiModel  string

	ReleaseConcurrency  int
	ReleaseTimeout      time.Duration
	OrphanSweepSchedule string
	OrphanSweepGrace    time.Duration
}

// Cloudinary holds the remote image CDN credentials.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether remote uploads are configured.
func (c Cloudinary) Enabled() bool {
	return c.CloudName != ""
}

// IsTest reports whether the server runs under end-to-end tests.
func (c Config) IsTest() bool {
	return c.AppEnv == "test"
}

var defaults = map[string]any{
	"port":                       3001,
	"database_path":              "item-flow.db",
	"uploads_dir":                "uploads",
	"app_env":                    "development",
	"log_level":                  "info",
	"strict_category_references": true,
	"cors_allowed_origins":       "*",
	"cloudinary_cloud_name":      "",
	"cloudinary_api_key":         "",
	"cloudinary_api_secret":      "",
	"cloudinary_folder":          "item-flow",
	"gemini_api_key":             "",
	"gemini_model":               "gemini-2.5-flash",
	"release_concurrency":        4,
	"release_timeout":            30 * time.Second,
	"orphan_sweep_schedule":      "@hourly",
	"orphan_sweep_grace":         time.Hour,
}

// Load reads configuration. Environment variables take precedence over the
// dotenv file at path; an empty path means ".env.<APP_ENV>", falling back
// to ".env". A missing default file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	file, err := envFile(path, v.GetString("app_env"))
	if err != nil {
		return Config{}, err
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:                     v.GetInt("port"),
		DatabasePath:             v.GetString("database_path"),
		UploadsDir:               v.GetString("uploads_dir"),
		AppEnv:                   v.GetString("app_env"),
		LogLevel:                 v.GetString("log_level"),
		StrictCategoryReferences: v.GetBool("strict_category_references"),
		CORSAllowedOrigins:       splitList(v.GetString("cors_allowed_origins")),
		Cloudinary: Cloudinary{
			CloudName: strings.TrimSpace(v.GetString("cloudinary_cloud_name")),
			APIKey:    strings.TrimSpace(v.GetString("cloudinary_api_key")),
			APISecret: strings.TrimSpace(v.GetString("cloudinary_api_secret")),
			Folder:    v.GetString("cloudinary_folder"),
		},
		GeminiAPIKey:        strings.TrimSpace(v.GetString("gemini_api_key")),
		GeminiModel:         v.GetString("gemini_model"),
		ReleaseConcurrency:  v.GetInt("release_concurrency"),
		ReleaseTimeout:      v.GetDuration("release_timeout"),
		OrphanSweepSchedule: strings.TrimSpace(v.GetString("orphan_sweep_schedule")),
		OrphanSweepGrace:    v.GetDuration("orphan_sweep_grace"),
	}
	return cfg, cfg.validate()
}

func envFile(path, appEnv string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}
	for _, candidate := range []string{".env." + appEnv, ".env"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func (c Config) validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}
	if c.UploadsDir == "" {
		errs = append(errs, errors.New("UPLOADS_DIR is required"))
	}
	if c.ReleaseConcurrency < 1 {
		errs = append(errs, fmt.Errorf("RELEASE_CONCURRENCY must be positive, got %d", c.ReleaseConcurrency))
	}
	cld := c.Cloudinary
	if cld.Enabled() && (cld.APIKey == "" || cld.APISecret == "") {
		errs = append(errs, errors.New("CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required with CLOUDINARY_CLOUD_NAME"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
