package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// BrandingImageName is the logo looked up next to the executable
const BrandingImageName = "Granny-porch.png"

// Config holds process configuration. User preferences such as the webhook
// URL are not here; they live in the settings store.
type Config struct {
	LogLevel  string
	LogFormat string
	// SettingsDir overrides the per-user settings directory when non-empty.
	SettingsDir string
	// HTTPTimeout of zero means a send runs until it completes or fails.
	HTTPTimeout   time.Duration
	BrandingImage string
}

// Load reads configuration from the environment with defaults.
// A .env file in the working directory is honoured if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "pretty"),
		SettingsDir:   getEnv("GRANNYSPORCH_SETTINGS_DIR", ""),
		HTTPTimeout:   time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		BrandingImage: getEnv("BRANDING_IMAGE", defaultBrandingImage()),
	}
}

func defaultBrandingImage() string {
	exe, err := os.Executable()
	if err != nil {
		return BrandingImageName
	}
	return filepath.Join(filepath.Dir(exe), BrandingImageName)
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
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
