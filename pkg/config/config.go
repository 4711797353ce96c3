// Package config reads process settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/joho/godotenv"
)

// Config holds settings shared by the CLI and the web server
type Config struct {
	ScenesDir string // Directory searched for .json scene files
	OutputDir string // Directory for rendered images
	Port      int    // Web server port
	Workers   int    // Render workers, 0 means one per CPU
	S3        output.S3Config
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		ScenesDir: "scenes",
		OutputDir: "output",
		Port:      8080,
		Workers:   0,
	}
}

// Load reads envFile, if it exists, into the process environment and builds
// a Config from it. Variables already set in the environment win over the
// file. An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables on top of DefaultConfig
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.ScenesDir = getEnv("RAYTRACER_SCENES_DIR", cfg.ScenesDir)
	cfg.OutputDir = getEnv("RAYTRACER_OUTPUT_DIR", cfg.OutputDir)

	var err error
	if cfg.Port, err = getEnvInt("RAYTRACER_PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = getEnvInt("RAYTRACER_WORKERS", cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("RAYTRACER_WORKERS must be non-negative, got %d", cfg.Workers)
	}

	cfg.S3 = output.S3Config{
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Prefix:    getEnv("S3_PREFIX", "renders"),
	}

	return cfg, nil
}

// getEnv returns the value of key, or fallback when it is unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
