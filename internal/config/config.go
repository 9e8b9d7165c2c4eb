package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vision-classifier/internal/vision"
)

// DefaultMaxUploadBytes is the largest image Rekognition accepts inline.
const DefaultMaxUploadBytes = 5 << 20

// Config is the process-wide configuration, read once at start.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64

	AWS    AWSConfig
	Vision VisionConfig
}

// AWSConfig holds region and credential material for the vision service.
// Empty credentials defer to the SDK's default provider chain.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string
}

// VisionConfig selects and tunes the vision operations.
type VisionConfig struct {
	Mode               vision.Mode
	Features           vision.Features
	MaxLabels          int32
	MinConfidence      float32
	CategoryInclusions []string
	MaxDominantColors  int32
}

// DotEnvFile is read before the environment when present. Variables already
// set in the environment win.
var DotEnvFile = ".env"

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	mode, err := vision.ParseMode(getEnv("VISION_MODE", string(vision.ModeFull)))
	if err != nil {
		return nil, err
	}

	features := vision.SingleFeatures()
	if mode == vision.ModeFull {
		if features, err = vision.ParseFeatures(os.Getenv("VISION_FEATURES")); err != nil {
			return nil, err
		}
	}

	categories := splitList(os.Getenv("VISION_LABEL_CATEGORIES"))
	if categories == nil && mode == vision.ModeSingle {
		categories = []string{"Color"}
	}

	minConfidence, err := getEnvFloat("VISION_MIN_CONFIDENCE", 50)
	if err != nil {
		return nil, err
	}
	if minConfidence < 0 || minConfidence > 100 {
		return nil, fmt.Errorf("VISION_MIN_CONFIDENCE must be within [0, 100], got %v", minConfidence)
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
	}

	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	maxLabels, err := getEnvInt("VISION_MAX_LABELS", 50)
	if err != nil {
		return nil, err
	}
	maxColors, err := getEnvInt("VISION_MAX_DOMINANT_COLORS", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: shutdownTimeout,
		MaxUploadBytes:  int64(maxUpload),

		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Endpoint:        os.Getenv("REKOGNITION_ENDPOINT"),
		},

		Vision: VisionConfig{
			Mode:               mode,
			Features:           features,
			MaxLabels:          int32(maxLabels),
			MinConfidence:      float32(minConfidence),
			CategoryInclusions: categories,
			MaxDominantColors:  int32(maxColors),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt reads a positive integer.
func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	i, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, i)
	}
	return int(i), nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
