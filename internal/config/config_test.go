package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/example/vision-classifier/internal/vision"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "MAX_UPLOAD_BYTES", "AWS_REGION",
		"VISION_MODE", "VISION_FEATURES", "VISION_MAX_LABELS", "VISION_MIN_CONFIDENCE",
		"VISION_LABEL_CATEGORIES", "VISION_MAX_DOMINANT_COLORS", "REKOGNITION_ENDPOINT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Fatalf("unexpected upload limit %d", cfg.MaxUploadBytes)
	}
	if cfg.AWS.Region != "us-east-1" {
		t.Fatalf("unexpected region %q", cfg.AWS.Region)
	}
	if cfg.Vision.Mode != vision.ModeFull || cfg.Vision.Features != vision.AllFeatures() {
		t.Fatalf("unexpected vision config %+v", cfg.Vision)
	}
	if cfg.Vision.CategoryInclusions != nil {
		t.Fatalf("expected no category filters in full mode, got %v", cfg.Vision.CategoryInclusions)
	}
	if cfg.Vision.MinConfidence != 50 || cfg.Vision.MaxLabels != 50 || cfg.Vision.MaxDominantColors != 10 {
		t.Fatalf("unexpected vision limits %+v", cfg.Vision)
	}
}

func TestLoadSingleModeFiltersColors(t *testing.T) {
	t.Setenv("VISION_MODE", "single")
	t.Setenv("VISION_FEATURES", "text")
	t.Setenv("VISION_LABEL_CATEGORIES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Vision.Features != vision.SingleFeatures() {
		t.Fatalf("single mode should ignore VISION_FEATURES, got %+v", cfg.Vision.Features)
	}
	if !reflect.DeepEqual(cfg.Vision.CategoryInclusions, []string{"Color"}) {
		t.Fatalf("unexpected category filters %v", cfg.Vision.CategoryInclusions)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VISION_MODE", "full")
	t.Setenv("VISION_FEATURES", "labels, moderation")
	t.Setenv("VISION_MIN_CONFIDENCE", "72.5")
	t.Setenv("VISION_LABEL_CATEGORIES", "Color, Animals and Pets")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Vision.Features != (vision.Features{Labels: true, Moderation: true}) {
		t.Fatalf("unexpected features %+v", cfg.Vision.Features)
	}
	if cfg.Vision.MinConfidence != 72.5 {
		t.Fatalf("unexpected min confidence %v", cfg.Vision.MinConfidence)
	}
	if !reflect.DeepEqual(cfg.Vision.CategoryInclusions, []string{"Color", "Animals and Pets"}) {
		t.Fatalf("unexpected category filters %v", cfg.Vision.CategoryInclusions)
	}
	if cfg.AWS.Region != "eu-west-1" || cfg.MaxUploadBytes != 1024 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"VISION_MODE":                "partial",
		"VISION_MIN_CONFIDENCE":      "150",
		"SHUTDOWN_TIMEOUT":           "soon",
		"VISION_MAX_LABELS":          "many",
		"MAX_UPLOAD_BYTES":           "-1",
		"VISION_MAX_DOMINANT_COLORS": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("VISION_MAX_LABELS=7\nAWS_REGION=eu-west-1\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	previous := DotEnvFile
	DotEnvFile = path
	t.Cleanup(func() { DotEnvFile = previous })

	// Registers a restore, then leaves the key unset for the file to fill.
	t.Setenv("VISION_MAX_LABELS", "")
	os.Unsetenv("VISION_MAX_LABELS")
	t.Setenv("AWS_REGION", "ap-south-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Vision.MaxLabels != 7 {
		t.Fatalf("expected max labels from env file, got %d", cfg.Vision.MaxLabels)
	}
	if cfg.AWS.Region != "ap-south-1" {
		t.Fatalf("environment should win over env file, got %q", cfg.AWS.Region)
	}
}

func TestLoadIgnoresMissingDotEnv(t *testing.T) {
	previous := DotEnvFile
	DotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { DotEnvFile = previous })

	if _, err := Load(); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}
