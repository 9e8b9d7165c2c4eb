package normalizer

import (
	"time"

	"github.com/example/vision-classifier/internal/vision"
)

// ImageMetadata describes the uploaded image as declared by the caller.
type ImageMetadata struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
}

// ClassificationResult is the response body of a classification request.
// Sections for disabled features are omitted.
type ClassificationResult struct {
	RequestID string        `json:"requestId,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Mode      vision.Mode   `json:"mode,omitempty"`
	Image     ImageMetadata `json:"image"`

	*ColorSummary
	*LabelSummary

	Text        *TextSummary       `json:"text,omitempty"`
	Celebrities *CelebritySummary  `json:"celebrities,omitempty"`
	Moderation  *ModerationSummary `json:"moderation,omitempty"`
}

// ColorSummary holds color labels split by position plus the raw swatches
// from image-property extraction.
type ColorSummary struct {
	DominantColors     []vision.DetectionItem `json:"dominantColors"`
	ForegroundColors   []vision.DetectionItem `json:"foregroundColors"`
	BackgroundColors   []vision.DetectionItem `json:"backgroundColors"`
	ColorProperties    []vision.ColorSwatch   `json:"colorProperties"`
	ForegroundSwatches []vision.ColorSwatch   `json:"foregroundSwatches"`
	BackgroundSwatches []vision.ColorSwatch   `json:"backgroundSwatches"`
	Quality            *vision.ImageQuality   `json:"quality,omitempty"`
}

// LabelSummary holds every label and its groupings.
type LabelSummary struct {
	AllLabels []vision.DetectionItem `json:"allLabels"`
	Labels    LabelGroups            `json:"labels"`
}

// LabelGroups indexes labels by category and by confidence.
type LabelGroups struct {
	Categories   map[string][]vision.DetectionItem `json:"categories"`
	ByConfidence []vision.DetectionItem            `json:"byConfidence"`
	ModelVersion string                            `json:"modelVersion,omitempty"`
}

// TextSummary splits text detections into lines and words.
type TextSummary struct {
	All          []vision.DetectionItem `json:"all"`
	Lines        []vision.DetectionItem `json:"lines"`
	Words        []vision.DetectionItem `json:"words"`
	FullText     string                 `json:"fullText"`
	ModelVersion string                 `json:"modelVersion,omitempty"`
}

// CelebritySummary lists recognized faces and counts the rest.
type CelebritySummary struct {
	Recognized        []vision.DetectionItem `json:"recognized"`
	UnrecognizedCount int                    `json:"unrecognizedCount"`
}

// ModerationSummary groups moderation labels by parent category.
type ModerationSummary struct {
	All          []vision.DetectionItem            `json:"all"`
	Categories   map[string][]vision.DetectionItem `json:"categories"`
	IsSafe       bool                              `json:"isSafe"`
	ModelVersion string                            `json:"modelVersion,omitempty"`
}
