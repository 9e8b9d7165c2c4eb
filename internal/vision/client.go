package vision

import "context"

// Client exposes the vision-service operations used by the classification flow.
type Client interface {
	DetectLabels(ctx context.Context, image Image, opts LabelOptions) (*LabelResponse, error)
	DetectText(ctx context.Context, image Image, opts TextOptions) (*TextResponse, error)
	RecognizeCelebrities(ctx context.Context, image Image) (*CelebrityResponse, error)
	DetectModerationLabels(ctx context.Context, image Image, opts ModerationOptions) (*ModerationResponse, error)
	DetectImageProperties(ctx context.Context, image Image, opts PropertiesOptions) (*ImageProperties, error)
}

// Image is the raw image sent to the vision service.
type Image struct {
	Bytes []byte
}

// LabelOptions tunes general label detection.
type LabelOptions struct {
	MaxLabels          int32
	MinConfidence      float32
	CategoryInclusions []string
	// WithImageProperties folds image-property extraction into the same call.
	WithImageProperties bool
	MaxDominantColors   int32
}

// TextOptions tunes text detection.
type TextOptions struct {
	MinConfidence float32
}

// ModerationOptions tunes moderation-label detection.
type ModerationOptions struct {
	MinConfidence float32
}

// PropertiesOptions tunes image-property extraction.
type PropertiesOptions struct {
	MaxDominantColors int32
}

// LabelResponse is the result of a label detection call.
type LabelResponse struct {
	Labels       []DetectionItem
	ModelVersion string
	// Properties is set only when LabelOptions.WithImageProperties was requested.
	Properties *ImageProperties
}

// TextResponse is the result of a text detection call.
type TextResponse struct {
	Detections   []DetectionItem
	ModelVersion string
}

// CelebrityResponse is the result of a celebrity recognition call.
type CelebrityResponse struct {
	Celebrities       []DetectionItem
	UnrecognizedFaces int
}

// ModerationResponse is the result of a moderation-label detection call.
type ModerationResponse struct {
	Labels       []DetectionItem
	ModelVersion string
}
