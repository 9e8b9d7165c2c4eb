package rekognitionclient

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/example/vision-classifier/internal/apperrors"
	"github.com/example/vision-classifier/internal/config"
	"github.com/example/vision-classifier/internal/logging"
	"github.com/example/vision-classifier/internal/vision"
)

// API is the subset of the Rekognition SDK client used by the adapter.
type API interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
	RecognizeCelebrities(ctx context.Context, params *rekognition.RecognizeCelebritiesInput, optFns ...func(*rekognition.Options)) (*rekognition.RecognizeCelebritiesOutput, error)
	DetectModerationLabels(ctx context.Context, params *rekognition.DetectModerationLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectModerationLabelsOutput, error)
}

// Client implements vision.Client on top of AWS Rekognition.
type Client struct {
	api    API
	logger *zap.Logger
}

var _ vision.Client = (*Client)(nil)

// New builds a Rekognition-backed client from explicit configuration. Missing
// credentials are not checked here; they surface on the first call.
func New(ctx context.Context, cfg config.AWSConfig, logger *zap.Logger) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, logging.NewOperationError("rekognition.load_config", "", err)
	}

	api := rekognition.NewFromConfig(awsCfg, func(o *rekognition.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithAPI(api, logger), nil
}

// NewWithAPI wraps an existing Rekognition API implementation.
func NewWithAPI(api API, logger *zap.Logger) *Client {
	return &Client{api: api, logger: logger.Named("rekognition")}
}

// DetectLabels runs general label detection, optionally with image properties.
func (c *Client) DetectLabels(ctx context.Context, image vision.Image, opts vision.LabelOptions) (*vision.LabelResponse, error) {
	features := []types.DetectLabelsFeatureName{types.DetectLabelsFeatureNameGeneralLabels}
	settings := &types.DetectLabelsSettings{}
	if len(opts.CategoryInclusions) > 0 {
		settings.GeneralLabels = &types.GeneralLabelsSettings{
			LabelCategoryInclusionFilters: opts.CategoryInclusions,
		}
	}
	if opts.WithImageProperties {
		features = append(features, types.DetectLabelsFeatureNameImageProperties)
		settings.ImageProperties = imagePropertiesSettings(opts.MaxDominantColors)
	}

	input := &rekognition.DetectLabelsInput{
		Image:    &types.Image{Bytes: image.Bytes},
		Features: features,
	}
	if settings.GeneralLabels != nil || settings.ImageProperties != nil {
		input.Settings = settings
	}
	if opts.MaxLabels > 0 {
		input.MaxLabels = aws.Int32(opts.MaxLabels)
	}
	if opts.MinConfidence > 0 {
		input.MinConfidence = aws.Float32(opts.MinConfidence)
	}

	out, err := c.api.DetectLabels(ctx, input)
	if err != nil {
		return nil, c.fail(ctx, "rekognition.detect_labels", err)
	}

	resp := &vision.LabelResponse{
		Labels:       mapLabels(out.Labels),
		ModelVersion: aws.ToString(out.LabelModelVersion),
	}
	if opts.WithImageProperties {
		resp.Properties = mapImageProperties(out.ImageProperties)
	}
	return resp, nil
}

// DetectImageProperties extracts dominant colors and quality without labels.
func (c *Client) DetectImageProperties(ctx context.Context, image vision.Image, opts vision.PropertiesOptions) (*vision.ImageProperties, error) {
	out, err := c.api.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:    &types.Image{Bytes: image.Bytes},
		Features: []types.DetectLabelsFeatureName{types.DetectLabelsFeatureNameImageProperties},
		Settings: &types.DetectLabelsSettings{ImageProperties: imagePropertiesSettings(opts.MaxDominantColors)},
	})
	if err != nil {
		return nil, c.fail(ctx, "rekognition.detect_image_properties", err)
	}
	return mapImageProperties(out.ImageProperties), nil
}

// DetectText finds lines and words of text in the image.
func (c *Client) DetectText(ctx context.Context, image vision.Image, opts vision.TextOptions) (*vision.TextResponse, error) {
	input := &rekognition.DetectTextInput{Image: &types.Image{Bytes: image.Bytes}}
	if opts.MinConfidence > 0 {
		input.Filters = &types.DetectTextFilters{
			WordFilter: &types.DetectionFilter{MinConfidence: aws.Float32(opts.MinConfidence)},
		}
	}

	out, err := c.api.DetectText(ctx, input)
	if err != nil {
		return nil, c.fail(ctx, "rekognition.detect_text", err)
	}
	return &vision.TextResponse{
		Detections:   mapTextDetections(out.TextDetections),
		ModelVersion: aws.ToString(out.TextModelVersion),
	}, nil
}

// RecognizeCelebrities matches faces in the image against known celebrities.
func (c *Client) RecognizeCelebrities(ctx context.Context, image vision.Image) (*vision.CelebrityResponse, error) {
	out, err := c.api.RecognizeCelebrities(ctx, &rekognition.RecognizeCelebritiesInput{
		Image: &types.Image{Bytes: image.Bytes},
	})
	if err != nil {
		return nil, c.fail(ctx, "rekognition.recognize_celebrities", err)
	}
	return &vision.CelebrityResponse{
		Celebrities:       mapCelebrities(out.CelebrityFaces),
		UnrecognizedFaces: len(out.UnrecognizedFaces),
	}, nil
}

// DetectModerationLabels flags unsafe content.
func (c *Client) DetectModerationLabels(ctx context.Context, image vision.Image, opts vision.ModerationOptions) (*vision.ModerationResponse, error) {
	input := &rekognition.DetectModerationLabelsInput{Image: &types.Image{Bytes: image.Bytes}}
	if opts.MinConfidence > 0 {
		input.MinConfidence = aws.Float32(opts.MinConfidence)
	}

	out, err := c.api.DetectModerationLabels(ctx, input)
	if err != nil {
		return nil, c.fail(ctx, "rekognition.detect_moderation_labels", err)
	}
	return &vision.ModerationResponse{
		Labels:       mapModerationLabels(out.ModerationLabels),
		ModelVersion: aws.ToString(out.ModerationModelVersion),
	}, nil
}

func (c *Client) fail(ctx context.Context, operation string, err error) error {
	wrapped := logging.NewOperationError(operation, errorCode(err), err)
	if isImageRejection(err) {
		c.logger.Warn("image rejected by vision service", logging.OperationFields(wrapped)...)
		return &apperrors.Error{Kind: apperrors.KindValidation, Message: "Invalid image", Details: err.Error(), Err: wrapped}
	}
	if ctx.Err() == nil {
		c.logger.Error("vision service call failed", logging.OperationFields(wrapped)...)
	}
	return apperrors.Dependency(wrapped)
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// isImageRejection reports whether the service refused the image itself
// rather than failing to process it. InvalidParameterException also covers
// server-side settings, so it only counts when its message names the image.
func isImageRejection(err error) bool {
	var (
		invalidFormat *types.InvalidImageFormatException
		tooLarge      *types.ImageTooLargeException
	)
	if errors.As(err, &invalidFormat) || errors.As(err, &tooLarge) {
		return true
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "InvalidImageFormatException", "ImageTooLargeException":
		return true
	case "InvalidParameterException":
		return strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "image")
	}
	return false
}

func imagePropertiesSettings(maxColors int32) *types.DetectLabelsImagePropertiesSettings {
	if maxColors <= 0 {
		return nil
	}
	return &types.DetectLabelsImagePropertiesSettings{MaxDominantColors: maxColors}
}
