package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/vision-classifier/internal/apperrors"
	"github.com/example/vision-classifier/internal/config"
	"github.com/example/vision-classifier/internal/logging"
	"github.com/example/vision-classifier/internal/normalizer"
	"github.com/example/vision-classifier/internal/vision"
)

// ImagePayload is a decoded upload.
type ImagePayload struct {
	Bytes       []byte
	Filename    string
	ContentType string
	Size        int64
}

// ClassificationUseCase runs the configured vision operations for an image
// and normalizes their output.
type ClassificationUseCase struct {
	client   vision.Client
	cfg      config.VisionConfig
	features vision.Features
	logger   *zap.Logger
	now      func() time.Time
}

// NewClassificationUseCase constructs a new use case instance.
func NewClassificationUseCase(client vision.Client, cfg config.VisionConfig, logger *zap.Logger) *ClassificationUseCase {
	features := cfg.Features
	if cfg.Mode == vision.ModeSingle {
		features = vision.SingleFeatures()
	}
	return &ClassificationUseCase{
		client:   client,
		cfg:      cfg,
		features: features,
		logger:   logger.Named("classification_usecase"),
		now:      time.Now,
	}
}

// Classify sends the image to the vision service and returns the grouped
// result. Any failed operation fails the whole request.
func (uc *ClassificationUseCase) Classify(ctx context.Context, payload ImagePayload) (*normalizer.ClassificationResult, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.classify", requestID)

	if len(payload.Bytes) == 0 {
		return nil, apperrors.Validation("No image file provided", "image is empty")
	}

	start := uc.now()
	image := vision.Image{Bytes: payload.Bytes}

	var (
		bundle vision.Bundle
		err    error
	)
	if uc.cfg.Mode == vision.ModeSingle {
		bundle, err = uc.collectSingle(ctx, image)
	} else {
		bundle, err = uc.collectFull(ctx, image)
	}
	if err != nil {
		err = classifyError(err)
		opLogger.Error("vision request failed", zap.Error(err), zap.String("kind", apperrors.KindOf(err).String()))
		return nil, err
	}

	size := payload.Size
	if size == 0 {
		size = int64(len(payload.Bytes))
	}
	result := normalizer.Normalize(normalizer.Input{
		Bundle:    bundle,
		Features:  uc.features,
		Mode:      uc.cfg.Mode,
		RequestID: requestID,
		Image: normalizer.ImageMetadata{
			Filename:    payload.Filename,
			ContentType: payload.ContentType,
			Size:        size,
		},
		ProcessedAt: uc.now(),
	})

	opLogger.Info("classification complete",
		zap.String("mode", string(uc.cfg.Mode)),
		zap.Stringer("features", uc.features),
		zap.Int64("image_bytes", size),
		zap.Duration("latency", uc.now().Sub(start)),
	)
	return result, nil
}

func (uc *ClassificationUseCase) collectSingle(ctx context.Context, image vision.Image) (vision.Bundle, error) {
	opts := uc.labelOptions()
	opts.WithImageProperties = true

	resp, err := uc.client.DetectLabels(ctx, image, opts)
	if err != nil {
		return vision.Bundle{}, err
	}
	if resp == nil {
		return vision.Bundle{}, nil
	}
	return vision.Bundle{Labels: resp, Properties: resp.Properties}, nil
}

// collectFull issues one call per enabled feature concurrently. The first
// failure cancels the remaining calls.
func (uc *ClassificationUseCase) collectFull(ctx context.Context, image vision.Image) (vision.Bundle, error) {
	var bundle vision.Bundle
	g, gctx := errgroup.WithContext(ctx)

	if uc.features.Labels || uc.features.Colors {
		g.Go(func() error {
			resp, err := uc.client.DetectLabels(gctx, image, uc.labelOptions())
			bundle.Labels = resp
			return err
		})
	}
	if uc.features.Colors {
		g.Go(func() error {
			props, err := uc.client.DetectImageProperties(gctx, image, vision.PropertiesOptions{
				MaxDominantColors: uc.cfg.MaxDominantColors,
			})
			bundle.Properties = props
			return err
		})
	}
	if uc.features.Text {
		g.Go(func() error {
			resp, err := uc.client.DetectText(gctx, image, vision.TextOptions{MinConfidence: uc.cfg.MinConfidence})
			bundle.Text = resp
			return err
		})
	}
	if uc.features.Celebrities {
		g.Go(func() error {
			resp, err := uc.client.RecognizeCelebrities(gctx, image)
			bundle.Celebrities = resp
			return err
		})
	}
	if uc.features.Moderation {
		g.Go(func() error {
			resp, err := uc.client.DetectModerationLabels(gctx, image, vision.ModerationOptions{MinConfidence: uc.cfg.MinConfidence})
			bundle.Moderation = resp
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return vision.Bundle{}, err
	}
	return bundle, nil
}

// labelOptions builds the label request. When only colors are wanted and no
// categories are configured, the request is limited to the Color category so
// the service returns nothing the result would leave out.
func (uc *ClassificationUseCase) labelOptions() vision.LabelOptions {
	categories := uc.cfg.CategoryInclusions
	if uc.features.Colors && !uc.features.Labels && len(categories) == 0 {
		categories = []string{normalizer.ColorCategory}
	}
	return vision.LabelOptions{
		MaxLabels:          uc.cfg.MaxLabels,
		MinConfidence:      uc.cfg.MinConfidence,
		CategoryInclusions: categories,
		MaxDominantColors:  uc.cfg.MaxDominantColors,
	}
}

// classifyError keeps classified errors as they are and treats anything else
// coming back from the vision client as a dependency failure.
func classifyError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Dependency(err)
}
