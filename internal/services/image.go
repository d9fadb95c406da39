package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"medbot-backend/internal/logger"
	"medbot-backend/internal/metrics"
	"medbot-backend/internal/models"
)

const maxImagePixels = 50_000_000

// VisionModel answers a prompt about an image.
type VisionModel interface {
	DescribeImage(ctx context.Context, prompt, format string, data []byte) (string, error)
}

// ImageExtractor turns an uploaded image into prompt context.
type ImageExtractor struct {
	vision VisionModel
}

func NewImageExtractor(vision VisionModel) *ImageExtractor {
	return &ImageExtractor{vision: vision}
}

func (e *ImageExtractor) Ready() bool {
	return e != nil && e.vision != nil
}

// Extract never fails: decode and model faults are folded into the result.
func (e *ImageExtractor) Extract(ctx context.Context, data []byte) models.ImageExtraction {
	result := e.extract(ctx, data)
	metrics.ExtractionsTotal.WithLabelValues(string(models.InputImage), result.Outcome()).Inc()
	return result
}

func (e *ImageExtractor) extract(ctx context.Context, data []byte) models.ImageExtraction {
	format, payload, err := prepareImage(data)
	if err != nil {
		logger.Error(ctx, "Error processing image", err)
		return models.ImageExtraction{Kind: models.ImageDecodeFailure, Detail: err.Error()}
	}

	if !e.Ready() {
		return models.ImageExtraction{Kind: models.ImageServiceFailure, Detail: "vision model is not available"}
	}

	text, err := e.vision.DescribeImage(ctx, ImageExtractionPrompt, format, payload)
	if err != nil {
		logger.Error(ctx, "Error processing image", err, "format", format)
		return models.ImageExtraction{Kind: models.ImageServiceFailure, Detail: err.Error()}
	}

	return models.ImageExtraction{Kind: models.ImageDescribed, Text: text}
}

// prepareImage decodes the upload and returns a payload the vision model
// accepts. PNG, JPEG and WebP pass through; everything else is re-encoded as PNG.
func prepareImage(data []byte) (string, []byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		return "", nil, fmt.Errorf("unsupported image dimensions %dx%d", cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}

	switch format {
	case "png", "jpeg", "webp":
		return format, data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("failed to convert %s image: %w", format, err)
	}
	return "png", buf.Bytes(), nil
}
