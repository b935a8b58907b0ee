package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
)

type OCRProvider interface {
	// RecognizeImage returns the text found in a PNG encoded image.
	RecognizeImage(ctx context.Context, pngData []byte) (string, error)
}

type tesseractOCR struct {
	binary   string
	language string
	logger   *zap.Logger
}

func NewTesseractOCR(binary, language string, logger *zap.Logger) OCRProvider {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &tesseractOCR{
		binary:   binary,
		language: language,
		logger:   logger,
	}
}

// RecognizeImage implements OCRProvider by piping the image through the
// tesseract command line.
func (t *tesseractOCR) RecognizeImage(ctx context.Context, pngData []byte) (string, error) {
	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.language)
	cmd.Stdin = bytes.NewReader(pngData)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	t.logger.Debug("ocr finished", zap.Int("chars", stdout.Len()))
	return stdout.String(), nil
}

// NormalizeImage decodes a PNG, JPEG, GIF or BMP image and returns it PNG
// encoded. PNG input is returned unchanged.
func NormalizeImage(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "png" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as png: %w", err)
	}
	return buf.Bytes(), nil
}
