package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

type TextExtractor interface {
	// Extract returns the plain text of a document. Only an unsupported
	// format or a cancelled context is reported as an error; any other
	// extraction problem yields empty text.
	Extract(ctx context.Context, doc models.Document) (string, error)
}

type textExtractor struct {
	pdf    PDFReader
	docx   DocxReader
	ocr    OCRProvider
	logger *zap.Logger
}

func NewTextExtractor(pdf PDFReader, docx DocxReader, ocr OCRProvider, logger *zap.Logger) TextExtractor {
	return &textExtractor{
		pdf:    pdf,
		docx:   docx,
		ocr:    ocr,
		logger: logger,
	}
}

// Extract implements TextExtractor.
func (t *textExtractor) Extract(ctx context.Context, doc models.Document) (string, error) {
	var (
		text string
		err  error
	)

	switch doc.Format {
	case models.FormatPDF:
		text, err = t.extractPDF(doc.Data)
	case models.FormatDocx:
		text, err = t.extractDocx(doc.Data)
	case models.FormatImage:
		text, err = t.extractImage(ctx, doc.Data)
	default:
		return "", &models.UnsupportedFormatError{Filename: doc.Filename}
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("extraction of %s interrupted: %w", doc.Filename, ctxErr)
		}
		t.logger.Warn("text extraction failed, continuing with empty text",
			logger.Filename(doc.Filename),
			zap.String("format", string(doc.Format)),
			zap.Error(err),
		)
		return "", nil
	}

	t.logger.Debug("text extracted",
		logger.Filename(doc.Filename),
		zap.Int("chars", len(text)),
		zap.String("preview", logger.Preview(text, 80)),
	)
	return text, nil
}

// Page texts are concatenated without a separator.
func (t *textExtractor) extractPDF(data []byte) (string, error) {
	pages, err := t.pdf.ReadPages(data)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, ""), nil
}

func (t *textExtractor) extractDocx(data []byte) (string, error) {
	paragraphs, err := t.docx.ReadParagraphs(data)
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

func (t *textExtractor) extractImage(ctx context.Context, data []byte) (string, error) {
	pngData, err := NormalizeImage(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrExtractionFailure, err)
	}
	text, err := t.ocr.RecognizeImage(ctx, pngData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrExtractionFailure, err)
	}
	return text, nil
}
