package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	filesField        = "files"
	requirementsField = "job_requirements"
)

type UploadHandler struct {
	pipeline       services.Pipeline
	storageService services.StorageService
	maxFileSize    int64
	logger         *zap.Logger
}

// NewUploadHandler builds the upload endpoint. storageService may be nil, in
// which case uploads are not archived.
func NewUploadHandler(
	pipeline services.Pipeline,
	storageService services.StorageService,
	maxFileSize int64,
	logger *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		pipeline:       pipeline,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File[filesField]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files part",
		})
	}

	requirements := form.Value[requirementsField]
	if len(requirements) == 0 || requirements[0] == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No job requirements provided",
		})
	}

	docs := make([]models.Document, 0, len(files))
	for _, file := range files {
		docs = append(docs, h.readDocument(file))
	}

	batch, err := h.pipeline.ProcessBatch(c.UserContext(), docs, []byte(requirements[0]))
	if errors.Is(err, models.ErrMalformedJobRequirements) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to process files: %v", err),
		})
	}

	h.archive(docs)

	return c.Status(fiber.StatusOK).JSON(models.UploadResponse{
		Message:   "Files processed successfully",
		BatchID:   batch.BatchID.String(),
		Processed: batch.Processed(),
		Failed:    batch.Failed(),
		Data:      batch.Outcomes(),
	})
}

// readDocument loads one multipart file. Problems with the file itself are
// carried on the Document so it fails in place.
func (h *UploadHandler) readDocument(file *multipart.FileHeader) models.Document {
	filename := filepath.Base(file.Filename)

	if file.Size > h.maxFileSize {
		return models.Document{
			Filename: filename,
			Err:      fmt.Errorf("%w: %s is %d bytes, max %d", models.ErrFileTooLarge, filename, file.Size, h.maxFileSize),
		}
	}

	src, err := file.Open()
	if err != nil {
		return models.Document{Filename: filename, Err: fmt.Errorf("failed to open uploaded file: %w", err)}
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return models.Document{Filename: filename, Err: fmt.Errorf("failed to read uploaded file: %w", err)}
	}

	// An unsupported extension is reported by the pipeline.
	doc, _ := models.NewDocument(filename, data)
	return doc
}

func (h *UploadHandler) archive(docs []models.Document) {
	if h.storageService == nil {
		return
	}

	for _, doc := range docs {
		if doc.Err != nil || doc.Format == "" {
			continue
		}
		stored, err := h.storageService.SaveUpload(doc.Filename, doc.Data)
		if err != nil {
			h.logger.Warn("failed to archive upload", logger.Filename(doc.Filename), zap.Error(err))
			continue
		}
		h.logger.Debug("upload archived", logger.Filename(doc.Filename), zap.String("stored_as", stored))
	}
}
