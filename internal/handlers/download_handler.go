package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/repositories"
)

const (
	downloadFilename = "resume_data.xlsx"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type DownloadHandler struct {
	store  repositories.CandidateStore
	logger *zap.Logger
}

func NewDownloadHandler(store repositories.CandidateStore, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		store:  store,
		logger: logger,
	}
}

func (h *DownloadHandler) HandleDownload(c *fiber.Ctx) error {
	rows, err := h.store.ReadAll(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read candidate records: %v", err),
		})
	}

	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No data available",
		})
	}

	var buf bytes.Buffer
	if err := repositories.WriteWorkbook(&buf, rows); err != nil {
		h.logger.Error("failed to render workbook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render workbook",
		})
	}

	c.Attachment(downloadFilename)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
