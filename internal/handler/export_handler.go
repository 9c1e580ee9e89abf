package handler

import (
	"bytes"
	"context"
	"io"

	"go-boutique-pos/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// BackupWriter produces a backup archive and reports its file name
type BackupWriter interface {
	WriteBackup(ctx context.Context, w io.Writer) (string, error)
}

type ExportHandler struct {
	writer BackupWriter
}

func NewExportHandler(w BackupWriter) *ExportHandler {
	return &ExportHandler{writer: w}
}

// GetBackup downloads the CSV backup as a ZIP attachment
// GET /api/v1/export/backup
func (h *ExportHandler) GetBackup(c *fiber.Ctx) error {
	var buf bytes.Buffer
	name, err := h.writer.WriteBackup(c.UserContext(), &buf)
	if err != nil {
		log.ForContext(c.UserContext()).WithError(err).Error("Backup export failed")
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export backup"})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Attachment(name)
	return c.Send(buf.Bytes())
}
