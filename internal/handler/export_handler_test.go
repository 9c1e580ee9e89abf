package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"go-boutique-pos/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackup struct {
	payload string
	err     error
}

func (s stubBackup) WriteBackup(_ context.Context, w io.Writer) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	_, err := io.WriteString(w, s.payload)
	return "respaldo_20240504-210709.zip", err
}

func exportApp(w BackupWriter) *fiber.App {
	log.SetupTestLogger()
	app := fiber.New()
	app.Get("/export/backup", NewExportHandler(w).GetBackup)
	return app
}

func TestExportHandler_GetBackup(t *testing.T) {
	app := exportApp(stubBackup{payload: "PK-archive"})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/export/backup", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="respaldo_20240504-210709.zip"`, resp.Header.Get(fiber.HeaderContentDisposition))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK-archive", string(body))
}

func TestExportHandler_Failure(t *testing.T) {
	app := exportApp(stubBackup{err: errors.New("database is locked")})

	var body errorBody
	require.Equal(t, fiber.StatusInternalServerError, do(t, app, fiber.MethodGet, "/export/backup", nil, &body))
	assert.Equal(t, "Failed to export backup", body.Error)
}
