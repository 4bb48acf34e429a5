package api

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const uploadsURLPrefix = "/uploads/"

type UploadHandler struct {
	dir string
	log *slog.Logger
}

func NewUploadHandler(dir string, log *slog.Logger) *UploadHandler {
	return &UploadHandler{dir: dir, log: log}
}

// Upload stores the multipart "file" field under a random name and returns its public url.
func (h *UploadHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	file, err := c.FormFile("file")
	if err != nil || file.Size == 0 {
		h.log.DebugContext(ctx, "no file uploaded", "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{"No file uploaded."})
	}

	name := uuid.NewString() + filepath.Ext(filepath.Base(file.Filename))
	if err = h.save(file, name); err != nil {
		h.log.ErrorContext(ctx, "failed to save uploaded file", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	h.log.InfoContext(ctx, "file uploaded", "name", name, "size", file.Size)

	return c.JSON(http.StatusOK, echo.Map{"url": uploadsURLPrefix + name})
}

func (h *UploadHandler) save(file *multipart.FileHeader, name string) error {
	if err := os.MkdirAll(h.dir, 0o750); err != nil { //nolint:mnd // directory permissions
		return fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}

	return nil
}
