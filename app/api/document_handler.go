package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ragsearch/pipeline"
	"ragsearch/types"
)

type DocumentHandler struct {
	upload *pipeline.UploadPipeline
	logger *slog.Logger
}

func NewDocumentHandler(upload *pipeline.UploadPipeline) *DocumentHandler {
	return &DocumentHandler{
		upload: upload,
		logger: slog.Default(),
	}
}

// HandleUpload accepts one or more files under the multipart field
// "files" and runs the upload pipeline per file. Partial success
// returns 201 with a failure count in the message; all files failing
// returns 400 with the concatenated per-file errors.
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return ErrBadRequest()
	}

	files := form.File["files"]
	if len(files) == 0 {
		return NewError(fiber.StatusBadRequest, "No files provided")
	}

	var uploaded []types.DocumentResponse
	var uploadErrors []string

	for _, fileHeader := range files {
		h.logger.Info("processing upload", "filename", fileHeader.Filename)

		file, err := fileHeader.Open()
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: failed to open upload", fileHeader.Filename))
			continue
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: failed to read upload", fileHeader.Filename))
			continue
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "unknown"
		}

		doc, err := h.upload.Execute(c.Context(), content, fileHeader.Filename, map[string]any{
			"content_type": contentType,
			"size":         strconv.Itoa(len(content)),
		})
		if err != nil {
			h.logger.Error("upload failed", "filename", fileHeader.Filename, "error", err)
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: %s", fileHeader.Filename, uploadErrorMessage(err)))
			continue
		}

		uploaded = append(uploaded, types.DocumentResponse{
			ID:        doc.ID,
			Filename:  doc.Filename,
			Metadata:  doc.Metadata,
			CreatedAt: doc.CreatedAt,
		})
	}

	if len(uploaded) == 0 && len(uploadErrors) > 0 {
		return NewError(fiber.StatusBadRequest,
			"Failed to process files: "+strings.Join(uploadErrors, "; "))
	}

	message := fmt.Sprintf("Successfully uploaded %d document(s)", len(uploaded))
	if len(uploadErrors) > 0 {
		message += fmt.Sprintf(". Failed: %d document(s)", len(uploadErrors))
	}

	return c.Status(fiber.StatusCreated).JSON(types.UploadResponse{
		Success:   true,
		Documents: uploaded,
		Message:   message,
	})
}

// uploadErrorMessage keeps validation and storage reasons visible to the
// caller but hides internals behind a generic message for everything else.
func uploadErrorMessage(err error) string {
	var invalidErr types.InvalidDocumentError
	if errors.As(err, &invalidErr) {
		return invalidErr.Error()
	}
	var storageErr types.StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Error()
	}
	return "Unexpected error"
}
