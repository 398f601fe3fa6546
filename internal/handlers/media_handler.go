package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/models"
	"storefront-service/internal/observability"
)

// maxImageSize caps individual image uploads at 8 MB.
const maxImageSize = 8 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// ImageStorage is the object-store surface the media endpoints use.
type ImageStorage interface {
	Put(ctx context.Context, filename string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, filename string) error
}

// MediaHandler serves product image uploads backing the bulk import flow.
type MediaHandler struct {
	store  ImageStorage
	logger *logrus.Logger
}

func NewMediaHandler(store ImageStorage, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{store: store, logger: logger}
}

// UploadImage godoc
// @Summary Upload a product image
// @Description Stores the image under its exact filename; re-uploading the same name replaces the object
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products/images/upload [post]
func (h *MediaHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "image exceeds the 8MB limit")
		return
	}

	filename := filepath.Base(fileHeader.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "unsupported image type "+ext)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	defer file.Close()

	url, err := h.store.Put(c.Request.Context(), filename, file, fileHeader.Size)
	observability.RecordImageUpload(err)
	if err != nil {
		h.logger.WithError(err).WithField("filename", filename).Error("Image upload failed")
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "failed to store image")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"filename": filename,
			"url":      url,
		},
	})
}

// DeleteImage godoc
// @Summary Delete a product image from object storage
// @Tags media
// @Produce json
// @Param filename path string true "Image filename"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products/images/{filename} [delete]
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." {
		respondError(c, http.StatusBadRequest, "MISSING_FILENAME", "filename is required")
		return
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "unsupported image type "+ext)
		return
	}

	if err := h.store.Delete(c.Request.Context(), filename); err != nil {
		h.logger.WithError(err).WithField("filename", filename).Error("Image delete failed")
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", "failed to delete image")
		return
	}

	msg := "image deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &msg})
}
