package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"image_upload/metrics"
	"image_upload/models"
)

const uploadField = "files[]"

type uploadResponse struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ThumbnailURL string `json:"thumbnail_url"`
	URL          string `json:"url"`
	ID           uint   `json:"id"`
	Ext          string `json:"ext"`
}

// splitExt splits "photo.jpeg" into "photo" and ".jpeg". Leading dots do not
// start an extension, so ".hidden" has none.
func splitExt(filename string) (string, string) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	if strings.Trim(base, ".") == "" {
		return filename, ""
	}
	return base, ext
}

// Upload stores the last file of the files[] field, records it and answers
// with a one-element JSON array describing it.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "Upload exceeds %d bytes.", h.cfg.MaxUploadSize)
			return
		}
	}
	if err != nil || form == nil || len(form.File) == 0 {
		c.String(http.StatusBadRequest, "No files were attached with request.")
		return
	}

	headers := form.File[uploadField]
	if len(headers) == 0 {
		c.String(http.StatusBadRequest, "Missing %s field.", uploadField)
		return
	}
	// Like a form lookup, a repeated field yields its last value.
	fileHeader := headers[len(headers)-1]

	ctx := c.Request.Context()
	name, ext := splitExt(fileHeader.Filename)
	key := fmt.Sprintf("images/%s%s", uuid.New().String(), ext)

	src, err := fileHeader.Open()
	if err != nil {
		h.abortWithError(c, "Failed to open uploaded file", err)
		return
	}
	defer src.Close()

	size, err := h.store.Save(ctx, key, src)
	if err != nil {
		h.abortWithError(c, "Failed to save file", err)
		return
	}

	img := &models.Image{
		FileKey: key,
		Name:    name,
		Ext:     strings.TrimPrefix(ext, "."),
		Size:    size,
	}
	if err := h.images.Create(ctx, img); err != nil {
		if delErr := h.store.Delete(ctx, key); delErr != nil {
			h.log.Warn("Failed to remove orphaned file", zap.String("key", key), zap.Error(delErr))
		}
		h.abortWithError(c, "Failed to save metadata", err)
		return
	}

	metrics.ImagesUploaded.Inc()
	metrics.UploadedBytes.Add(float64(size))
	h.log.Info("Image uploaded",
		zap.Uint("id", img.ID),
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", size))

	thumb, err := h.thumbs.Get(ctx, img)
	if err != nil {
		h.abortWithError(c, "Failed to generate thumbnail", err)
		return
	}

	c.JSON(http.StatusOK, []uploadResponse{{
		Name:         img.Name,
		Size:         img.Size,
		ThumbnailURL: thumb.URL,
		URL:          h.store.URL(img.FileKey),
		ID:           img.ID,
		Ext:          img.Ext,
	}})
}

// UploadPage shows the upload form with the most recent images.
func (h *Handler) UploadPage(c *gin.Context) {
	ctx := c.Request.Context()

	recent, err := h.images.Recent(ctx, h.cfg.RecentImages)
	if err != nil {
		h.abortWithError(c, "Failed to load recent images", err)
		return
	}

	pairs, err := h.thumbs.Pair(ctx, recent, h.cfg.RecentImages)
	if err != nil {
		h.abortWithError(c, "Failed to load thumbnails", err)
		return
	}

	c.HTML(http.StatusOK, "upload.html", gin.H{
		"Title":            "Upload",
		"JsTmpl":           h.uploadWidget,
		"ImagesWithThumbs": pairs,
	})
}
