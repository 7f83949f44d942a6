package handlers

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Export streams a ZIP with metadata.json and every original as
// files/<id>.<ext>. Files that cannot be read are logged and skipped.
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	images, err := h.images.All(ctx)
	if err != nil {
		h.abortWithError(c, "Failed to fetch metadata", err)
		return
	}

	filename := fmt.Sprintf("images-export-%s.zip", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Status(http.StatusOK)

	zipWriter := zip.NewWriter(c.Writer)
	defer zipWriter.Close()

	metaFile, err := zipWriter.Create("metadata.json")
	if err != nil {
		h.log.Error("Failed to create metadata entry", zap.Error(err))
		return
	}
	if err := json.NewEncoder(metaFile).Encode(images); err != nil {
		h.log.Error("Failed to encode metadata", zap.Error(err))
		return
	}

	for _, img := range images {
		entryName := fmt.Sprintf("files/%d", img.ID)
		if img.Ext != "" {
			entryName += "." + img.Ext
		}

		src, err := h.store.Open(ctx, img.FileKey)
		if err != nil {
			h.log.Warn("Skipping unreadable file", zap.Uint("id", img.ID), zap.Error(err))
			continue
		}

		w, err := zipWriter.Create(entryName)
		if err != nil {
			src.Close()
			h.log.Error("Failed to create zip entry", zap.String("entry", entryName), zap.Error(err))
			return
		}
		if _, err := io.Copy(w, src); err != nil {
			h.log.Error("Failed to copy content", zap.String("entry", entryName), zap.Error(err))
		}
		src.Close()
	}
}
