package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image_upload/config"
	"image_upload/db"
	"image_upload/models"
	"image_upload/storage"
	"image_upload/thumbnail"
)

// Thumbnails is the part of *thumbnail.Thumbnailer the handlers use.
type Thumbnails interface {
	Get(ctx context.Context, img *models.Image) (*thumbnail.Thumbnail, error)
	Pair(ctx context.Context, images []models.Image, amount int) ([]thumbnail.ImageWithThumb, error)
}

type Handler struct {
	images db.ImageRepository
	store  storage.Storage
	thumbs Thumbnails
	cfg    *config.AppConfig
	log    *zap.Logger

	// uploadWidget is injected into the upload page as is.
	uploadWidget template.HTML
}

func New(images db.ImageRepository, store storage.Storage, thumbs Thumbnails,
	cfg *config.AppConfig, uploadWidget template.HTML, log *zap.Logger) *Handler {
	return &Handler{
		images:       images,
		store:        store,
		thumbs:       thumbs,
		cfg:          cfg,
		log:          log,
		uploadWidget: uploadWidget,
	}
}

// Register mounts every route of the service on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/upload/")
	})
	r.GET("/health", h.HealthCheck)

	r.GET("/upload/", h.UploadPage)
	r.POST("/upload/", h.Upload)
	r.GET("/image/:ref", h.Detail)
	r.GET("/browse/", h.Browse)
	r.GET("/media/*key", h.Media)

	api := r.Group("/api")
	{
		api.GET("/images", h.ListImages)
		api.GET("/export", h.Export)
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not found")
	c.Abort()
}

// abortWithError answers 404 for missing records and 500 for everything else.
func (h *Handler) abortWithError(c *gin.Context, msg string, err error) {
	if errors.Is(err, db.ErrNotFound) {
		notFound(c)
		return
	}

	h.log.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
	c.Abort()
}
