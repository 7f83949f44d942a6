package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"image_upload/pagination"
	"image_upload/thumbnail"
)

// loadPage resolves the "page" query value against the current image count
// and pairs the images of that page with their thumbnails.
func (h *Handler) loadPage(ctx context.Context, rawPage string) ([]thumbnail.ImageWithThumb, pagination.Page, error) {
	count, err := h.images.Count(ctx)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	page := pagination.New(int(count), h.cfg.PaginateBy).Page(rawPage)

	images, err := h.images.Page(ctx, page.Offset(), page.PerPage)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	pairs, err := h.thumbs.Pair(ctx, images, 0)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return pairs, page, nil
}

// Browse renders every image newest first, PAGINATE_BY per page.
func (h *Handler) Browse(c *gin.Context) {
	pairs, page, err := h.loadPage(c.Request.Context(), c.Query("page"))
	if err != nil {
		h.abortWithError(c, "Failed to browse images", err)
		return
	}

	c.HTML(http.StatusOK, "browse.html", gin.H{
		"Title":  "Browse",
		"Images": pairs,
		"Page":   page,
	})
}

type imageItem struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Ext          string    `json:"ext"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListImages is the JSON form of Browse.
func (h *Handler) ListImages(c *gin.Context) {
	pairs, page, err := h.loadPage(c.Request.Context(), c.Query("page"))
	if err != nil {
		h.abortWithError(c, "Failed to list images", err)
		return
	}

	items := make([]imageItem, 0, len(pairs))
	for _, p := range pairs {
		items = append(items, imageItem{
			ID:           p.Image.ID,
			Name:         p.Image.Name,
			Ext:          p.Image.Ext,
			Size:         p.Image.Size,
			URL:          h.store.URL(p.Image.FileKey),
			ThumbnailURL: p.Thumb.URL,
			CreatedAt:    p.Image.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"images": items,
		"page":   page,
	})
}
