package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// parseRef splits "12" or "12.png" into the id and the optional extension.
func parseRef(ref string) (id uint, ext string, ok bool) {
	idPart := ref
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		idPart, ext = ref[:i], ref[i+1:]
	}
	n, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || n == 0 {
		return 0, "", false
	}
	return uint(n), ext, true
}

// Detail renders the detail page of an image, or streams its bytes when the
// route carries an extension matching the stored one.
func (h *Handler) Detail(c *gin.Context) {
	id, ext, ok := parseRef(c.Param("ref"))
	if !ok {
		notFound(c)
		return
	}

	ctx := c.Request.Context()
	img, err := h.images.Get(ctx, id)
	if err != nil {
		h.abortWithError(c, "Failed to load image", err)
		return
	}

	if ext != "" {
		if ext != img.Ext {
			notFound(c)
			return
		}

		file, err := h.store.Open(ctx, img.FileKey)
		if err != nil {
			h.abortWithError(c, "Failed to open image file", err)
			return
		}
		defer file.Close()

		c.DataFromReader(http.StatusOK, img.Size, "image/"+ext, file, nil)
		return
	}

	fileURL := h.store.URL(img.FileKey)
	// Without an extension /image/<id>. is the HTML page, not the bytes.
	rawURL := fileURL
	if img.Ext != "" {
		rawURL = "/image/" + strconv.FormatUint(uint64(img.ID), 10) + "." + img.Ext
	}

	c.HTML(http.StatusOK, "detail.html", gin.H{
		"Title":   img.Filename(),
		"Image":   img,
		"FileURL": fileURL,
		"RawURL":  rawURL,
	})
}
