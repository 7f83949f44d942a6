package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"image_upload/config"
	"image_upload/db"
	"image_upload/frontend"
	"image_upload/models"
	"image_upload/storage"
	"image_upload/thumbnail"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	h      *Handler
	images *db.Images
	store  *storage.Local
}

func defaultAppConfig() *config.AppConfig {
	return &config.AppConfig{
		RecentImages:  2,
		PaginateBy:    2,
		ThumbSize:     32,
		ThumbQuality:  90,
		MaxUploadSize: 1 << 20,
	}
}

// setupEnv wires the handlers to a temp SQLite database and local storage.
// A nil thumbs uses the real thumbnailer.
func setupEnv(t *testing.T, cfg *config.AppConfig, thumbs Thumbnails) *testEnv {
	t.Helper()

	dir := t.TempDir()
	conn, err := db.Open(filepath.Join(dir, "test.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(conn) })

	store, err := storage.NewLocal(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	if thumbs == nil {
		thumbs = thumbnail.New(store, cfg.ThumbSize, cfg.ThumbQuality, zap.NewNop())
	}

	widget, err := frontend.UploadWidget()
	require.NoError(t, err)

	images := db.NewImages(conn)
	h := New(images, store, thumbs, cfg, widget, zap.NewNop())

	tmpl, err := frontend.Templates()
	require.NoError(t, err)
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	h.Register(router)

	return &testEnv{router: router, h: h, images: images, store: store}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartRequest builds a POST /upload/ with one file under field.
func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("comment", "test"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// seedImages stores n PNG originals with creation times one minute apart,
// oldest first, and returns them in insertion order.
func (e *testEnv) seedImages(t *testing.T, n int) []models.Image {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	data := testPNG(t, 40, 20)

	var seeded []models.Image
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("images/seed-%03d.png", i)
		size, err := e.store.Save(ctx, key, bytes.NewReader(data))
		require.NoError(t, err)

		img := models.Image{
			FileKey:   key,
			Name:      fmt.Sprintf("seed%03d", i),
			Ext:       "png",
			Size:      size,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, e.images.Create(ctx, &img))
		seeded = append(seeded, img)
	}
	return seeded
}

var imageLinkRe = regexp.MustCompile(`href="/image/(\d+)"`)

// linkedIDs returns the image ids linked from an HTML page, in page order.
func linkedIDs(t *testing.T, html string) []uint {
	t.Helper()

	var ids []uint
	for _, m := range imageLinkRe.FindAllStringSubmatch(html, -1) {
		n, err := strconv.ParseUint(m[1], 10, 64)
		require.NoError(t, err)
		ids = append(ids, uint(n))
	}
	return ids
}

// failingThumbs always fails, for error propagation tests.
type failingThumbs struct{}

func (failingThumbs) Get(ctx context.Context, img *models.Image) (*thumbnail.Thumbnail, error) {
	return nil, fmt.Errorf("mock thumbnail error")
}

func (failingThumbs) Pair(ctx context.Context, images []models.Image, amount int) ([]thumbnail.ImageWithThumb, error) {
	return nil, fmt.Errorf("mock thumbnail error")
}
