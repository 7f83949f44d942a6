// Package thumbnail derives center-cropped square JPEG thumbnails from stored
// originals and keeps them in the same storage, keyed by size and quality.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"image_upload/metrics"
	"image_upload/models"
	"image_upload/storage"
)

// maxPixels caps decoded dimensions so a crafted header cannot force a huge
// allocation.
const maxPixels = 64 << 20

var ErrTooLarge = errors.New("image dimensions too large")

type Thumbnail struct {
	Key    string
	URL    string
	Width  int
	Height int
}

type ImageWithThumb struct {
	Image *models.Image
	Thumb *Thumbnail
}

type Thumbnailer struct {
	store   storage.Storage
	size    int
	quality int
	log     *zap.Logger
}

func New(store storage.Storage, size, quality int, log *zap.Logger) *Thumbnailer {
	return &Thumbnailer{store: store, size: size, quality: quality, log: log}
}

// Key is where the thumbnail of sourceKey lives, e.g.
// "thumbs/150x150/q100/images/<uuid>.jpg".
func (t *Thumbnailer) Key(sourceKey string) string {
	base := strings.TrimSuffix(sourceKey, path.Ext(sourceKey))
	return fmt.Sprintf("thumbs/%dx%d/q%d/%s.jpg", t.size, t.size, t.quality, base)
}

// Get returns the thumbnail of img, generating and storing it on first use.
func (t *Thumbnailer) Get(ctx context.Context, img *models.Image) (*Thumbnail, error) {
	key := t.Key(img.FileKey)
	thumb := &Thumbnail{Key: key, URL: t.store.URL(key), Width: t.size, Height: t.size}

	exists, err := t.store.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return thumb, nil
	}

	src, err := t.store.Open(ctx, img.FileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open original %s: %w", img.FileKey, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	if err := t.Generate(src, &buf); err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail for image %d: %w", img.ID, err)
	}
	if _, err := t.store.Save(ctx, key, &buf); err != nil {
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	metrics.ThumbnailsGenerated.Inc()
	t.log.Debug("Thumbnail generated",
		zap.Uint("image_id", img.ID),
		zap.String("key", key))

	return thumb, nil
}

// Pair returns each image with its thumbnail. A positive amount keeps only
// the first amount images.
func (t *Thumbnailer) Pair(ctx context.Context, images []models.Image, amount int) ([]ImageWithThumb, error) {
	if amount > 0 && len(images) > amount {
		images = images[:amount]
	}

	pairs := make([]ImageWithThumb, 0, len(images))
	for i := range images {
		thumb, err := t.Get(ctx, &images[i])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ImageWithThumb{Image: &images[i], Thumb: thumb})
	}
	return pairs, nil
}

// Generate decodes r, crops the largest centered square, scales it to the
// configured size and writes it to w as JPEG.
func (t *Thumbnailer) Generate(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to read image dimensions: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, t.size, t.size))
	// JPEG has no alpha, transparent areas become white.
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, CenterSquare(src.Bounds()), draw.Over, nil)

	if err := jpeg.Encode(w, dst, &jpeg.Options{Quality: t.quality}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}

// CenterSquare is the largest square centered in b.
func CenterSquare(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
