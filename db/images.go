package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"image_upload/models"
)

var ErrNotFound = errors.New("image not found")

// newestFirst is a strict order: ids break created_at ties.
const newestFirst = "created_at desc, id desc"

// ImageRepository is the persistence boundary for Image records.
type ImageRepository interface {
	Create(ctx context.Context, img *models.Image) error
	Get(ctx context.Context, id uint) (*models.Image, error)
	Recent(ctx context.Context, limit int) ([]models.Image, error)
	Count(ctx context.Context) (int64, error)
	Page(ctx context.Context, offset, limit int) ([]models.Image, error)
	All(ctx context.Context) ([]models.Image, error)
}

type Images struct {
	db *gorm.DB
}

var _ ImageRepository = (*Images)(nil)

func NewImages(db *gorm.DB) *Images {
	return &Images{db: db}
}

func (r *Images) Create(ctx context.Context, img *models.Image) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

func (r *Images) Get(ctx context.Context, id uint) (*models.Image, error) {
	var img models.Image
	err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}
	return &img, nil
}

// Recent returns at most limit images, newest first.
func (r *Images) Recent(ctx context.Context, limit int) ([]models.Image, error) {
	return r.Page(ctx, 0, limit)
}

func (r *Images) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Image{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return n, nil
}

func (r *Images) Page(ctx context.Context, offset, limit int) ([]models.Image, error) {
	images := []models.Image{}
	err := r.db.WithContext(ctx).
		Order(newestFirst).
		Limit(limit).
		Offset(offset).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

func (r *Images) All(ctx context.Context) ([]models.Image, error) {
	images := []models.Image{}
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}
