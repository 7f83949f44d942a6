package models

import (
	"time"

	"gorm.io/gorm"
)

// Image is one uploaded original. Ext is stored without its leading period.
type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FileKey   string    `gorm:"not null;uniqueIndex" json:"file_key"` // storage key of the original
	Name      string    `gorm:"not null" json:"name"`                 // original filename without extension
	Ext       string    `gorm:"not null" json:"ext"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Filename rebuilds the uploaded name, e.g. "cat.png".
func (i *Image) Filename() string {
	if i.Ext == "" {
		return i.Name
	}
	return i.Name + "." + i.Ext
}

// MimeType is "image/" + ext, as served by the raw detail route.
func (i *Image) MimeType() string {
	return "image/" + i.Ext
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Image{})
}
