package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CorsAllowOrigins)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("data", "uploads"), cfg.Storage.UploadDir)
	assert.Equal(t, filepath.Join("data", "images.db"), cfg.Storage.DBPath)
	assert.Equal(t, 12, cfg.App.RecentImages)
	assert.Equal(t, 20, cfg.App.PaginateBy)
	assert.Equal(t, 150, cfg.App.ThumbSize)
	assert.Equal(t, 100, cfg.App.ThumbQuality)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("recent_images: 4\npaginate_by: 7\ndata_dir: /srv/images\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))

	t.Setenv("PAGINATE_BY", "9")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.App.RecentImages)
	assert.Equal(t, 9, cfg.App.PaginateBy)
	assert.Equal(t, "/srv/images/images.db", cfg.Storage.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsAllowOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"PAGINATE_BY", 0},
		{"RECENT_IMAGES", -1},
		{"THUMB_SIZE", 0},
		{"THUMB_QUALITY", 101},
		{"MAX_UPLOAD_SIZE", 0},
		{"STORAGE_BACKEND", "ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORAGE_BACKEND", "S3")
	v.Set("S3_BUCKET_NAME", "")

	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET_NAME")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
