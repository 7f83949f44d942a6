package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	S3      S3Config
	App     AppConfig
}

type ServerConfig struct {
	Host             string
	Port             string
	CorsAllowOrigins []string
	SSL              bool
}

type StorageConfig struct {
	Backend   string // "local" or "s3"
	DataDir   string
	UploadDir string
	DBPath    string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type AppConfig struct {
	RecentImages  int
	PaginateBy    int
	ThumbSize     int
	ThumbQuality  int
	MaxUploadSize int64
	LogLevel      string
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "")
	v.SetDefault("SERVER_PORT", "8081")
	v.SetDefault("CORS_ALLOW_ORIGINS", []string{"*"})
	v.SetDefault("SSL", false)

	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("DB_PATH", "")

	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET_NAME", "images")
	v.SetDefault("S3_REGION", "us-east-1")

	v.SetDefault("RECENT_IMAGES", 12)
	v.SetDefault("PAGINATE_BY", 20)
	v.SetDefault("THUMB_SIZE", 150)
	v.SetDefault("THUMB_QUALITY", 100)
	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads defaults, an optional config.yaml (from CONFIG_DIR or the working
// directory) and the environment, in increasing priority.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	dataDir := v.GetString("DATA_DIR")
	dbPath := v.GetString("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "images.db")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:             v.GetString("SERVER_HOST"),
			Port:             v.GetString("SERVER_PORT"),
			CorsAllowOrigins: splitList(v.GetStringSlice("CORS_ALLOW_ORIGINS")),
			SSL:              v.GetBool("SSL"),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(v.GetString("STORAGE_BACKEND")),
			DataDir:   dataDir,
			UploadDir: filepath.Join(dataDir, "uploads"),
			DBPath:    dbPath,
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
		},
		App: AppConfig{
			RecentImages:  v.GetInt("RECENT_IMAGES"),
			PaginateBy:    v.GetInt("PAGINATE_BY"),
			ThumbSize:     v.GetInt("THUMB_SIZE"),
			ThumbQuality:  v.GetInt("THUMB_QUALITY"),
			MaxUploadSize: v.GetInt64("MAX_UPLOAD_SIZE"),
			LogLevel:      v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch {
	case c.App.RecentImages <= 0:
		return fmt.Errorf("RECENT_IMAGES must be positive, got %d", c.App.RecentImages)
	case c.App.PaginateBy <= 0:
		return fmt.Errorf("PAGINATE_BY must be positive, got %d", c.App.PaginateBy)
	case c.App.ThumbSize <= 0:
		return fmt.Errorf("THUMB_SIZE must be positive, got %d", c.App.ThumbSize)
	case c.App.ThumbQuality < 1 || c.App.ThumbQuality > 100:
		return fmt.Errorf("THUMB_QUALITY must be within 1..100, got %d", c.App.ThumbQuality)
	case c.App.MaxUploadSize <= 0:
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.App.MaxUploadSize)
	case len(c.Server.CorsAllowOrigins) == 0:
		return fmt.Errorf("CORS_ALLOW_ORIGINS must list at least one origin")
	}

	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.S3.BucketName == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}
