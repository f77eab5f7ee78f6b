package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shaibs3/recipebook/internal/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested media object does not exist
var ErrNotFound = errors.New("media not found")

// Object is a stored file opened for reading
type Object struct {
	Content     io.ReadSeekCloser
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Store keeps uploaded media under flat names
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (*Object, error)
	Delete(ctx context.Context, name string) error
}

const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// NewStore creates the media store selected by the configuration
func NewStore(ctx context.Context, cfg config.MediaConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		logger.Info("using local media store", zap.String("dir", cfg.UploadDir))
		return NewLocalStore(cfg.UploadDir)
	case BackendMinio:
		logger.Info("using MinIO media store",
			zap.String("endpoint", cfg.MinioEndpoint), zap.String("bucket", cfg.MinioBucket))
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported media backend: %s", cfg.Backend)
	}
}
