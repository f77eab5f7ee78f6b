package media

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// Uploader stores multipart files under collision-free names
type Uploader struct {
	store   Store
	logger  *zap.Logger
	uploads metric.Int64Counter
}

// NewUploader wraps store. A nil meter disables the upload counter.
func NewUploader(store Store, meter metric.Meter, logger *zap.Logger) (*Uploader, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("media")
	}
	uploads, err := meter.Int64Counter("media_uploads_total",
		metric.WithDescription("Uploaded media files by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload counter: %w", err)
	}
	return &Uploader{store: store, logger: logger.Named("uploader"), uploads: uploads}, nil
}

// StoredName builds the name a file is kept under: a fresh uuid followed
// by the base name of the original file.
func StoredName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		base = "upload"
	}
	return uuid.NewString() + "-" + base
}

// StoredNames returns a fresh stored name for every file
func StoredNames(files []*multipart.FileHeader) []string {
	names := make([]string, len(files))
	for i, fh := range files {
		names[i] = StoredName(fh.Filename)
	}
	return names
}

// Save writes one uploaded file under name
func (u *Uploader) Save(ctx context.Context, name string, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		u.record(ctx, "error")
		return fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	if err := u.store.Put(ctx, name, f, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		u.record(ctx, "error")
		return fmt.Errorf("failed to store upload %s: %w", fh.Filename, err)
	}
	u.record(ctx, "ok")
	u.logger.Debug("stored upload", zap.String("original", fh.Filename), zap.String("name", name))
	return nil
}

// SaveAll stores files[i] under names[i]. If one fails, the files
// already written are removed again.
func (u *Uploader) SaveAll(ctx context.Context, names []string, files []*multipart.FileHeader) error {
	if len(names) != len(files) {
		return fmt.Errorf("got %d names for %d files", len(names), len(files))
	}
	for i, fh := range files {
		if err := u.Save(ctx, names[i], fh); err != nil {
			u.Remove(ctx, names[:i]...)
			return err
		}
	}
	return nil
}

// Remove deletes stored files, logging any that could not be removed
func (u *Uploader) Remove(ctx context.Context, names ...string) {
	// cleanup runs after the request may have been cancelled
	ctx = context.WithoutCancel(ctx)
	for _, name := range names {
		if err := u.store.Delete(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
			u.logger.Warn("failed to remove upload", zap.String("name", name), zap.Error(err))
		}
	}
}

// Open returns a stored file
func (u *Uploader) Open(ctx context.Context, name string) (*Object, error) {
	return u.store.Get(ctx, name)
}

func (u *Uploader) record(ctx context.Context, status string) {
	u.uploads.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
