package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"payqr/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when a save is already running.
	ErrBusy = errors.New("a save is already in progress")
	// ErrNoImage is returned when there is no rendered image to save.
	ErrNoImage = errors.New("no image to save")
	// ErrInvalidKey is returned for object keys outside the gallery prefix.
	ErrInvalidKey = errors.New("object key is outside the gallery")
)

// ArtifactSource supplies the image to save.
type ArtifactSource interface {
	Artifact(ctx context.Context) ([]byte, error)
}

// Item describes one saved image.
type Item struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// SaveResult describes a completed save.
type SaveResult struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	ETag string `json:"etag"`
}

// Service saves rendered images to object storage.
type Service struct {
	client storage.Client
	bucket string
	prefix string
	source ArtifactSource
	logger *zap.Logger
	busy   atomic.Bool
	now    func() time.Time
}

// NewService creates a new gallery service.
func NewService(client storage.Client, bucket, prefix string, source ArtifactSource, logger *zap.Logger) *Service {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "gallery"
	}
	return &Service{
		client: client,
		bucket: bucket,
		prefix: prefix,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Busy reports whether a save is running.
func (s *Service) Busy() bool {
	return s.busy.Load()
}

// Save uploads the current image. Only one save runs at a time; a concurrent
// call fails fast with ErrBusy.
func (s *Service) Save(ctx context.Context) (*SaveResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	img, err := s.source.Artifact(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	key := path.Join(s.prefix, now.Format("2006"), now.Format("01"), uuid.NewString()+".png")

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(img), int64(len(img)), minio.PutObjectOptions{
		ContentType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Info("Saved image to gallery", zap.String("key", key), zap.Int("size", len(img)))
	return &SaveResult{Key: key, Size: int64(len(img)), ETag: info.ETag}, nil
}

// List returns every saved image, oldest key first as reported by the store.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	items := []Item{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list gallery: %w", obj.Err)
		}
		items = append(items, Item{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return items, nil
}

// Get opens one saved image.
func (s *Service) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	return s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
}

// Remove deletes one saved image.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Purge deletes every saved image and returns how many were removed.
func (s *Service) Purge(ctx context.Context) (int, error) {
	items, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	objectsCh := make(chan minio.ObjectInfo, len(items))
	for _, it := range items {
		objectsCh <- minio.ObjectInfo{Key: it.Key}
	}
	close(objectsCh)

	var errs []error
	for rErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		s.logger.Warn("Failed to remove gallery object", zap.String("key", rErr.ObjectName), zap.Error(rErr.Err))
		errs = append(errs, fmt.Errorf("%s: %w", rErr.ObjectName, rErr.Err))
	}
	return len(items) - len(errs), errors.Join(errs...)
}

func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	s.logger.Info("Creating gallery bucket", zap.String("bucket", s.bucket))
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *Service) checkKey(key string) error {
	if !strings.HasPrefix(key, s.prefix+"/") || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
