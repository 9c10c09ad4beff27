// Package storage keeps uploaded resumes outside the database. Applications
// store only the object key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/job-board/internal/config"
)

var ErrNotFound = errors.New("object not found")

type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,9}$`)

// NewResumeKey returns a unique key for a resume uploaded to a job post,
// keeping the extension of the original file name when it is short and
// alphanumeric.
func NewResumeKey(jobPostID int64, filename string) string {
	d := time.Now().UTC()
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("resumes/%d/%04d/%02d/%s%s", jobPostID, d.Year(), d.Month(), uuid.New(), ext)
}

// New selects the configured backend.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Storage(client, cfg.S3Bucket), nil
	case "local", "":
		return NewLocalStorage(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
