// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob stores uploaded images (individual photos, forum attachments)
behind a small object-store abstraction.

Architecture:

  - [Store] is the only type consumed by domain services.
  - Drivers: local filesystem (default, dev), S3-compatible (R2, MinIO, AWS),
    and in-memory (tests).
  - Keys are slash separated and never start with "/" or contain "..".
*/
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/config"
)

// # Drivers

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// # Errors

var (
	// ErrNotFound is returned by Get when no object exists under the key.
	ErrNotFound = errors.New("blob: object not found")

	// ErrInvalidKey is returned for empty, absolute or traversing keys.
	ErrInvalidKey = errors.New("blob: invalid key")
)

// # Contract

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored object.
type Info struct {
	Key         string `json:"key"`
	Size        int64  `json:"sizeBytes"`
	ContentType string `json:"contentType,omitempty"`
	URL         string `json:"url"`
}

// Store provides a thin S3-like abstraction used by higher layers.
type Store interface {
	// Put writes the object, replacing any previous content under key.
	Put(context context.Context, key string, body io.Reader, options PutOptions) (Info, error)

	// Get opens the object for reading. The caller closes the reader.
	Get(context context.Context, key string) (Info, io.ReadCloser, error)

	// Delete removes the object and reports whether it existed.
	Delete(context context.Context, key string) (bool, error)

	// URL returns the address clients use to fetch the object.
	URL(context context.Context, key string) (string, error)

	Driver() Driver
}

// # Factory

// Open builds the store selected by BLOB_DRIVER.
func Open(context context.Context, cfg config.BlobConfig) (Store, error) {
	switch Driver(cfg.Driver) {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.FSRoot, cfg.PublicBaseURL)
	case DriverS3:
		return NewS3(context, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PathStyle:       cfg.S3PathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
	case DriverMemory:
		return NewMemory(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("blob: unknown driver %q", cfg.Driver)
	}
}

// # Helpers

// imageExtensions maps the accepted image content types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension reports the file extension for an accepted image content type.
func ImageExtension(contentType string) (string, bool) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	extension, ok := imageExtensions[strings.ToLower(strings.TrimSpace(mediaType))]
	return extension, ok
}

// CleanKey validates a key and returns its normalised form.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return path.Clean(key), nil
}

// joinURL appends key to a public base such as "/media" or "https://cdn.example".
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
