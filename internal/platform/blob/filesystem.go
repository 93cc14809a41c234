// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// FilesystemStore keeps objects as plain files under a root directory.
// The API server exposes the root read-only under the public base URL.
type FilesystemStore struct {
	root    string
	baseURL string
}

// NewFilesystem returns a filesystem-backed store rooted at root, creating it if needed.
func NewFilesystem(root, publicBaseURL string) (*FilesystemStore, error) {
	if root == "" {
		root = "./data/blobs"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create root: %w", err)
	}
	return &FilesystemStore{root: root, baseURL: publicBaseURL}, nil
}

// Root returns the directory served for this store.
func (store *FilesystemStore) Root() string { return store.root }

func (store *FilesystemStore) Driver() Driver { return DriverFilesystem }

func (store *FilesystemStore) pathFor(key string) (string, string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", "", err
	}
	return clean, filepath.Join(store.root, filepath.FromSlash(clean)), nil
}

func (store *FilesystemStore) Put(context context.Context, key string, body io.Reader, options PutOptions) (Info, error) {
	clean, dataPath, err := store.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return Info{}, fmt.Errorf("blob: create dir: %w", err)
	}

	// Stream into a temp file first so readers never see a partial object.
	temporary, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return Info{}, fmt.Errorf("blob: create temp: %w", err)
	}
	defer func() { _ = os.Remove(temporary.Name()) }()

	size, err := io.Copy(temporary, body)
	if closeErr := temporary.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Info{}, fmt.Errorf("blob: write %s: %w", clean, err)
	}
	if err := os.Rename(temporary.Name(), dataPath); err != nil {
		return Info{}, fmt.Errorf("blob: commit %s: %w", clean, err)
	}

	contentType := options.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(clean))
	}
	return Info{Key: clean, Size: size, ContentType: contentType, URL: joinURL(store.baseURL, clean)}, nil
}

func (store *FilesystemStore) Get(context context.Context, key string) (Info, io.ReadCloser, error) {
	clean, dataPath, err := store.pathFor(key)
	if err != nil {
		return Info{}, nil, err
	}
	file, err := os.Open(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, nil, ErrNotFound
	}
	if err != nil {
		return Info{}, nil, fmt.Errorf("blob: open %s: %w", clean, err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return Info{}, nil, fmt.Errorf("blob: stat %s: %w", clean, err)
	}
	info := Info{
		Key:         clean,
		Size:        stat.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(clean)),
		URL:         joinURL(store.baseURL, clean),
	}
	return info, file, nil
}

func (store *FilesystemStore) Delete(context context.Context, key string) (bool, error) {
	_, dataPath, err := store.pathFor(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("blob: delete: %w", err)
	}
	return true, nil
}

func (store *FilesystemStore) URL(context context.Context, key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return joinURL(store.baseURL, clean), nil
}
