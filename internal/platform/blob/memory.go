// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

type memoryObject struct {
	body        []byte
	contentType string
}

// MemoryStore keeps objects in a map. Used by tests and ephemeral setups.
type MemoryStore struct {
	mutex   sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

// NewMemory returns an empty in-memory store.
func NewMemory(publicBaseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject), baseURL: publicBaseURL}
}

func (store *MemoryStore) Driver() Driver { return DriverMemory }

func (store *MemoryStore) Put(context context.Context, key string, body io.Reader, options PutOptions) (Info, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Info{}, fmt.Errorf("blob: read body: %w", err)
	}

	store.mutex.Lock()
	store.objects[clean] = memoryObject{body: data, contentType: options.ContentType}
	store.mutex.Unlock()

	return Info{Key: clean, Size: int64(len(data)), ContentType: options.ContentType, URL: joinURL(store.baseURL, clean)}, nil
}

func (store *MemoryStore) Get(context context.Context, key string) (Info, io.ReadCloser, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return Info{}, nil, err
	}

	store.mutex.RLock()
	object, ok := store.objects[clean]
	store.mutex.RUnlock()
	if !ok {
		return Info{}, nil, ErrNotFound
	}

	info := Info{Key: clean, Size: int64(len(object.body)), ContentType: object.contentType, URL: joinURL(store.baseURL, clean)}
	return info, io.NopCloser(bytes.NewReader(object.body)), nil
}

func (store *MemoryStore) Delete(context context.Context, key string) (bool, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return false, err
	}

	store.mutex.Lock()
	defer store.mutex.Unlock()
	if _, ok := store.objects[clean]; !ok {
		return false, nil
	}
	delete(store.objects, clean)
	return true, nil
}

func (store *MemoryStore) URL(context context.Context, key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return joinURL(store.baseURL, clean), nil
}

// Keys lists stored keys. Tests use it to assert uploads.
func (store *MemoryStore) Keys() []string {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	keys := make([]string, 0, len(store.objects))
	for key := range store.objects {
		keys = append(keys, key)
	}
	return keys
}
