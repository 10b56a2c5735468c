// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package file implements storage.KV on the local filesystem:
// one JSON document per key, laid out as <root>/<area>/<key>.json.
// The filename is derived deterministically from the normalized key, so
// documents written by earlier deployments remain addressable.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/gurukul/storage"
)

const docExt = ".json"

// KV is a filesystem-backed document store.
type KV struct {
	root   string
	mu     sync.RWMutex
	closed bool
}

var _ storage.KV = (*KV)(nil)

// Open creates a filesystem KV rooted at dir, creating it if needed.
func Open(dir string) (*KV, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	return &KV{root: dir}, nil
}

// Get returns the document stored at (area, key).
func (kv *KV) Get(ctx context.Context, area, key string) ([]byte, error) {
	if err := kv.check(ctx, area, key); err != nil {
		return nil, err
	}

	kv.mu.RLock()
	defer kv.mu.RUnlock()

	data, err := os.ReadFile(kv.path(area, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put stores the document at (area, key), overwriting any prior value.
// The write goes through a temp file and rename so a crash mid-write never
// leaves a truncated document at the key.
func (kv *KV) Put(ctx context.Context, area, key string, value []byte) error {
	if err := kv.check(ctx, area, key); err != nil {
		return err
	}

	kv.mu.Lock()
	defer kv.mu.Unlock()

	dir := filepath.Join(kv.root, area)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+key+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, kv.path(area, key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Delete removes the document at (area, key).
func (kv *KV) Delete(ctx context.Context, area, key string) error {
	if err := kv.check(ctx, area, key); err != nil {
		return err
	}

	kv.mu.Lock()
	defer kv.mu.Unlock()

	err := os.Remove(kv.path(area, key))
	if os.IsNotExist(err) {
		return storage.ErrNotFound
	}
	return err
}

// List returns all keys present in the area, sorted lexicographically.
func (kv *KV) List(ctx context.Context, area string) ([]string, error) {
	if err := kv.check(ctx, area, "-"); err != nil {
		return nil, err
	}

	kv.mu.RLock()
	defer kv.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(kv.root, area))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, docExt) || strings.HasPrefix(name, ".") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, docExt))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close marks the store closed. Subsequent operations fail with
// storage.ErrStorageClosed.
func (kv *KV) Close() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.closed = true
	return nil
}

func (kv *KV) check(ctx context.Context, area, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	kv.mu.RLock()
	closed := kv.closed
	kv.mu.RUnlock()
	if closed {
		return storage.ErrStorageClosed
	}
	if area == "" || key == "" {
		return storage.ErrInvalidKey
	}
	// Keys are normalized fingerprints; anything with a path separator would
	// escape the area directory.
	if strings.ContainsAny(key, "/\\") || strings.ContainsAny(area, "/\\") {
		return storage.ErrInvalidKey
	}
	return nil
}

func (kv *KV) path(area, key string) string {
	return filepath.Join(kv.root, area, key+docExt)
}
