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


// Package badger implements storage.KV on an embedded BadgerDB.
// Documents are stored under area-prefixed keys ("<area>:<key>"), carrying
// the same JSON payloads as the filesystem backend.
package badger

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/gurukul/storage"
)

// KV is a BadgerDB-backed document store.
type KV struct {
	backend *Backend
}

var _ storage.KV = (*KV)(nil)

// NewKV creates a document store over the given backend.
func NewKV(backend *Backend) *KV {
	return &KV{backend: backend}
}

// Open opens a BadgerDB document store at the given path.
func Open(path string) (*KV, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return NewKV(backend), nil
}

// OpenMemory opens an in-memory document store for testing.
func OpenMemory() (*KV, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return NewKV(backend), nil
}

// Get returns the document stored at (area, key).
func (kv *KV) Get(ctx context.Context, area, key string) ([]byte, error) {
	if err := kv.check(ctx, area, key); err != nil {
		return nil, err
	}

	var value []byte
	err := kv.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeKey(area, key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	}, false)

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores the document at (area, key), overwriting any prior value.
func (kv *KV) Put(ctx context.Context, area, key string, value []byte) error {
	if err := kv.check(ctx, area, key); err != nil {
		return err
	}

	return kv.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeKey(area, key), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes the document at (area, key).
func (kv *KV) Delete(ctx context.Context, area, key string) error {
	if err := kv.check(ctx, area, key); err != nil {
		return err
	}

	err := kv.backend.WithTx(func(tx *badger.Txn) error {
		// Badger deletes are blind; confirm existence first so callers get
		// the ErrNotFound contract.
		if _, err := tx.Get(makeKey(area, key)); err != nil {
			return err
		}
		if err := tx.Delete(makeKey(area, key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrKeyNotFound) {
		return storage.ErrNotFound
	}
	return err
}

// List returns all keys present in the area, sorted lexicographically.
func (kv *KV) List(ctx context.Context, area string) ([]string, error) {
	if err := kv.check(ctx, area, "-"); err != nil {
		return nil, err
	}

	prefix := makeKey(area, "")
	keys := []string{}
	err := kv.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			keys = append(keys, string(key[len(prefix):]))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

// Close closes the underlying database.
func (kv *KV) Close() error {
	return kv.backend.Close()
}

func (kv *KV) check(ctx context.Context, area, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if kv.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if area == "" || key == "" || strings.Contains(area, ":") {
		return storage.ErrInvalidKey
	}
	return nil
}

func makeKey(area, key string) []byte {
	return []byte(area + ":" + key)
}
