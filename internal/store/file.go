// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileStore is the default [KVStore] backend: a single JSON snapshot file
// holding the whole entry map. Every mutation rewrites the file, which is
// acceptable for the vault's workload (a handful of small entries, no
// concurrent writers beyond "last write wins").
//
// With an empty or ":memory:" path the store keeps entries in memory only,
// which tests rely on.
type fileStore struct {
	path     string
	inMemory bool

	mu      sync.RWMutex
	entries map[string]string
}

// NewFileStore opens (or lazily creates) a JSON-file-backed [KVStore] at
// path. An empty path or ":memory:" yields a purely in-memory store.
func NewFileStore(path string) (KVStore, error) {
	if path == "" {
		path = ":memory:"
	}

	s := &fileStore{
		path:     path,
		inMemory: path == ":memory:" || path == "memory",
		entries:  make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", ErrEntryNotFound
	}
	return value, nil
}

func (s *fileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.entries[key]
	s.entries[key] = value
	if err := s.persist(); err != nil {
		// Roll the map back so memory and disk stay consistent.
		if existed {
			s.entries[key] = previous
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.entries[key]
	if !existed {
		return nil
	}
	delete(s.entries, key)
	if err := s.persist(); err != nil {
		s.entries[key] = previous
		return err
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}

func (s *fileStore) load() error {
	if s.inMemory {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read vault store file: %w", err)
	}

	entries := make(map[string]string)
	if err = json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode vault store file: %w", err)
	}

	s.entries = entries
	return nil
}

func (s *fileStore) persist() error {
	if s.inMemory {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create vault store dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vault store: %w", err)
	}

	// 0600: the file holds wrapped key material and encrypted credentials.
	if err = os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write vault store file: %w", err)
	}

	return nil
}
