// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/ids"

	"github.com/luxfi/fhebridge"
)

// FileStore persists frames under a directory, one file per digest.
// This is the natural home for CLI keys and parameters that outlive a
// process.
type FileStore struct {
	dir string
}

// NewFileStore opens (creating if needed) a file-backed store rooted at
// dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id ids.ID) string {
	return filepath.Join(s.dir, id.Hex()+".frame")
}

func (s *FileStore) Put(_ context.Context, frame []byte) (ids.ID, error) {
	id := fhebridge.ComputeDigest(frame)
	path := s.path(id)

	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	// Write-then-rename so a crash never leaves a partial frame under
	// the final name.
	tmp, err := os.CreateTemp(s.dir, "frame-*")
	if err != nil {
		return ids.Empty, fmt.Errorf("failed to create temp frame: %w", err)
	}
	if _, err := tmp.Write(frame); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return ids.Empty, fmt.Errorf("failed to write frame: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return ids.Empty, fmt.Errorf("failed to close frame: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return ids.Empty, fmt.Errorf("failed to place frame: %w", err)
	}
	return id, nil
}

func (s *FileStore) Get(_ context.Context, id ids.ID) ([]byte, error) {
	frame, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	if err := verifyDigest(id, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

func (s *FileStore) Has(_ context.Context, id ids.ID) (bool, error) {
	_, err := os.Stat(s.path(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Delete(_ context.Context, id ids.ID) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

func (s *FileStore) Close() error { return nil }
