// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store persists encoded frames (ciphertexts, parameters, key
// material) content-addressed by their Keccak digest. Backends cover
// in-memory use, the local filesystem for CLI key management, and redis
// for shared deployments.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/fhebridge"
)

// Common errors.
var (
	ErrNotFound    = errors.New("frame not found")
	ErrStorageFull = errors.New("storage capacity exceeded")
	ErrCorrupted   = errors.New("stored frame does not match its digest")
)

// Store is content-addressed frame storage. Put returns the digest of
// the stored bytes; Get verifies the digest on the way out so a
// tampered backend never hands back silently corrupted material.
type Store interface {
	Put(ctx context.Context, frame []byte) (ids.ID, error)
	Get(ctx context.Context, id ids.ID) ([]byte, error)
	Has(ctx context.Context, id ids.ID) (bool, error)
	Delete(ctx context.Context, id ids.ID) error
	Close() error
}

// MemoryStore is an in-memory Store bounded by total byte capacity.
type MemoryStore struct {
	lock     sync.RWMutex
	frames   map[ids.ID][]byte
	capacity int64
	size     int64
}

// NewMemoryStore returns a MemoryStore holding at most capacityBytes of
// frame data.
func NewMemoryStore(capacityBytes int64) *MemoryStore {
	return &MemoryStore{
		frames:   make(map[ids.ID][]byte),
		capacity: capacityBytes,
	}
}

func (s *MemoryStore) Put(_ context.Context, frame []byte) (ids.ID, error) {
	id := fhebridge.ComputeDigest(frame)

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.frames[id]; ok {
		// Content-addressed, so an existing entry is already identical.
		return id, nil
	}
	if s.size+int64(len(frame)) > s.capacity {
		return ids.Empty, fmt.Errorf("%w: %d + %d > %d", ErrStorageFull, s.size, len(frame), s.capacity)
	}
	s.frames[id] = append([]byte(nil), frame...)
	s.size += int64(len(frame))
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id ids.ID) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	frame, ok := s.frames[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return append([]byte(nil), frame...), nil
}

func (s *MemoryStore) Has(_ context.Context, id ids.ID) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.frames[id]
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, id ids.ID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	frame, ok := s.frames[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.size -= int64(len(frame))
	delete(s.frames, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// verifyDigest checks a frame read back from a backend against the
// digest it was stored under.
func verifyDigest(id ids.ID, frame []byte) error {
	if fhebridge.ComputeDigest(frame) != id {
		return fmt.Errorf("%w: %s", ErrCorrupted, id)
	}
	return nil
}
