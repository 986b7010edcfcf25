// Package localstore is the device-local key/value storage used for state
// that never reaches the backend.
package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var ErrInvalidKey = errors.New("localstore: invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (s *Memory) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Memory) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *Memory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Pruner is implemented by storages that can release their backing space
// once they hold nothing.
type Pruner interface {
	Prune() error
}

// File keeps one file per key inside a device directory. The directory is
// created by the first Set, so devices that only read leave nothing on disk.
type File struct {
	mu  sync.Mutex
	dir string
}

func NewFile(root, device string) (*File, error) {
	if !keyPattern.MatchString(device) {
		return nil, fmt.Errorf("%w: device %q", ErrInvalidKey, device)
	}
	return &File{dir: filepath.Join(root, device)}, nil
}

// Prune removes the device directory when it is empty. A directory that
// still holds values is left alone.
func (s *File) Prune() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("localstore: prune %s: %w", s.dir, err)
	}
	if len(entries) > 0 {
		return nil
	}
	if err := os.Remove(s.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("localstore: prune %s: %w", s.dir, err)
	}
	return nil
}

func (s *File) createTemp(key string) (*os.File, error) {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(s.dir, 0o750); err != nil {
			return nil, err
		}
		tmp, err = os.CreateTemp(s.dir, key+".*.tmp")
	}
	return tmp, err
}

func (s *File) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *File) Get(key string) ([]byte, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("localstore: read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes through a temp file so a crash never leaves a torn value.
func (s *File) Set(key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := s.createTemp(key)
	if err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	return nil
}

func (s *File) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("localstore: delete %s: %w", key, err)
	}
	return nil
}
