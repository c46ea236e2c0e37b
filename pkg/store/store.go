// Package store persists table configurations in a durable key-value store.
package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Backend names a store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendPudge  Backend = "pudge"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendFile, BackendPudge, BackendMemory}

// ErrUnknownBackend is returned by Open for unsupported backends.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is a string key-value store. Get reports false when nothing is
// stored under key.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	Clear() error
	Close() error
}

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Backends, b) {
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Open opens the store for a backend. path is a directory for the file
// backend and a database file for pudge; memory ignores it.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(path)
	case BackendPudge:
		return OpenPudge(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
