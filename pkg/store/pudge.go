package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/recoilme/pudge"
)

// Pudge stores values in an embedded pudge database file.
type Pudge struct {
	db *pudge.Db
}

// OpenPudge opens or creates a pudge database at path.
func OpenPudge(path string) (*Pudge, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("pudge database path is required")
	}
	db, err := pudge.Open(path, &pudge.Config{
		FileMode:     0o644,
		DirMode:      0o755,
		SyncInterval: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("open pudge database %s: %w", path, err)
	}
	return &Pudge{db: db}, nil
}

func (p *Pudge) Get(key string) (string, bool, error) {
	var data []byte
	if err := p.db.Get(key, &data); err != nil {
		if errors.Is(err, pudge.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read table config %s: %w", key, err)
	}
	return string(data), true, nil
}

func (p *Pudge) Set(key, value string) error {
	if err := p.db.Set(key, []byte(value)); err != nil {
		return fmt.Errorf("write table config %s: %w", key, err)
	}
	return nil
}

func (p *Pudge) Delete(key string) error {
	if err := p.db.Delete(key); err != nil && !errors.Is(err, pudge.ErrKeyNotFound) {
		return fmt.Errorf("delete table config %s: %w", key, err)
	}
	return nil
}

func (p *Pudge) Keys() ([]string, error) {
	raw, err := p.db.Keys(nil, 0, 0, true)
	if err != nil {
		return nil, fmt.Errorf("list table configs: %w", err)
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)
	return keys, nil
}

func (p *Pudge) Clear() error {
	keys, err := p.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := p.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pudge) Close() error {
	return p.db.Close()
}
