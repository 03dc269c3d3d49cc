package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/go-faster/errors"
)

// FileStore keeps one JSON document per browser, mapping record keys to values.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create record dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(browserID string) string {
	return filepath.Join(s.dir, browserID+".json")
}

func (s *FileStore) read(browserID string) (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path(browserID))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	doc := map[string]json.RawMessage{}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "decode records")
	}
	return doc, nil
}

func (s *FileStore) write(browserID string, doc map[string]json.RawMessage) error {
	if len(doc) == 0 {
		err := os.Remove(s.path(browserID))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrap(err, "remove records")
		}
		return nil
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode records")
	}
	tmp, err := os.CreateTemp(s.dir, browserID+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "write records")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path(browserID)); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "replace records")
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, browserID, key string) ([]byte, error) {
	if err := checkBrowserID(browserID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read(browserID)
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone([]byte(v)), nil
}

// Set requires value to be valid JSON.
func (s *FileStore) Set(_ context.Context, browserID, key string, value []byte) error {
	if err := checkBrowserID(browserID); err != nil {
		return err
	}
	if !json.Valid(value) {
		return errors.Errorf("record %s is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read(browserID)
	if err != nil {
		return err
	}
	doc[key] = slices.Clone(value)
	return s.write(browserID, doc)
}

func (s *FileStore) Delete(_ context.Context, browserID, key string) error {
	if err := checkBrowserID(browserID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read(browserID)
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.write(browserID, doc)
}

func (s *FileStore) Close() error {
	return nil
}
