package session

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Keys of the client-state store.
const (
	TokenKey  = "library.jwt"
	UserKey   = "library.user"
	APIURLKey = "library.apiUrl"
)

// Store is a string key/value store for client state.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
}

// MemoryStore keeps client state in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*FileStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// FileStore keeps client state in a YAML file. Every write rewrites the
// whole file with mode 0600.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	loaded bool
}

// NewFileStore returns a store backed by path. The file is read lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.values = make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return ErrStoreRead.Err(err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return ErrStoreRead.MsgErr("unable to parse state file "+s.path, err)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.loaded = true
	return nil
}

func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return ErrStoreWrite.Err(err)
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return ErrStoreWrite.Err(err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return ErrStoreWrite.Err(err)
	}
	return nil
}

// Get returns the value for key. An unreadable file reads as empty.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	s.values[key] = value
	return s.save()
}

func (s *FileStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return err
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return s.save()
}
