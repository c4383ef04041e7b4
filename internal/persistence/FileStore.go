package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"pbcheck/internal/persistence/interfaces"
	"pbcheck/internal/providers"
	"pbcheck/internal/structures"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const storeVersion = 1

type storeFile struct {
	Version int               `json:"version"`
	Keys    map[string]string `json:"keys"`
}

// FileStore keeps all keys in memory and mirrors them to a single file.
// With write-through every Set is flushed before returning; otherwise Persist flushes dirty state.
type FileStore struct {
	mu           sync.RWMutex
	data         map[string]string
	dirty        bool
	path         string
	writeThrough bool
	compressor   interfaces.CompressorInterface
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
}

func NewFileStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.KeyValueStore {
	return &FileStore{
		data:         make(map[string]string),
		path:         conf.Persistence.FilePath,
		writeThrough: conf.Persistence.WriteThrough,
		compressor:   compressor,
		logger:       logger,
		metrics:      metrics,
	}
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[key]
	s.data[key] = value
	s.dirty = true
	if !s.writeThrough {
		return nil
	}

	if err := s.saveLocked(); err != nil {
		if existed {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return fmt.Errorf("persist key %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.saveLocked()
}

func (s *FileStore) saveLocked() error {
	start := time.Now()
	defer func() {
		s.metrics.ObservePersistenceDuration(time.Since(start))
	}()

	jsonData, err := json.Marshal(storeFile{Version: storeVersion, Keys: s.data})
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, s.path); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Restore loads the store file. A missing file means an empty store.
func (s *FileStore) Restore() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	jsonData, err := s.compressor.Decompress(raw)
	if err != nil {
		// the file may predate a change of persistence.compress
		if !json.Valid(raw) {
			return fmt.Errorf("decompress %s: %w", s.path, err)
		}
		s.logger.Warnf(providers.TypeApp, "Store file %s is not compressed, reading as plain JSON", s.path)
		jsonData = raw
	}

	var file storeFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	if file.Version > storeVersion {
		return fmt.Errorf("store file version %d is newer than supported %d", file.Version, storeVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string, len(file.Keys))
	for k, v := range file.Keys {
		s.data[k] = v
	}
	s.dirty = false
	s.logger.Infof(providers.TypeApp, "Restored %d keys from %s", len(s.data), s.path)
	return nil
}
