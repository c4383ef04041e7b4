package testutil

import (
	"context"
	"errors"
	"pbcheck/internal/models"
	"pbcheck/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[uint64][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[uint64][]byte)}
}

func (m *MockCache) Get(key uint64) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key uint64, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts outcomes.
type MockMetrics struct {
	mu           sync.Mutex
	Requests     map[string]int
	CacheHits    int
	CacheMisses  int
	Fetches      map[string]int
	Parses       map[string]int // key: "strategy:outcome"
	Persists     int
	LastFetch    time.Time
	FetchLatency []time.Duration
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests: make(map[string]int),
		Fetches:  make(map[string]int),
		Parses:   make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncFetchTotal(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches[outcome]++
}
func (m *MockMetrics) ObserveFetchDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchLatency = append(m.FetchLatency, d)
}
func (m *MockMetrics) IncParseTotal(strategy, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Parses[strategy+":"+outcome]++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}
func (m *MockMetrics) SetLastFetch(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFetch = t
}

func (m *MockMetrics) FetchCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Fetches[outcome]
}

var ErrStoreUnavailable = errors.New("store unavailable")

// MockStore implements interfaces.KeyValueStore in memory.
type MockStore struct {
	mu           sync.Mutex
	Data         map[string]string
	FailSet      bool
	SetCalls     []string
	RestoreCalls int
	PersistCalls int
	RestoreErr   error
	PersistErr   error
}

func NewMockStore() *MockStore {
	return &MockStore{Data: make(map[string]string)}
}

func (m *MockStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, key)
	if m.FailSet {
		return ErrStoreUnavailable
	}
	m.Data[key] = value
	return nil
}

func (m *MockStore) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls++
	return m.RestoreErr
}

func (m *MockStore) Persist() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
	return m.PersistErr
}

// Persisted returns PersistCalls under the lock.
func (m *MockStore) Persisted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PersistCalls
}

// MockFetcher returns Body or Err and counts calls.
type MockFetcher struct {
	mu    sync.Mutex
	Body  []byte
	Err   error
	Delay time.Duration
	calls int
}

func (m *MockFetcher) Fetch(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	body, err, delay := m.Body, m.Err, m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return body, err
}

func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockParser returns Drawing or Err regardless of input.
type MockParser struct {
	Drawing models.Drawing
	Err     error
}

func (m *MockParser) Parse(_ []byte) (models.Drawing, error) {
	return m.Drawing, m.Err
}
