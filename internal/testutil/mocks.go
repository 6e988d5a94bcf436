package testutil

import (
	"context"
	"pilot/internal/models"
	"pilot/internal/providers"
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

// Count returns how many lines were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts the calls tests care about.
type MockMetrics struct {
	mu                sync.Mutex
	Requests          int
	PersistenceErrors map[string]int
	Generations       map[string]int
	QuotaDenied       map[string]int
	ChatMessages      int
	AIFailures        int
	Streak            [2]int
	EntriesTotal      int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		PersistenceErrors: make(map[string]int),
		Generations:       make(map[string]int),
		QuotaDenied:       make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (m *MockMetrics) IncCacheHits(_ string)                                {}
func (m *MockMetrics) IncCacheMisses(_ string)                              {}
func (m *MockMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncPersistenceErrors(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceErrors[collection]++
}

func (m *MockMetrics) IncGenerations(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Generations[kind]++
}

func (m *MockMetrics) IncQuotaDenied(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuotaDenied[resource]++
}

func (m *MockMetrics) IncChatMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatMessages++
}

func (m *MockMetrics) ObserveAIDuration(_ string, _ time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if failed {
		m.AIFailures++
	}
}

func (m *MockMetrics) SetStreak(current, longest int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Streak = [2]int{current, longest}
}

func (m *MockMetrics) SetEntriesTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesTotal = count
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
	return nil
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
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

func (m *MockCompressor) Ext() string { return "" }
func (m *MockCompressor) Close()      { m.Closed = true }

// MockGenerator implements ai.Generator. Nil funcs fall back to fixed replies.
type MockGenerator struct {
	mu sync.Mutex

	GenerateTaskFn  func(ctx context.Context, mood models.Mood, note *string, recent []models.Entry) (models.TaskContent, error)
	DetectMoodFn    func(ctx context.Context, note string) (*models.MoodDetection, error)
	ChatFn          func(ctx context.Context, entry models.Entry, history []models.ChatMessage, message string) (string, error)
	WeeklyInsightFn func(ctx context.Context, entries []models.Entry) (string, error)

	GenerateCalls int
	DetectCalls   int
	ChatCalls     int
	InsightCalls  int
	LastRecent    []models.Entry
	LastHistory   []models.ChatMessage
}

func (m *MockGenerator) GenerateTask(ctx context.Context, mood models.Mood, note *string, recent []models.Entry) (models.TaskContent, error) {
	m.mu.Lock()
	m.GenerateCalls++
	m.LastRecent = recent
	m.mu.Unlock()
	if m.GenerateTaskFn != nil {
		return m.GenerateTaskFn(ctx, mood, note, recent)
	}
	return models.TaskContent{
		Task:       "Walk around the block for " + string(mood) + " energy",
		Reflection: "Small steps count.",
	}, nil
}

func (m *MockGenerator) DetectMood(ctx context.Context, note string) (*models.MoodDetection, error) {
	m.mu.Lock()
	m.DetectCalls++
	m.mu.Unlock()
	if m.DetectMoodFn != nil {
		return m.DetectMoodFn(ctx, note)
	}
	return &models.MoodDetection{Emotion: "calm", Category: "positive", Reasoning: "steady note", Confidence: "high"}, nil
}

func (m *MockGenerator) Chat(ctx context.Context, entry models.Entry, history []models.ChatMessage, message string) (string, error) {
	m.mu.Lock()
	m.ChatCalls++
	m.LastHistory = history
	m.mu.Unlock()
	if m.ChatFn != nil {
		return m.ChatFn(ctx, entry, history, message)
	}
	return "echo: " + message, nil
}

func (m *MockGenerator) WeeklyInsight(ctx context.Context, entries []models.Entry) (string, error) {
	m.mu.Lock()
	m.InsightCalls++
	m.mu.Unlock()
	if m.WeeklyInsightFn != nil {
		return m.WeeklyInsightFn(ctx, entries)
	}
	return "You showed up this week.", nil
}

func (m *MockGenerator) Calls() (generate, detect, chat, insight int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GenerateCalls, m.DetectCalls, m.ChatCalls, m.InsightCalls
}
