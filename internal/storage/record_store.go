package storage

import (
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"os"
	"path/filepath"
	"pilot/internal/models"
	"pilot/internal/providers"
	"pilot/internal/storage/interfaces"
	"pilot/internal/structures"
	"sort"
	"sync"
	"time"
)

const (
	CollectionEntries     = "entries"
	CollectionProfile     = "profile"
	CollectionChatThreads = "chat_threads"
)

type RecordStoreInterface interface {
	PutEntry(ctx context.Context, entry models.Entry) error
	ListEntries(ctx context.Context) ([]models.Entry, error)
	GetEntry(ctx context.Context, date string) (*models.Entry, error)
	DeleteEntry(ctx context.Context, date string) error
	MarkCompleted(ctx context.Context, date string, completedAt time.Time) error

	GetProfile(ctx context.Context) (models.Profile, error)
	PutProfile(ctx context.Context, profile models.Profile) error
	UpdateProfile(ctx context.Context, mutator func(p *models.Profile)) (models.Profile, error)

	ListChatThreads(ctx context.Context) ([]models.ChatThread, error)
	GetChatThread(ctx context.Context, date string) (*models.ChatThread, error)
	PutChatThread(ctx context.Context, thread models.ChatThread) error

	WipeAll(ctx context.Context) error
	Close()
}

// RecordStore keeps each collection in its own JSON file under the data dir.
// Every write encodes the whole new collection before touching disk, then
// replaces the file atomically; a failure at any step leaves the previous
// file and the cache as they were.
type RecordStore struct {
	dir                string
	fileMode           os.FileMode
	defaultChatCredits int
	compressor         interfaces.CompressorInterface
	cache              providers.CacheProviderInterface
	logger             providers.Logger
	metrics            providers.MetricsProviderInterface
	now                func() time.Time

	entriesMu sync.Mutex
	profileMu sync.Mutex
	threadsMu sync.Mutex
}

func NewRecordStore(conf *structures.Config, compressor interfaces.CompressorInterface, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) (RecordStoreInterface, error) {
	if err := os.MkdirAll(conf.Persistence.DataDir, 0700); err != nil {
		return nil, &models.PersistenceError{Op: "init", Collection: "data dir", Err: err}
	}
	mode := os.FileMode(conf.Persistence.FileMode)
	if mode == 0 {
		mode = 0600
	}
	logger.Infof(providers.TypeStore, "Record store opened at %s", conf.Persistence.DataDir)
	return &RecordStore{
		dir:                conf.Persistence.DataDir,
		fileMode:           mode,
		defaultChatCredits: conf.Quota.FreeChatCredits,
		compressor:         compressor,
		cache:              cache,
		logger:             logger,
		metrics:            metrics,
		now:                time.Now,
	}, nil
}

func (s *RecordStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json"+s.compressor.Ext())
}

// --- entries ---

func (s *RecordStore) PutEntry(ctx context.Context, entry models.Entry) error {
	if !models.ValidDateKey(entry.Date) {
		return models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("entry date %q must be YYYY-MM-DD", entry.Date), nil)
	}
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := s.loadEntries()
	if err != nil {
		return err
	}

	next := make([]models.Entry, 0, len(entries)+1)
	for _, e := range entries {
		if e.Date != entry.Date {
			next = append(next, e)
		}
	}
	next = append(next, entry.Clone())
	return s.saveEntries(next)
}

func (s *RecordStore) ListEntries(ctx context.Context) ([]models.Entry, error) {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()
	return s.loadEntries()
}

func (s *RecordStore) GetEntry(ctx context.Context, date string) (*models.Entry, error) {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()

	entries, err := s.loadEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Date == date {
			found := e.Clone()
			return &found, nil
		}
	}
	return nil, nil
}

func (s *RecordStore) DeleteEntry(ctx context.Context, date string) error {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()

	entries, err := s.loadEntries()
	if err != nil {
		return err
	}
	next := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date != date {
			next = append(next, e)
		}
	}
	if len(next) == len(entries) {
		return nil
	}
	return s.saveEntries(next)
}

// MarkCompleted completes the entry for date. Missing or already completed entries are left alone,
// so completedAt is written exactly once.
func (s *RecordStore) MarkCompleted(ctx context.Context, date string, completedAt time.Time) error {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()

	entries, err := s.loadEntries()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].Date != date {
			continue
		}
		if entries[i].Completed && entries[i].CompletedAt != nil {
			return nil
		}
		at := completedAt
		entries[i].Completed = true
		entries[i].CompletedAt = &at
		return s.saveEntries(entries)
	}
	return nil
}

func (s *RecordStore) loadEntries() ([]models.Entry, error) {
	data, ok, err := s.load(CollectionEntries)
	if err != nil || !ok {
		return []models.Entry{}, err
	}
	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &models.PersistenceError{Op: "decode", Collection: CollectionEntries, Err: err}
	}

	// A hand-edited file may carry the same date twice; keep the last one.
	seen := make(map[string]int, len(entries))
	unique := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if idx, dup := seen[e.Date]; dup {
			s.logger.Warnf(providers.TypeStore, "Duplicate entry for %s collapsed", e.Date)
			unique[idx] = e
			continue
		}
		seen[e.Date] = len(unique)
		unique = append(unique, e)
	}
	return unique, nil
}

func (s *RecordStore) saveEntries(entries []models.Entry) error {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return s.save(CollectionEntries, entries)
}

// --- profile ---

func (s *RecordStore) GetProfile(ctx context.Context) (models.Profile, error) {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()
	return s.loadProfile()
}

func (s *RecordStore) PutProfile(ctx context.Context, profile models.Profile) error {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.save(CollectionProfile, profile)
}

// UpdateProfile runs load, mutate and save under the profile lock so that
// concurrent counters never lose an increment.
func (s *RecordStore) UpdateProfile(ctx context.Context, mutator func(p *models.Profile)) (models.Profile, error) {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}
	profile, err := s.loadProfile()
	if err != nil {
		return models.Profile{}, err
	}
	next := profile.Clone()
	mutator(&next)
	if err := s.save(CollectionProfile, next); err != nil {
		return models.Profile{}, err
	}
	return next.Clone(), nil
}

func (s *RecordStore) loadProfile() (models.Profile, error) {
	data, ok, err := s.load(CollectionProfile)
	if err != nil {
		return models.Profile{}, err
	}
	if !ok {
		return models.NewDefaultProfile(s.now(), s.defaultChatCredits), nil
	}
	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return models.Profile{}, &models.PersistenceError{Op: "decode", Collection: CollectionProfile, Err: err}
	}
	if profile.SubscriptionTier == "" {
		profile.SubscriptionTier = models.TierFree
	}
	return profile, nil
}

// --- chat threads ---

func (s *RecordStore) ListChatThreads(ctx context.Context) ([]models.ChatThread, error) {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()
	return s.loadThreads()
}

func (s *RecordStore) GetChatThread(ctx context.Context, date string) (*models.ChatThread, error) {
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()

	threads, err := s.loadThreads()
	if err != nil {
		return nil, err
	}
	for _, t := range threads {
		if t.TaskDate == date {
			found := t.Clone()
			return &found, nil
		}
	}
	return nil, nil
}

func (s *RecordStore) PutChatThread(ctx context.Context, thread models.ChatThread) error {
	if !models.ValidDateKey(thread.TaskDate) {
		return models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("chat thread date %q must be YYYY-MM-DD", thread.TaskDate), nil)
	}
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	threads, err := s.loadThreads()
	if err != nil {
		return err
	}
	next := make([]models.ChatThread, 0, len(threads)+1)
	for _, t := range threads {
		if t.TaskDate != thread.TaskDate {
			next = append(next, t)
		}
	}
	next = append(next, thread.Clone())
	sort.Slice(next, func(i, j int) bool { return next[i].TaskDate < next[j].TaskDate })
	return s.save(CollectionChatThreads, next)
}

func (s *RecordStore) loadThreads() ([]models.ChatThread, error) {
	data, ok, err := s.load(CollectionChatThreads)
	if err != nil || !ok {
		return []models.ChatThread{}, err
	}
	var threads []models.ChatThread
	if err := json.Unmarshal(data, &threads); err != nil {
		return nil, &models.PersistenceError{Op: "decode", Collection: CollectionChatThreads, Err: err}
	}
	return threads, nil
}

// --- wipe ---

func (s *RecordStore) WipeAll(ctx context.Context) error {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()
	s.profileMu.Lock()
	defer s.profileMu.Unlock()
	s.threadsMu.Lock()
	defer s.threadsMu.Unlock()

	var errs []error
	for _, collection := range []string{CollectionEntries, CollectionProfile, CollectionChatThreads} {
		s.cache.Del(collection)
		if err := os.Remove(s.path(collection)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, &models.PersistenceError{Op: "wipe", Collection: collection, Err: err})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Warnf(providers.TypeStore, "All collections wiped")
	return nil
}

func (s *RecordStore) Close() {
	s.compressor.Close()
}

// --- file plumbing ---

// load returns the decoded JSON bytes of a collection; ok is false when nothing is persisted yet.
func (s *RecordStore) load(collection string) ([]byte, bool, error) {
	if data, ok := s.cache.Get(collection); ok {
		return data, true, nil
	}

	raw, err := os.ReadFile(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &models.PersistenceError{Op: "read", Collection: collection, Err: err}
	}
	data, err := s.compressor.Decompress(raw)
	if err != nil {
		return nil, false, &models.PersistenceError{Op: "decompress", Collection: collection, Err: err}
	}
	s.cacheCollection(collection, data)
	return data, true, nil
}

func (s *RecordStore) save(collection string, v any) error {
	start := time.Now()

	data, err := json.Marshal(v)
	if err != nil {
		return s.fail("encode", collection, err)
	}
	payload, err := s.compressor.Compress(data)
	if err != nil {
		return s.fail("compress", collection, err)
	}
	s.cache.Del(collection)
	if err := writeFileAtomic(s.path(collection), payload, s.fileMode); err != nil {
		return s.fail("write", collection, err)
	}

	s.cacheCollection(collection, data)
	s.metrics.ObservePersistenceDuration(collection, time.Since(start))
	s.logger.Debugf(providers.TypeStore, "Persisted %s (%d bytes)", collection, len(payload))
	return nil
}

// cacheCollection keeps the read cache in step with disk. A collection the cache
// refuses is served from the file until it fits again.
func (s *RecordStore) cacheCollection(collection string, data []byte) {
	if err := s.cache.Set(collection, data); err != nil {
		s.logger.Debugf(providers.TypeStore, "Collection %s not cached (%d bytes): %s", collection, len(data), err)
	}
}

func (s *RecordStore) fail(op, collection string, err error) error {
	s.metrics.IncPersistenceErrors(collection)
	s.logger.Errorf(providers.TypeStore, "Error while persisting %s (%s): %s", collection, op, err)
	return &models.PersistenceError{Op: op, Collection: collection, Err: err}
}

func writeFileAtomic(fileName string, data []byte, mode os.FileMode) error {
	tmpFile := fileName + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
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

	return os.Rename(tmpFile, fileName)
}
