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
	"pilot/internal/structures"
	"pilot/internal/testutil"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeConfig(dir string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{DataDir: dir, FileMode: 0600},
		Quota:       structures.QuotaConfig{FreeDailyGenerations: 1, FreeChatCredits: 3},
	}
}

func newTestStore(t *testing.T, compressor *testutil.MockCompressor) (*RecordStore, *testutil.MockMetrics) {
	t.Helper()
	metrics := testutil.NewMockMetrics()
	s, err := NewRecordStore(storeConfig(t.TempDir()), compressor, testutil.NewMockCache(), &testutil.MockLogger{}, metrics)
	require.NoError(t, err)
	return s.(*RecordStore), metrics
}

func testEntry(date, task string) models.Entry {
	return models.Entry{
		ID:          "id-" + date,
		Date:        date,
		Mood:        models.MoodHopeful,
		Task:        task,
		Reflection:  "reflect",
		GeneratedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRecordStore_ListEntries_EmptyStore(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	entries, err := s.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordStore_PutEntry_ReplacesSameDate(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	ctx := context.Background()

	require.NoError(t, s.PutEntry(ctx, testEntry("2024-03-01", "first")))
	require.NoError(t, s.PutEntry(ctx, testEntry("2024-03-02", "other")))
	before, err := s.ListEntries(ctx)
	require.NoError(t, err)

	require.NoError(t, s.PutEntry(ctx, testEntry("2024-03-01", "replaced")))
	after, err := s.ListEntries(ctx)
	require.NoError(t, err)

	assert.Len(t, after, len(before))
	got, err := s.GetEntry(ctx, "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "replaced", got.Task)
}

func TestRecordStore_PutEntry_RejectsMalformedDate(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	err := s.PutEntry(context.Background(), testEntry("03/01/2024", "x"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRecordStore_GetEntry_Absent(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	got, err := s.GetEntry(context.Background(), "2024-03-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordStore_DeleteEntry_Idempotent(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	ctx := context.Background()
	require.NoError(t, s.PutEntry(ctx, testEntry("2024-03-01", "x")))

	require.NoError(t, s.DeleteEntry(ctx, "2024-03-01"))
	require.NoError(t, s.DeleteEntry(ctx, "2024-03-01"))

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordStore_MarkCompleted(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	ctx := context.Background()
	require.NoError(t, s.PutEntry(ctx, testEntry("2024-03-01", "x")))

	first := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	require.NoError(t, s.MarkCompleted(ctx, "2024-03-01", first))
	require.NoError(t, s.MarkCompleted(ctx, "2024-03-01", first.Add(time.Hour)))

	got, err := s.GetEntry(ctx, "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, first.Equal(*got.CompletedAt))
}

func TestRecordStore_MarkCompleted_MissingDateIsNoop(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	ctx := context.Background()
	require.NoError(t, s.MarkCompleted(ctx, "2024-03-01", time.Now()))

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = os.Stat(s.path(CollectionEntries))
	assert.True(t, os.IsNotExist(err))
}

func TestRecordStore_GetProfile_Default(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	p, err := s.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, p.SubscriptionTier)
	assert.Equal(t, 3, p.ChatCredits)
	assert.Equal(t, []string{models.DefaultVoice}, p.UnlockedVoices)
	assert.Equal(t, models.DefaultTheme, p.SelectedTheme)
}

func TestRecordStore_UpdateProfile_ConcurrentIncrements(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateProfile(ctx, func(p *models.Profile) { p.TotalChatsSent++ })
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, p.TotalChatsSent)
}

func TestRecordStore_ChatThreads_ReplaceByDate(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	ctx := context.Background()

	thread := models.ChatThread{ID: "t1", TaskDate: "2024-03-01", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.PutChatThread(ctx, thread))

	thread.Messages = append(thread.Messages, models.ChatMessage{ID: "m1", Role: models.RoleUser, Content: "hi"})
	require.NoError(t, s.PutChatThread(ctx, thread))

	threads, err := s.ListChatThreads(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Len(t, threads[0].Messages, 1)

	missing, err := s.GetChatThread(ctx, "2024-03-02")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordStore_WipeAll(t *testing.T) {
	s, _ := newTestStore(t, &testutil.MockCompressor{})
	ctx := context.Background()
	require.NoError(t, s.PutEntry(ctx, testEntry("2024-03-01", "x")))
	_, err := s.UpdateProfile(ctx, func(p *models.Profile) { p.ChatCredits = 0 })
	require.NoError(t, err)
	require.NoError(t, s.PutChatThread(ctx, models.ChatThread{ID: "t", TaskDate: "2024-03-01"}))

	require.NoError(t, s.WipeAll(ctx))

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	p, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, p.ChatCredits)
	threads, err := s.ListChatThreads(ctx)
	require.NoError(t, err)
	assert.Empty(t, threads)
}

func TestRecordStore_FailedCompress_LeavesStateUntouched(t *testing.T) {
	comp := &testutil.MockCompressor{}
	s, metrics := newTestStore(t, comp)
	ctx := context.Background()
	require.NoError(t, s.PutEntry(ctx, testEntry("2024-03-01", "kept")))

	comp.CompressFn = func([]byte) ([]byte, error) { return nil, errors.New("disk full") }
	err := s.PutEntry(ctx, testEntry("2024-03-02", "lost"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPersistence)
	var pe *models.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, CollectionEntries, pe.Collection)
	assert.Equal(t, 1, metrics.PersistenceErrors[CollectionEntries])

	comp.CompressFn = nil
	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Task)
}

func TestRecordStore_CollectionOutgrowsCache(t *testing.T) {
	conf := storeConfig(t.TempDir())
	conf.Cache = structures.CacheConfig{Enabled: true, Size: 1}
	cache := providers.NewCacheProvider(conf, &testutil.MockLogger{})
	s, err := NewRecordStore(conf, &testutil.MockCompressor{}, cache, &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)
	ctx := context.Background()

	task := strings.Repeat("x", 400)
	for day := 1; day <= 20; day++ {
		require.NoError(t, s.PutEntry(ctx, testEntry(fmt.Sprintf("2024-03-%02d", day), task)))
	}

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 20)

	reopened, err := NewRecordStore(conf, &testutil.MockCompressor{}, testutil.NewMockCache(), &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)
	onDisk, err := reopened.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, onDisk, 20)
}

func TestRecordStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	conf := storeConfig(dir)
	ctx := context.Background()

	s1, err := NewRecordStore(conf, &testutil.MockCompressor{}, testutil.NewMockCache(), &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)
	require.NoError(t, s1.PutEntry(ctx, testEntry("2024-03-01", "persisted")))
	s1.Close()

	s2, err := NewRecordStore(conf, &testutil.MockCompressor{}, testutil.NewMockCache(), &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)
	got, err := s2.GetEntry(ctx, "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "persisted", got.Task)

	_, err = os.Stat(filepath.Join(dir, "entries.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestRecordStore_LoadCollapsesDuplicateDates(t *testing.T) {
	dir := t.TempDir()
	raw, err := json.Marshal([]models.Entry{testEntry("2024-03-01", "old"), testEntry("2024-03-01", "new")})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entries.json"), raw, 0600))

	logger := &testutil.MockLogger{}
	s, err := NewRecordStore(storeConfig(dir), &testutil.MockCompressor{}, testutil.NewMockCache(), logger, testutil.NewMockMetrics())
	require.NoError(t, err)

	entries, err := s.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Task)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestRecordStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.json"), []byte("{not json"), 0600))

	s, err := NewRecordStore(storeConfig(dir), &testutil.MockCompressor{}, testutil.NewMockCache(), &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)

	_, err = s.GetProfile(context.Background())
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestRecordStore_ZstdRoundtrip(t *testing.T) {
	dir := t.TempDir()
	conf := storeConfig(dir)
	conf.Persistence.Compress = true
	comp, err := NewCompressor(conf)
	require.NoError(t, err)

	s, err := NewRecordStore(conf, comp, testutil.NewMockCache(), &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PutEntry(context.Background(), testEntry("2024-03-01", "zipped")))
	_, err = os.Stat(filepath.Join(dir, "entries.json.zst"))
	require.NoError(t, err)
}
