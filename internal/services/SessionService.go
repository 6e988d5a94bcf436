package services

import (
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"io"
	"pilot/internal/ai"
	"pilot/internal/models"
	"pilot/internal/providers"
	"pilot/internal/quota"
	"pilot/internal/storage"
	"pilot/internal/streak"
	"pilot/internal/structures"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultRecentEntries = 14
	weeklyInsightEntries = 7
	voiceLockKey         = "profile:voice"
	chatLockKey          = "profile:chat"
)

const (
	msgDailyLimit      = "You've reached your daily limit. Upgrade to Premium for unlimited tasks."
	msgChatCredits     = "You've used all your chat credits. Upgrade to Premium for unlimited chat."
	msgVoiceLimit      = "You've used all your voice check-ins this month."
	msgRegeneratePaid  = "Task regeneration is a Premium feature."
	msgInsightPaid     = "Weekly insights are a Premium feature."
	msgAlreadyComplete = "This task is already complete."
	msgNoEntry         = "There is no task for that day yet."
	msgBusy            = "A task is already being generated."
	msgGenerateFailed  = "Failed to generate task. Please try again."
	msgChatFailed      = "Failed to send message. Please try again."
	msgInsightFailed   = "Failed to generate your weekly insight."
	msgSaveFailed      = "Failed to save your changes."
	msgLoadFailed      = "Failed to load data."
)

type SessionServiceInterface interface {
	Initialize(ctx context.Context) error
	GenerateDailyTask(ctx context.Context, mood models.Mood, note *string) (models.Entry, error)
	CompleteTask(ctx context.Context, date string) (CompletionResult, error)
	RegenerateTask(ctx context.Context, date string) (models.Entry, error)
	SendChatMessage(ctx context.Context, date, text string) (models.ChatThread, error)
	ResetAccount(ctx context.Context) error

	SetSubscriptionTier(ctx context.Context, tier models.SubscriptionTier) (models.Profile, error)
	CompleteOnboarding(ctx context.Context, userName *string, theme string) (models.Profile, error)
	UpdateTheme(ctx context.Context, theme string) (models.Profile, error)
	UseVoiceCheckIn(ctx context.Context) (quota.VoiceAllowance, error)
	VoiceAllowance(ctx context.Context) (quota.VoiceAllowance, error)
	WeeklyInsight(ctx context.Context) (string, error)

	RecentEntries(ctx context.Context, limit int) ([]models.Entry, error)
	ChatThread(ctx context.Context, date string) (*models.ChatThread, error)
	Stats(ctx context.Context) (Stats, error)
	ExportEntries(ctx context.Context, w io.Writer) error
	Snapshot() State
	SetMilestoneNotifier(fn MilestoneNotifier)
}

// SessionService sequences the record store, the quota rules, the streak
// calculator and the task generator into user-facing operations. The store is
// the only source of truth; the State projection is re-derived after each write.
type SessionService struct {
	store       storage.RecordStoreInterface
	quota       *quota.Engine
	generator   ai.Generator
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	recentLimit int
	chatCredits int

	locks      *storage.KeyedMutex
	generating atomic.Bool

	mu       sync.RWMutex
	state    State
	notifier MilestoneNotifier

	now func() time.Time
}

func NewSessionService(conf *structures.Config, store storage.RecordStoreInterface, engine *quota.Engine, generator ai.Generator, logger providers.Logger, metrics providers.MetricsProviderInterface) *SessionService {
	recent := conf.AI.RecentLimit
	if recent <= 0 {
		recent = 7
	}
	return &SessionService{
		store:       store,
		quota:       engine,
		generator:   generator,
		logger:      logger,
		metrics:     metrics,
		recentLimit: recent,
		chatCredits: engine.Limits().FreeChatCredits,
		locks:       storage.NewKeyedMutex(),
		state:       defaultState(time.Now(), engine.Limits().FreeChatCredits),
		now:         time.Now,
	}
}

func (s *SessionService) SetMilestoneNotifier(fn MilestoneNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = fn
}

// Initialize loads every collection, recomputes the streak pair and stores it on the profile.
func (s *SessionService) Initialize(ctx context.Context) error {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return s.fail("initialize", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	now := s.now()
	info := streak.Calculate(entries, now)
	_, err = s.store.UpdateProfile(ctx, func(p *models.Profile) {
		p.CurrentStreak = info.CurrentStreak
		p.LongestStreak = info.LongestStreak
		s.quota.ResetVoiceUsageIfNeeded(p, now)
	})
	if err != nil {
		return s.fail("initialize", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	return s.refresh(ctx, "")
}

func (s *SessionService) GenerateDailyTask(ctx context.Context, mood models.Mood, note *string) (models.Entry, error) {
	if !mood.IsValid() {
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("Unknown mood %q.", mood), nil))
	}
	if !s.generating.CompareAndSwap(false, true) {
		return models.Entry{}, models.NewUserError(models.ErrBusy, msgBusy, nil)
	}
	defer s.generating.Store(false)
	s.setLoading(true)
	defer s.setLoading(false)

	now := s.now()
	today := models.DateKey(now)
	unlock := s.locks.Lock(today)
	defer unlock()

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if !s.quota.CanGenerateTask(profile, today) {
		s.metrics.IncQuotaDenied("generation")
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrQuotaExceeded, msgDailyLimit, nil))
	}

	existing, err := s.store.GetEntry(ctx, today)
	if err != nil {
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if existing != nil && existing.Completed {
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrAlreadyCompleted, msgAlreadyComplete, nil))
	}

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	content, err := s.generator.GenerateTask(ctx, mood, note, mostRecent(entries, s.recentLimit))
	if err != nil {
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrCollaborator, msgGenerateFailed, err))
	}

	entry := models.Entry{
		ID:          uuid.NewString(),
		Date:        today,
		Mood:        mood,
		Note:        note,
		Task:        content.Task,
		Reflection:  content.Reflection,
		Insight:     content.Insight,
		GeneratedAt: now,
	}
	if detection := s.detectMood(ctx, note); detection != nil {
		entry.Emotion = models.StringPtr(detection.Emotion)
		entry.EmotionCategory = models.StringPtr(detection.Category)
	}

	if err := s.store.PutEntry(ctx, entry); err != nil {
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}
	if _, err := s.store.UpdateProfile(ctx, func(p *models.Profile) { s.quota.RecordGeneration(p, today) }); err != nil {
		s.rollbackEntry(ctx, today, existing)
		return models.Entry{}, s.fail("generate", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}
	s.metrics.IncGenerations("generate")
	s.logger.Infof(providers.TypeSession, "Generated task for %s (mood %s)", today, mood)

	if err := s.refresh(ctx, ""); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// rollbackEntry puts back the entry that was on disk before an uncounted generation.
func (s *SessionService) rollbackEntry(ctx context.Context, date string, previous *models.Entry) {
	var err error
	if previous != nil {
		err = s.store.PutEntry(ctx, *previous)
	} else {
		err = s.store.DeleteEntry(ctx, date)
	}
	if err != nil {
		s.logger.Errorf(providers.TypeSession, "Failed to roll back entry for %s: %s", date, err)
	}
}

// detectMood runs the optional classification; any failure means "no detection".
func (s *SessionService) detectMood(ctx context.Context, note *string) *models.MoodDetection {
	if note == nil || strings.TrimSpace(*note) == "" {
		return nil
	}
	detection, err := s.generator.DetectMood(ctx, *note)
	if err != nil {
		s.logger.Warnf(providers.TypeSession, "Mood detection skipped: %s", err)
		return nil
	}
	return detection
}

// CompleteTask marks the entry done and recomputes streaks from the stored entries.
// Completing an already completed entry returns the stored state without a milestone.
func (s *SessionService) CompleteTask(ctx context.Context, date string) (CompletionResult, error) {
	if !models.ValidDateKey(date) {
		return CompletionResult{}, s.fail("complete", models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("Invalid date %q.", date), nil))
	}
	unlock := s.locks.Lock(date)
	defer unlock()

	entry, err := s.store.GetEntry(ctx, date)
	if err != nil {
		return CompletionResult{}, s.fail("complete", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if entry == nil {
		return CompletionResult{}, s.fail("complete", models.NewUserError(models.ErrNotFound, msgNoEntry, nil))
	}
	alreadyDone := entry.Completed

	now := s.now()
	if !alreadyDone {
		if err := s.store.MarkCompleted(ctx, date, now); err != nil {
			return CompletionResult{}, s.fail("complete", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
		}
	}

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return CompletionResult{}, s.fail("complete", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	info := streak.Calculate(entries, now)
	if _, err := s.store.UpdateProfile(ctx, func(p *models.Profile) {
		p.CurrentStreak = info.CurrentStreak
		p.LongestStreak = info.LongestStreak
	}); err != nil {
		return CompletionResult{}, s.fail("complete", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}

	result := CompletionResult{Streak: info}
	for _, e := range entries {
		if e.Date == date {
			result.Entry = e.Clone()
			break
		}
	}
	if !alreadyDone {
		if msg, ok := streak.Milestone(info.CurrentStreak); ok {
			result.Milestone = msg
			s.notifyMilestone(info.CurrentStreak, msg)
		}
		s.logger.Infof(providers.TypeSession, "Completed %s, streak %d/%d", date, info.CurrentStreak, info.LongestStreak)
	}

	if err := s.refresh(ctx, result.Milestone); err != nil {
		return CompletionResult{}, err
	}
	return result, nil
}

// RegenerateTask replaces the content of an open entry, keeping its id and bumping its version.
func (s *SessionService) RegenerateTask(ctx context.Context, date string) (models.Entry, error) {
	if !models.ValidDateKey(date) {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("Invalid date %q.", date), nil))
	}
	s.setLoading(true)
	defer s.setLoading(false)

	unlock := s.locks.Lock(date)
	defer unlock()

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if !quota.IsEntitled(profile.SubscriptionTier) {
		s.metrics.IncQuotaDenied("regenerate")
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrPermissionDenied, msgRegeneratePaid, nil))
	}

	// Re-read under the date lock so a completion that won the race is honoured.
	current, err := s.store.GetEntry(ctx, date)
	if err != nil {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if current == nil {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrNotFound, msgNoEntry, nil))
	}
	if !s.quota.CanRegenerate(profile, *current) {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrAlreadyCompleted, msgAlreadyComplete, nil))
	}

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	content, err := s.generator.GenerateTask(ctx, current.Mood, current.Note, mostRecent(entries, s.recentLimit))
	if err != nil {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrCollaborator, msgGenerateFailed, err))
	}

	updated := current.Clone()
	updated.Task = content.Task
	updated.Reflection = content.Reflection
	updated.Insight = content.Insight
	updated.Completed = false
	updated.CompletedAt = nil
	updated.GeneratedAt = s.now()
	updated.Version = models.IntPtr(current.CurrentVersion() + 1)
	updated.PreviousVersions = models.IntPtr(current.PreviousVersionCount() + 1)

	if err := s.store.PutEntry(ctx, updated); err != nil {
		return models.Entry{}, s.fail("regenerate", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}
	s.metrics.IncGenerations("regenerate")
	s.logger.Infof(providers.TypeSession, "Regenerated %s, version %d", date, *updated.Version)

	if err := s.refresh(ctx, ""); err != nil {
		return models.Entry{}, err
	}
	return updated, nil
}

// SendChatMessage appends the user's message and the reply to the thread for date.
// Quota is checked before the generator is contacted.
func (s *SessionService) SendChatMessage(ctx context.Context, date, text string) (models.ChatThread, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrInvalidInput, "Message is empty.", nil))
	}
	if !models.ValidDateKey(date) {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("Invalid date %q.", date), nil))
	}
	unlock := s.locks.Lock(date)
	defer unlock()
	// credits are checked and spent under one lock across every date
	unlockCredits := s.locks.Lock(chatLockKey)
	defer unlockCredits()

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if !s.quota.CanSendChatMessage(profile) {
		s.metrics.IncQuotaDenied("chat")
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrQuotaExceeded, msgChatCredits, nil))
	}

	entry, err := s.store.GetEntry(ctx, date)
	if err != nil {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if entry == nil {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrNotFound, msgNoEntry, nil))
	}

	thread, err := s.store.GetChatThread(ctx, date)
	if err != nil {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if thread == nil {
		thread = &models.ChatThread{ID: uuid.NewString(), TaskDate: date, Messages: []models.ChatMessage{}, CreatedAt: s.now()}
	}

	sentAt := s.now()
	reply, err := s.generator.Chat(ctx, *entry, thread.Messages, text)
	if err != nil {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrCollaborator, msgChatFailed, err))
	}

	next := thread.Clone()
	next.Messages = append(next.Messages,
		models.ChatMessage{ID: uuid.NewString(), Role: models.RoleUser, Content: text, Timestamp: sentAt},
		models.ChatMessage{ID: uuid.NewString(), Role: models.RoleAssistant, Content: reply, Timestamp: s.now()},
	)
	if err := s.store.PutChatThread(ctx, next); err != nil {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}
	if _, err := s.store.UpdateProfile(ctx, s.quota.ConsumeChatCredit); err != nil {
		return models.ChatThread{}, s.fail("chat", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}
	s.metrics.IncChatMessages()

	if err := s.refresh(ctx, ""); err != nil {
		return models.ChatThread{}, err
	}
	return next, nil
}

// ResetAccount wipes every collection and drops the projection back to defaults.
func (s *SessionService) ResetAccount(ctx context.Context) error {
	if err := s.store.WipeAll(ctx); err != nil {
		return s.fail("reset", models.NewUserError(models.ErrPersistence, "Failed to reset your data.", err))
	}
	s.mu.Lock()
	s.state = defaultState(s.now(), s.chatCredits)
	s.mu.Unlock()
	s.logger.Warnf(providers.TypeSession, "Account reset")
	return nil
}

func (s *SessionService) SetSubscriptionTier(ctx context.Context, tier models.SubscriptionTier) (models.Profile, error) {
	if !tier.IsValid() {
		return models.Profile{}, s.fail("tier", models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("Unknown subscription tier %q.", tier), nil))
	}
	return s.updateProfile(ctx, "tier", func(p *models.Profile) { p.SubscriptionTier = tier })
}

func (s *SessionService) CompleteOnboarding(ctx context.Context, userName *string, theme string) (models.Profile, error) {
	return s.updateProfile(ctx, "onboarding", func(p *models.Profile) {
		p.HasCompletedOnboarding = true
		if userName != nil && strings.TrimSpace(*userName) != "" {
			p.UserName = models.StringPtr(strings.TrimSpace(*userName))
		}
		if theme != "" {
			p.SelectedTheme = theme
		}
	})
}

func (s *SessionService) UpdateTheme(ctx context.Context, theme string) (models.Profile, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return models.Profile{}, s.fail("theme", models.NewUserError(models.ErrInvalidInput, "Theme is required.", nil))
	}
	return s.updateProfile(ctx, "theme", func(p *models.Profile) { p.SelectedTheme = theme })
}

// UseVoiceCheckIn spends one voice check-in from this month's allowance.
func (s *SessionService) UseVoiceCheckIn(ctx context.Context) (quota.VoiceAllowance, error) {
	unlock := s.locks.Lock(voiceLockKey)
	defer unlock()

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return quota.VoiceAllowance{}, s.fail("voice", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	now := s.now()
	if allowance := s.quota.CanUseVoiceConversation(profile, now); !allowance.Allowed {
		s.metrics.IncQuotaDenied("voice")
		return allowance, s.fail("voice", models.NewUserError(models.ErrQuotaExceeded, msgVoiceLimit, nil))
	}

	updated, err := s.store.UpdateProfile(ctx, func(p *models.Profile) { s.quota.RecordVoiceCheckIn(p, now) })
	if err != nil {
		return quota.VoiceAllowance{}, s.fail("voice", models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}
	if err := s.refresh(ctx, ""); err != nil {
		return quota.VoiceAllowance{}, err
	}
	return s.quota.CanUseVoiceConversation(updated, now), nil
}

func (s *SessionService) VoiceAllowance(ctx context.Context) (quota.VoiceAllowance, error) {
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return quota.VoiceAllowance{}, models.NewUserError(models.ErrPersistence, msgLoadFailed, err)
	}
	return s.quota.CanUseVoiceConversation(profile, s.now()), nil
}

func (s *SessionService) WeeklyInsight(ctx context.Context) (string, error) {
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return "", s.fail("insight", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	if !s.quota.CanViewWeeklyInsight(profile) {
		return "", s.fail("insight", models.NewUserError(models.ErrPermissionDenied, msgInsightPaid, nil))
	}
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return "", s.fail("insight", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	insight, err := s.generator.WeeklyInsight(ctx, mostRecent(entries, weeklyInsightEntries))
	if err != nil {
		return "", s.fail("insight", models.NewUserError(models.ErrCollaborator, msgInsightFailed, err))
	}
	return insight, nil
}

// RecentEntries returns up to limit entries, most recent first. A non-positive limit means 14.
func (s *SessionService) RecentEntries(ctx context.Context, limit int) ([]models.Entry, error) {
	if limit <= 0 {
		limit = defaultRecentEntries
	}
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, models.NewUserError(models.ErrPersistence, msgLoadFailed, err)
	}
	return mostRecent(entries, limit), nil
}

func (s *SessionService) ChatThread(ctx context.Context, date string) (*models.ChatThread, error) {
	if !models.ValidDateKey(date) {
		return nil, models.NewUserError(models.ErrInvalidInput, fmt.Sprintf("Invalid date %q.", date), nil)
	}
	thread, err := s.store.GetChatThread(ctx, date)
	if err != nil {
		return nil, models.NewUserError(models.ErrPersistence, msgLoadFailed, err)
	}
	return thread, nil
}

func (s *SessionService) Stats(ctx context.Context) (Stats, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return Stats{}, models.NewUserError(models.ErrPersistence, msgLoadFailed, err)
	}
	info := streak.Calculate(entries, s.now())
	stats := Stats{
		TotalEntries:  len(entries),
		CurrentStreak: info.CurrentStreak,
		LongestStreak: info.LongestStreak,
	}
	for _, e := range entries {
		if e.Completed {
			stats.CompletedEntries++
		}
	}
	if stats.TotalEntries > 0 {
		stats.CompletionRate = stats.CompletedEntries * 100 / stats.TotalEntries
	}
	return stats, nil
}

// ExportEntries writes every entry as indented JSON, oldest first.
func (s *SessionService) ExportEntries(ctx context.Context, w io.Writer) error {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return models.NewUserError(models.ErrPersistence, msgLoadFailed, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("export entries: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("export entries: %w", err)
	}
	return nil
}

func (s *SessionService) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *SessionService) updateProfile(ctx context.Context, op string, mutator func(p *models.Profile)) (models.Profile, error) {
	profile, err := s.store.UpdateProfile(ctx, mutator)
	if err != nil {
		return models.Profile{}, s.fail(op, models.NewUserError(models.ErrPersistence, msgSaveFailed, err))
	}
	if err := s.refresh(ctx, ""); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// refresh rebuilds the projection from the store and swaps it in. On failure the
// previous projection stays, flagged with the error message.
func (s *SessionService) refresh(ctx context.Context, milestone string) error {
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return s.fail("refresh", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return s.fail("refresh", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	threads, err := s.store.ListChatThreads(ctx)
	if err != nil {
		return s.fail("refresh", models.NewUserError(models.ErrPersistence, msgLoadFailed, err))
	}
	sortByDateDesc(entries)

	next := State{
		Profile:     profile,
		Entries:     entries,
		ChatThreads: threads,
		Streak:      models.StreakInfo{CurrentStreak: profile.CurrentStreak, LongestStreak: profile.LongestStreak},
		Milestone:   milestone,
	}
	today := models.DateKey(s.now())
	for i := range entries {
		if entries[i].Date == today {
			e := entries[i].Clone()
			next.TodayEntry = &e
			next.CurrentTask = taskContentOf(e)
			break
		}
	}

	s.mu.Lock()
	next.IsLoading = s.state.IsLoading
	s.state = next
	s.mu.Unlock()

	s.metrics.SetEntriesTotal(len(entries))
	s.metrics.SetStreak(profile.CurrentStreak, profile.LongestStreak)
	return nil
}

func (s *SessionService) fail(op string, err error) error {
	var ue *models.UserError
	switch {
	case errors.As(err, &ue) && (errors.Is(err, models.ErrQuotaExceeded) || errors.Is(err, models.ErrPermissionDenied) || errors.Is(err, models.ErrInvalidInput)):
		s.logger.Infof(providers.TypeSession, "%s denied: %s", op, ue.Message)
	default:
		s.logger.Errorf(providers.TypeSession, "%s failed: %s", op, err)
	}

	s.mu.Lock()
	next := s.state
	next.ErrorMessage = models.UserMessage(err)
	next.Milestone = ""
	s.state = next
	s.mu.Unlock()
	return err
}

func (s *SessionService) setLoading(loading bool) {
	s.mu.Lock()
	s.state.IsLoading = loading
	s.mu.Unlock()
}

func (s *SessionService) notifyMilestone(streakLen int, msg string) {
	s.mu.RLock()
	fn := s.notifier
	s.mu.RUnlock()
	if fn != nil {
		fn(streakLen, msg)
	}
}
