package quota

import (
	"pilot/internal/models"
	"pilot/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func freeProfile() models.Profile {
	return models.NewDefaultProfile(testNow, models.DefaultChatCredits)
}

func TestIsEntitled(t *testing.T) {
	assert.False(t, IsEntitled(models.TierFree))
	assert.True(t, IsEntitled(models.TierPremium))
	assert.True(t, IsEntitled(models.TierPro))
	assert.True(t, IsEntitled(models.TierElite))
	assert.False(t, IsEntitled("gold"))
}

func TestEngine_CanGenerateTask_FreeTier(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	assert.True(t, e.CanGenerateTask(p, "2024-03-15"))

	p.LastGenerationDate = models.StringPtr("2024-03-15")
	p.DailyGenerationsToday = 1
	assert.False(t, e.CanGenerateTask(p, "2024-03-15"))

	p.LastGenerationDate = models.StringPtr("2024-03-14")
	assert.True(t, e.CanGenerateTask(p, "2024-03-15"))
}

func TestEngine_CanGenerateTask_EntitledBypassesCap(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	p.SubscriptionTier = models.TierPro
	p.LastGenerationDate = models.StringPtr("2024-03-15")
	p.DailyGenerationsToday = 12
	assert.True(t, e.CanGenerateTask(p, "2024-03-15"))
}

func TestEngine_RecordGeneration(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()

	e.RecordGeneration(&p, "2024-03-15")
	assert.Equal(t, 1, p.DailyGenerationsToday)
	assert.Equal(t, "2024-03-15", *p.LastGenerationDate)

	e.RecordGeneration(&p, "2024-03-15")
	assert.Equal(t, 2, p.DailyGenerationsToday)

	// stale count from another day restarts at one
	p.DailyGenerationsToday = 7
	e.RecordGeneration(&p, "2024-03-16")
	assert.Equal(t, 1, p.DailyGenerationsToday)
	assert.Equal(t, "2024-03-16", *p.LastGenerationDate)
}

func TestEngine_ChatCredits(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	p.ChatCredits = 0
	assert.False(t, e.CanSendChatMessage(p))

	for i := 0; i < 3; i++ {
		e.ConsumeChatCredit(&p)
	}
	assert.Equal(t, 0, p.ChatCredits)
	assert.Equal(t, 3, p.TotalChatsSent)

	p.SubscriptionTier = models.TierPremium
	assert.True(t, e.CanSendChatMessage(p))
}

func TestEngine_ConsumeChatCredit_Decrements(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	e.ConsumeChatCredit(&p)
	assert.Equal(t, 2, p.ChatCredits)
	assert.Equal(t, 1, p.TotalChatsSent)
}

func TestEngine_CanUseVoiceConversation(t *testing.T) {
	e := NewEngine(DefaultLimits())

	p := freeProfile()
	got := e.CanUseVoiceConversation(p, testNow)
	assert.False(t, got.Allowed)
	assert.Equal(t, 0, got.Remaining)

	p.SubscriptionTier = models.TierPremium
	p.VoiceCheckInsThisMonth = 28
	got = e.CanUseVoiceConversation(p, testNow)
	assert.True(t, got.Allowed)
	assert.Equal(t, 2, got.Remaining)

	p.VoiceCheckInsThisMonth = 35
	got = e.CanUseVoiceConversation(p, testNow)
	assert.False(t, got.Allowed)
	assert.Equal(t, 0, got.Remaining)

	p.SubscriptionTier = models.TierElite
	got = e.CanUseVoiceConversation(p, testNow)
	assert.True(t, got.Allowed)
	assert.Equal(t, Unlimited, got.Remaining)
}

func TestEngine_CanUseVoiceConversation_StaleMonthCountsAsZero(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	p.SubscriptionTier = models.TierPremium
	p.VoiceCheckInsThisMonth = 30
	p.VoiceUsageResetDate = testNow.AddDate(0, -1, 0)

	got := e.CanUseVoiceConversation(p, testNow)
	assert.True(t, got.Allowed)
	assert.Equal(t, 30, got.Remaining)
}

func TestEngine_RecordVoiceCheckIn_ResetsOnNewMonth(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	p.VoiceCheckInsThisMonth = 5
	p.VoiceMessagesThisMonth = 9
	p.VoiceUsageResetDate = time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	e.RecordVoiceCheckIn(&p, testNow)
	assert.Equal(t, 1, p.VoiceCheckInsThisMonth)
	assert.Equal(t, 0, p.VoiceMessagesThisMonth)
	assert.Equal(t, testNow, p.VoiceUsageResetDate)

	e.RecordVoiceMessage(&p, testNow)
	assert.Equal(t, 1, p.VoiceMessagesThisMonth)
	assert.False(t, e.ResetVoiceUsageIfNeeded(&p, testNow.Add(24*time.Hour)))
}

func TestEngine_CanRegenerate(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	entry := models.Entry{Date: "2024-03-15"}
	assert.False(t, e.CanRegenerate(p, entry))

	p.SubscriptionTier = models.TierPremium
	assert.True(t, e.CanRegenerate(p, entry))

	entry.Completed = true
	assert.False(t, e.CanRegenerate(p, entry))
}

func TestEngine_CanViewWeeklyInsight(t *testing.T) {
	e := NewEngine(DefaultLimits())
	p := freeProfile()
	assert.False(t, e.CanViewWeeklyInsight(p))
	p.SubscriptionTier = models.TierElite
	assert.True(t, e.CanViewWeeklyInsight(p))
}

func TestNewEngineFromConfig(t *testing.T) {
	conf := &structures.Config{Quota: structures.QuotaConfig{
		FreeDailyGenerations: 2,
		FreeChatCredits:      5,
		VoiceFree:            1,
		VoicePremium:         10,
		VoicePro:             10,
		VoiceElite:           -1,
	}}
	e := NewEngineFromConfig(conf)

	p := freeProfile()
	p.LastGenerationDate = models.StringPtr("2024-03-15")
	p.DailyGenerationsToday = 1
	assert.True(t, e.CanGenerateTask(p, "2024-03-15"))

	got := e.CanUseVoiceConversation(p, testNow)
	assert.True(t, got.Allowed)
	assert.Equal(t, 1, got.Remaining)
	assert.Equal(t, 5, e.Limits().FreeChatCredits)
}
