package quota

import (
	"pilot/internal/models"
	"pilot/internal/structures"
	"time"
)

// Unlimited is the remaining-count sentinel for tiers without a voice cap.
const Unlimited = -1

// IsEntitled reports whether tier unlocks premium features. The legacy pro and
// elite tiers are entitled exactly like premium.
func IsEntitled(tier models.SubscriptionTier) bool {
	return tier.Normalize() == models.TierPremium
}

type Limits struct {
	FreeDailyGenerations int
	FreeChatCredits      int
	Voice                map[models.SubscriptionTier]int
}

func DefaultLimits() Limits {
	return Limits{
		FreeDailyGenerations: 1,
		FreeChatCredits:      models.DefaultChatCredits,
		Voice: map[models.SubscriptionTier]int{
			models.TierFree:    0,
			models.TierPremium: 30,
			models.TierPro:     30,
			models.TierElite:   Unlimited,
		},
	}
}

func LimitsFromConfig(conf *structures.Config) Limits {
	q := conf.Quota
	return Limits{
		FreeDailyGenerations: q.FreeDailyGenerations,
		FreeChatCredits:      q.FreeChatCredits,
		Voice: map[models.SubscriptionTier]int{
			models.TierFree:    q.VoiceFree,
			models.TierPremium: q.VoicePremium,
			models.TierPro:     q.VoicePro,
			models.TierElite:   q.VoiceElite,
		},
	}
}

// VoiceAllowance is the result of a voice quota check. Remaining is Unlimited
// for uncapped tiers.
type VoiceAllowance struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
	Used      int  `json:"used"`
}

// Engine evaluates the quota rules against a profile. It never touches storage;
// callers persist the profile they mutate.
type Engine struct {
	limits Limits
}

func NewEngine(limits Limits) *Engine {
	if limits.FreeDailyGenerations < 1 {
		limits.FreeDailyGenerations = 1
	}
	if limits.Voice == nil {
		limits.Voice = DefaultLimits().Voice
	}
	return &Engine{limits: limits}
}

func NewEngineFromConfig(conf *structures.Config) *Engine {
	return NewEngine(LimitsFromConfig(conf))
}

func (e *Engine) Limits() Limits {
	return e.limits
}

// CanGenerateTask is true for entitled tiers, on the first generation of a new day,
// or while today's count is below the free ceiling.
func (e *Engine) CanGenerateTask(p models.Profile, today string) bool {
	if IsEntitled(p.SubscriptionTier) {
		return true
	}
	if p.LastGenerationDate == nil || *p.LastGenerationDate != today {
		return true
	}
	return p.DailyGenerationsToday < e.limits.FreeDailyGenerations
}

// RecordGeneration counts a generation for today. A count from another day is
// stale and restarts at 1.
func (e *Engine) RecordGeneration(p *models.Profile, today string) {
	if p.LastGenerationDate != nil && *p.LastGenerationDate == today {
		p.DailyGenerationsToday++
		return
	}
	p.DailyGenerationsToday = 1
	p.LastGenerationDate = models.StringPtr(today)
}

func (e *Engine) CanSendChatMessage(p models.Profile) bool {
	return IsEntitled(p.SubscriptionTier) || p.ChatCredits > 0
}

// ConsumeChatCredit spends one credit if any is left and always counts the message.
func (e *Engine) ConsumeChatCredit(p *models.Profile) {
	if p.ChatCredits > 0 {
		p.ChatCredits--
	}
	p.TotalChatsSent++
}

func (e *Engine) VoiceLimit(tier models.SubscriptionTier) int {
	if limit, ok := e.limits.Voice[tier]; ok {
		return limit
	}
	return e.limits.Voice[tier.Normalize()]
}

// CanUseVoiceConversation checks the monthly check-in allowance. Usage recorded in an
// earlier calendar month counts as zero.
func (e *Engine) CanUseVoiceConversation(p models.Profile, now time.Time) VoiceAllowance {
	limit := e.VoiceLimit(p.SubscriptionTier)
	used := p.VoiceCheckInsThisMonth
	if needsMonthlyReset(p, now) {
		used = 0
	}
	if limit < 0 {
		return VoiceAllowance{Allowed: true, Remaining: Unlimited, Limit: Unlimited, Used: used}
	}
	return VoiceAllowance{
		Allowed:   used < limit,
		Remaining: max(0, limit-used),
		Limit:     limit,
		Used:      used,
	}
}

// ResetVoiceUsageIfNeeded zeroes the monthly voice counters once now is in a
// different calendar month than the last reset. It reports whether it did.
func (e *Engine) ResetVoiceUsageIfNeeded(p *models.Profile, now time.Time) bool {
	if !needsMonthlyReset(*p, now) {
		return false
	}
	p.VoiceCheckInsThisMonth = 0
	p.VoiceMessagesThisMonth = 0
	p.VoiceUsageResetDate = now
	return true
}

func (e *Engine) RecordVoiceCheckIn(p *models.Profile, now time.Time) {
	e.ResetVoiceUsageIfNeeded(p, now)
	p.VoiceCheckInsThisMonth++
}

func (e *Engine) RecordVoiceMessage(p *models.Profile, now time.Time) {
	e.ResetVoiceUsageIfNeeded(p, now)
	p.VoiceMessagesThisMonth++
}

// CanRegenerate allows regeneration for entitled tiers while the entry is still open.
func (e *Engine) CanRegenerate(p models.Profile, entry models.Entry) bool {
	return IsEntitled(p.SubscriptionTier) && !entry.Completed
}

func (e *Engine) CanViewWeeklyInsight(p models.Profile) bool {
	return IsEntitled(p.SubscriptionTier)
}

func needsMonthlyReset(p models.Profile, now time.Time) bool {
	last := p.VoiceUsageResetDate.In(now.Location())
	return last.Year() != now.Year() || last.Month() != now.Month()
}
