package models

import "time"

const (
	DefaultChatCredits = 3
	DefaultVoice       = "charlotte"
	DefaultTheme       = "dark"
)

// Profile is the per-installation singleton.
type Profile struct {
	CreatedAt              time.Time        `json:"created_at"`
	SubscriptionTier       SubscriptionTier `json:"subscription_tier"`
	DailyGenerationsToday  int              `json:"daily_generations_today"`
	LastGenerationDate     *string          `json:"last_generation_date,omitempty"`
	ChatCredits            int              `json:"chat_credits"`
	TotalChatsSent         int              `json:"total_chats_sent"`
	CurrentStreak          int              `json:"current_streak"`
	LongestStreak          int              `json:"longest_streak"`
	VoiceEnabled           bool             `json:"voice_enabled"`
	SelectedVoice          string           `json:"selected_voice"`
	VoiceCheckInsThisMonth int              `json:"voice_check_ins_this_month"`
	VoiceMessagesThisMonth int              `json:"voice_messages_this_month"`
	VoiceUsageResetDate    time.Time        `json:"voice_usage_reset_date"`
	UnlockedVoices         []string         `json:"unlocked_voices"`
	HasCompletedOnboarding bool             `json:"has_completed_onboarding"`
	SelectedTheme          string           `json:"selected_theme"`
	UserName               *string          `json:"user_name,omitempty"`
}

// NewDefaultProfile builds the profile used when nothing is persisted yet.
func NewDefaultProfile(now time.Time, chatCredits int) Profile {
	return Profile{
		CreatedAt:           now,
		SubscriptionTier:    TierFree,
		ChatCredits:         chatCredits,
		SelectedVoice:       DefaultVoice,
		VoiceUsageResetDate: now,
		UnlockedVoices:      []string{DefaultVoice},
		SelectedTheme:       DefaultTheme,
	}
}

func (p Profile) Clone() Profile {
	c := p
	c.LastGenerationDate = cloneString(p.LastGenerationDate)
	c.UserName = cloneString(p.UserName)
	if p.UnlockedVoices != nil {
		c.UnlockedVoices = append([]string(nil), p.UnlockedVoices...)
	}
	return c
}
