package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntry_CloneDoesNotShare(t *testing.T) {
	done := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	e := Entry{
		Date:        "2024-03-15",
		Note:        StringPtr("tired"),
		CompletedAt: &done,
		Version:     IntPtr(2),
	}

	c := e.Clone()
	*c.Note = "fine"
	*c.Version = 3
	*c.CompletedAt = done.Add(time.Hour)

	assert.Equal(t, "tired", *e.Note)
	assert.Equal(t, 2, *e.Version)
	assert.Equal(t, done, *e.CompletedAt)
}

func TestEntry_VersionDefaults(t *testing.T) {
	var e Entry
	assert.Equal(t, 1, e.CurrentVersion())
	assert.Equal(t, 0, e.PreviousVersionCount())

	e.Version = IntPtr(3)
	e.PreviousVersions = IntPtr(2)
	assert.Equal(t, 3, e.CurrentVersion())
	assert.Equal(t, 2, e.PreviousVersionCount())
}

func TestNewDefaultProfile(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	p := NewDefaultProfile(now, DefaultChatCredits)

	assert.Equal(t, TierFree, p.SubscriptionTier)
	assert.Equal(t, 3, p.ChatCredits)
	assert.Equal(t, DefaultVoice, p.SelectedVoice)
	assert.Equal(t, []string{DefaultVoice}, p.UnlockedVoices)
	assert.Equal(t, DefaultTheme, p.SelectedTheme)
	assert.Equal(t, now, p.VoiceUsageResetDate)
	assert.False(t, p.HasCompletedOnboarding)
	assert.Nil(t, p.LastGenerationDate)
}

func TestProfile_CloneDoesNotShare(t *testing.T) {
	p := NewDefaultProfile(time.Now(), 3)
	p.UserName = StringPtr("Sam")

	c := p.Clone()
	c.UnlockedVoices[0] = "other"
	*c.UserName = "Alex"

	assert.Equal(t, DefaultVoice, p.UnlockedVoices[0])
	assert.Equal(t, "Sam", *p.UserName)
}
