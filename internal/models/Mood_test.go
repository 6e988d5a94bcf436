package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMood(t *testing.T) {
	m, err := ParseMood("  Hopeful ")
	require.NoError(t, err)
	assert.Equal(t, MoodHopeful, m)
	assert.Equal(t, "Hopeful", m.DisplayName())

	_, err = ParseMood("ecstatic")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMoods_AllValid(t *testing.T) {
	require.Len(t, Moods, 4)
	for _, m := range Moods {
		assert.True(t, m.IsValid(), m.String())
	}
	assert.False(t, Mood("").IsValid())
}

func TestSubscriptionTier_Normalize(t *testing.T) {
	assert.Equal(t, TierFree, TierFree.Normalize())
	assert.Equal(t, TierPremium, TierPremium.Normalize())
	assert.Equal(t, TierPremium, TierPro.Normalize())
	assert.Equal(t, TierPremium, TierElite.Normalize())
	assert.Equal(t, TierFree, SubscriptionTier("gold").Normalize())

	assert.Equal(t, "Premium", TierElite.DisplayName())
	assert.Equal(t, "Free", TierFree.DisplayName())
}

func TestParseSubscriptionTier(t *testing.T) {
	tier, err := ParseSubscriptionTier("PRO")
	require.NoError(t, err)
	assert.Equal(t, TierPro, tier)

	_, err = ParseSubscriptionTier("gold")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
