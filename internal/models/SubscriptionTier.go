package models

import (
	"fmt"
	"strings"
)

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"

	// Legacy tiers kept for data compatibility.
	TierPro   SubscriptionTier = "pro"
	TierElite SubscriptionTier = "elite"
)

func (t SubscriptionTier) String() string { return string(t) }

func (t SubscriptionTier) IsValid() bool {
	switch t {
	case TierFree, TierPremium, TierPro, TierElite:
		return true
	}
	return false
}

// Normalize folds the legacy tiers into premium. Unknown values fold into free.
func (t SubscriptionTier) Normalize() SubscriptionTier {
	switch t {
	case TierPremium, TierPro, TierElite:
		return TierPremium
	}
	return TierFree
}

func (t SubscriptionTier) DisplayName() string {
	if t.Normalize() == TierPremium {
		return "Premium"
	}
	return "Free"
}

func ParseSubscriptionTier(input string) (SubscriptionTier, error) {
	t := SubscriptionTier(strings.ToLower(strings.TrimSpace(input)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown subscription tier %q", ErrInvalidInput, input)
	}
	return t, nil
}
