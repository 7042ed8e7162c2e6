package entitlements

import (
	"strings"
	"time"
)

type Tier string

const (
	TierAny      Tier = "any"
	TierNone     Tier = "none"
	TierBeginner Tier = "Beginner"
	TierAdvanced Tier = "Advanced"
	TierPremium  Tier = "Premium"
)

const (
	AccessLevelLimited = "Limited"
	AccessLevelAdmin   = "admin"
)

const (
	StatusNone    = "none"
	StatusActive  = "active"
	StatusExpired = "expired"
)

// SubscriptionState is the read-only view of a user's subscription used for gating.
type SubscriptionState struct {
	AccessLevel string
	Tier        Tier
	Status      string
	EndDate     *time.Time
}

// ParseTier normalizes user or config input to a known tier. Unknown values map to TierNone.
func ParseTier(raw string) Tier {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "any":
		return TierAny
	case "beginner":
		return TierBeginner
	case "advanced":
		return TierAdvanced
	case "premium":
		return TierPremium
	default:
		return TierNone
	}
}

// Rank orders concrete tiers. Unset, none and unknown tiers rank 0.
func Rank(t Tier) int {
	switch ParseTier(string(t)) {
	case TierPremium:
		return 3
	case TierAdvanced:
		return 2
	case TierBeginner:
		return 1
	default:
		return 0
	}
}

// IsConcrete reports whether t names a purchasable tier.
func IsConcrete(t Tier) bool {
	return Rank(t) > 0
}

// IsAdmin reports whether the state carries the admin access level.
func (s SubscriptionState) IsAdmin() bool {
	return s.AccessLevel == AccessLevelAdmin
}

// IsLapsed reports an active subscription whose end date has already passed.
func IsLapsed(s SubscriptionState, now time.Time) bool {
	return s.Status == StatusActive && s.EndDate != nil && now.After(*s.EndDate)
}

// HasAccess decides whether the state may see content gated at the required tier.
// Admins bypass all checks, including expiry.
func HasAccess(s SubscriptionState, required Tier, now time.Time) bool {
	if s.IsAdmin() {
		return true
	}
	if s.Status != StatusActive {
		return false
	}
	if s.EndDate != nil && now.After(*s.EndDate) {
		return false
	}
	if required == "" || ParseTier(string(required)) == TierAny {
		return true
	}
	return Rank(s.Tier) >= Rank(required)
}
