package subscription

import "time"

// StatusView is the subscription summary shown to the signed in user.
type StatusView struct {
	SubscriptionStatus  string     `json:"subscription_status"`
	SubscriptionType    string     `json:"subscription_type"`
	HasAccess           bool       `json:"has_access"`
	DaysRemaining       *int       `json:"days_remaining"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
	AccessLevel         string     `json:"access_level"`
}

// GrantInput is the admin request that activates a subscription.
type GrantInput struct {
	Tier string `json:"tier" validate:"required,oneof=Beginner Advanced Premium"`
	Days int    `json:"days" validate:"gt=0,lte=3650"`
}

// AccessLevelInput is the admin request that changes a user's access level.
type AccessLevelInput struct {
	AccessLevel string `json:"access_level" validate:"required,oneof=Limited admin"`
}
