package models

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
)

const (
	ACCESS_LEVEL_LIMITED = entitlements.AccessLevelLimited
	ACCESS_LEVEL_ADMIN   = entitlements.AccessLevelAdmin
)

// User is owned by the OAuth collaborator; this service reads it and only writes the
// subscription and access level columns.
type User struct {
	UserID                string     `gorm:"column:user_id;primaryKey;type:varchar(64)" json:"user_id"`
	GoogleUserID          string     `gorm:"type:varchar(191);uniqueIndex" json:"google_user_id"`
	Email                 string     `gorm:"type:varchar(200);index" json:"email" validate:"required,email,max=200"`
	Name                  string     `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Picture               string     `gorm:"type:varchar(512)" json:"picture" validate:"max=512"`
	AccessLevel           string     `gorm:"type:varchar(20);not null;default:'Limited'" json:"access_level" validate:"oneof=Limited admin"`
	SubscriptionType      string     `gorm:"type:varchar(20);not null;default:'none'" json:"subscription_type" validate:"omitempty,oneof=none Beginner Advanced Premium"`
	SubscriptionStatus    string     `gorm:"type:varchar(20);not null;default:'none'" json:"subscription_status" validate:"omitempty,oneof=none active expired"`
	SubscriptionStartDate *time.Time `gorm:"type:datetime;default:null" json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `gorm:"type:datetime;default:null" json:"subscription_end_date"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// IsAdmin reports whether the user bypasses subscription gating.
func (u *User) IsAdmin() bool {
	return u.AccessLevel == ACCESS_LEVEL_ADMIN
}

// SubscriptionState returns the gating view of the user.
func (u *User) SubscriptionState() entitlements.SubscriptionState {
	return entitlements.SubscriptionState{
		AccessLevel: u.AccessLevel,
		Tier:        entitlements.Tier(u.SubscriptionType),
		Status:      u.SubscriptionStatus,
		EndDate:     u.SubscriptionEndDate,
	}
}
