package models

import "time"

// UserSession is issued by the OAuth collaborator. The API only looks sessions up and
// deletes them on logout.
type UserSession struct {
	SessionToken string    `gorm:"primaryKey;type:varchar(191)" json:"session_token"`
	UserID       string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	ExpiresAt    time.Time `gorm:"type:datetime;not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// IsExpired reports whether the session may no longer authenticate requests.
func (s *UserSession) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
