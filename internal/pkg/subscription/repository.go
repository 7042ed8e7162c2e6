package subscription

import (
	"time"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// Repository provides the user store operations used by the subscription service.
type Repository interface {
	GetUser(userID string) (*models.User, error)
	// MarkExpired flips an active subscription to expired. It reports false when the row
	// was already transitioned by a concurrent request.
	MarkExpired(userID string) (bool, error)
	SaveSubscription(userID string, tier entitlements.Tier, status string, start, end *time.Time) error
	SaveAccessLevel(userID, level string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) MarkExpired(userID string) (bool, error) {
	tx := r.db.Model(&models.User{}).
		Where("user_id = ? AND subscription_status = ?", userID, entitlements.StatusActive).
		Update("subscription_status", entitlements.StatusExpired)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) SaveSubscription(userID string, tier entitlements.Tier, status string, start, end *time.Time) error {
	tx := r.db.Model(&models.User{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"subscription_type":       string(tier),
		"subscription_status":     status,
		"subscription_start_date": start,
		"subscription_end_date":   end,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) SaveAccessLevel(userID, level string) error {
	tx := r.db.Model(&models.User{}).Where("user_id = ?", userID).Update("access_level", level)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
