package repository

import (
	"time"

	"github.com/tahlil-one/tahlil/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Where("user_id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with pagination, newest first
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// UpdateAccessLevel changes only the access level column
func (r *userRepository) UpdateAccessLevel(id, accessLevel string) error {
	tx := r.db.Model(&models.User{}).Where("user_id = ?", id).Update("access_level", accessLevel)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// sessionRepository implements the SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository instance
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// GetByToken retrieves a session by its opaque token
func (r *sessionRepository) GetByToken(token string) (*models.UserSession, error) {
	var sess models.UserSession
	err := r.db.Where("session_token = ?", token).First(&sess).Error
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete removes a session, used on logout
func (r *sessionRepository) Delete(token string) error {
	return r.db.Where("session_token = ?", token).Delete(&models.UserSession{}).Error
}

// DeleteExpired removes sessions that expired before the given time
func (r *sessionRepository) DeleteExpired(before time.Time) (int64, error) {
	tx := r.db.Where("expires_at < ?", before).Delete(&models.UserSession{})
	return tx.RowsAffected, tx.Error
}
