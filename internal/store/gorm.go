package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nirvana-heritage/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserDirectory stores users in a relational table via gorm.
type GormUserDirectory struct {
	DB *gorm.DB
}

func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{DB: db}
}

func (d *GormUserDirectory) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	// pre-check so the caller gets ErrDuplicateIdentity instead of a raw
	// constraint violation from the driver
	var count int64
	if err := d.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", user.Username, user.Email).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check identity: %w", err)
	}
	if count > 0 {
		return ErrDuplicateIdentity
	}

	if err := d.DB.WithContext(ctx).Create(user).Error; err != nil {
		// unique index still races with concurrent signups
		if isUniqueViolation(err) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (d *GormUserDirectory) ByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (d *GormUserDirectory) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (d *GormUserDirectory) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := d.DB.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (d *GormUserDirectory) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res := d.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin)
	if res.Error != nil {
		return fmt.Errorf("set admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *GormUserDirectory) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res := d.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *GormUserDirectory) Delete(ctx context.Context, id string) error {
	res := d.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// GormAdminLog appends audit entries to a relational table.
type GormAdminLog struct {
	DB *gorm.DB
}

func NewGormAdminLog(db *gorm.DB) *GormAdminLog {
	return &GormAdminLog{DB: db}
}

func (l *GormAdminLog) Append(ctx context.Context, message string) error {
	entry := models.AdminLogEntry{
		LogID:     uuid.NewString(),
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := l.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("append admin log: %w", err)
	}
	return nil
}

func (l *GormAdminLog) Recent(ctx context.Context, limit int) ([]models.AdminLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.AdminLogEntry
	if err := l.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list admin log: %w", err)
	}
	return entries, nil
}
