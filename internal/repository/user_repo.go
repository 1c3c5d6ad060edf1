package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"netrates/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Name         string    `gorm:"column:name"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := userModel{
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
