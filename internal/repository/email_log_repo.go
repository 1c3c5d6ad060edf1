package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"netrates/internal/domain"
)

type EmailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

type emailRecordModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	PriceListID  string    `gorm:"column:price_list_id;index"`
	CustomerName string    `gorm:"column:customer_name"`
	Recipient    string    `gorm:"column:recipient"`
	Provider     string    `gorm:"column:provider"`
	Status       string    `gorm:"column:status"`
	Error        string    `gorm:"column:error"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (emailRecordModel) TableName() string { return "email_log" }

func toDomainEmailRecord(m emailRecordModel) domain.EmailRecord {
	return domain.EmailRecord{
		ID:           m.ID,
		PriceListID:  m.PriceListID,
		CustomerName: m.CustomerName,
		Recipient:    m.Recipient,
		Provider:     m.Provider,
		Status:       domain.EmailStatus(m.Status),
		Error:        m.Error,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *EmailLogRepository) Create(ctx context.Context, rec *domain.EmailRecord) error {
	m := emailRecordModel{
		PriceListID:  rec.PriceListID,
		CustomerName: rec.CustomerName,
		Recipient:    rec.Recipient,
		Provider:     rec.Provider,
		Status:       string(rec.Status),
		Error:        rec.Error,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rec.ID = m.ID
	rec.CreatedAt = m.CreatedAt
	return nil
}

func (r *EmailLogRepository) Summary(ctx context.Context) ([]domain.EmailStatusCount, error) {
	var out []domain.EmailStatusCount
	err := r.db.WithContext(ctx).
		Model(&emailRecordModel{}).
		Select("provider, status, COUNT(1) AS count").
		Group("provider, status").
		Order("provider, status").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EmailLogRepository) Recent(ctx context.Context, limit int) ([]domain.EmailRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []emailRecordModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.EmailRecord, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainEmailRecord(m))
	}
	return out, nil
}
