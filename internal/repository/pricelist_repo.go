package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"netrates/internal/domain"
)

type PriceListRepository struct {
	db *gorm.DB
}

func NewPriceListRepository(db *gorm.DB) *PriceListRepository {
	return &PriceListRepository{db: db}
}

type priceListModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	PublicID       string    `gorm:"column:public_id;uniqueIndex"`
	SheetID        int64     `gorm:"column:sheet_id;index"`
	CustomerName   string    `gorm:"column:customer_name"`
	CustomerEmail  string    `gorm:"column:customer_email"`
	GlobalDiscount float64   `gorm:"column:global_discount"`
	GroupDiscounts string    `gorm:"column:group_discounts"` // JSON
	CustomPrices   string    `gorm:"column:custom_prices"`   // JSON
	Transport      string    `gorm:"column:transport"`       // JSON
	HeaderTemplate string    `gorm:"column:header_template"`
	Logo           []byte    `gorm:"column:logo"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (priceListModel) TableName() string { return "price_lists" }

func toDomainPriceList(m priceListModel) (*domain.PriceList, error) {
	p := &domain.PriceList{
		ID:             m.ID,
		PublicID:       m.PublicID,
		SheetID:        m.SheetID,
		CustomerName:   m.CustomerName,
		CustomerEmail:  m.CustomerEmail,
		GlobalDiscount: m.GlobalDiscount,
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{},
		Transport:      map[string]string{},
		HeaderTemplate: m.HeaderTemplate,
		Logo:           m.Logo,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.GroupDiscounts != "" {
		if err := json.Unmarshal([]byte(m.GroupDiscounts), &p.GroupDiscounts); err != nil {
			return nil, err
		}
	}
	if m.CustomPrices != "" {
		if err := json.Unmarshal([]byte(m.CustomPrices), &p.CustomPrices); err != nil {
			return nil, err
		}
	}
	if m.Transport != "" {
		if err := json.Unmarshal([]byte(m.Transport), &p.Transport); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func toPriceListModel(p *domain.PriceList) (priceListModel, error) {
	groups, err := json.Marshal(p.GroupDiscounts)
	if err != nil {
		return priceListModel{}, err
	}
	prices, err := json.Marshal(p.CustomPrices)
	if err != nil {
		return priceListModel{}, err
	}
	transport, err := json.Marshal(p.Transport)
	if err != nil {
		return priceListModel{}, err
	}

	return priceListModel{
		ID:             p.ID,
		PublicID:       p.PublicID,
		SheetID:        p.SheetID,
		CustomerName:   p.CustomerName,
		CustomerEmail:  p.CustomerEmail,
		GlobalDiscount: p.GlobalDiscount,
		GroupDiscounts: string(groups),
		CustomPrices:   string(prices),
		Transport:      string(transport),
		HeaderTemplate: p.HeaderTemplate,
		Logo:           p.Logo,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

func (r *PriceListRepository) Create(ctx context.Context, p *domain.PriceList) error {
	m, err := toPriceListModel(p)
	if err != nil {
		return err
	}
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.ID = m.ID
	p.CreatedAt = m.CreatedAt
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PriceListRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.PriceList, error) {
	var m priceListModel
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainPriceList(m)
}

func (r *PriceListRepository) Update(ctx context.Context, p *domain.PriceList) error {
	m, err := toPriceListModel(p)
	if err != nil {
		return err
	}
	m.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&priceListModel{}).Where("public_id = ?", p.PublicID).Updates(map[string]any{
		"customer_name":   m.CustomerName,
		"customer_email":  m.CustomerEmail,
		"global_discount": m.GlobalDiscount,
		"group_discounts": m.GroupDiscounts,
		"custom_prices":   m.CustomPrices,
		"transport":       m.Transport,
		"header_template": m.HeaderTemplate,
		"logo":            m.Logo,
		"updated_at":      m.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PriceListRepository) Delete(ctx context.Context, publicID string) error {
	res := r.db.WithContext(ctx).Where("public_id = ?", publicID).Delete(&priceListModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
