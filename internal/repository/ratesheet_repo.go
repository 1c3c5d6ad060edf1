package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"netrates/internal/domain"
)

type RateSheetRepository struct {
	db *gorm.DB
}

func NewRateSheetRepository(db *gorm.DB) *RateSheetRepository {
	return &RateSheetRepository{db: db}
}

type rateSheetModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex"`
	SourceFile string    `gorm:"column:source_file"`
	UploadedAt time.Time `gorm:"column:uploaded_at"`
}

func (rateSheetModel) TableName() string { return "rate_sheets" }

type equipmentItemModel struct {
	ID             int64   `gorm:"column:id;primaryKey"`
	SheetID        int64   `gorm:"column:sheet_id;index"`
	ItemCategory   string  `gorm:"column:item_category"`
	EquipmentName  string  `gorm:"column:equipment_name"`
	HireRateWeekly float64 `gorm:"column:hire_rate_weekly"`
	POA            bool    `gorm:"column:poa"`
	GroupName      string  `gorm:"column:group_name"`
	SubSection     string  `gorm:"column:sub_section"`
	MaxDiscount    float64 `gorm:"column:max_discount"`
	Include        bool    `gorm:"column:include"`
	SortOrder      int     `gorm:"column:sort_order"`
}

func (equipmentItemModel) TableName() string { return "equipment_items" }

func toDomainItem(m equipmentItemModel) domain.EquipmentItem {
	return domain.EquipmentItem{
		ID:             m.ID,
		SheetID:        m.SheetID,
		ItemCategory:   m.ItemCategory,
		EquipmentName:  m.EquipmentName,
		HireRateWeekly: m.HireRateWeekly,
		POA:            m.POA,
		GroupName:      m.GroupName,
		SubSection:     m.SubSection,
		MaxDiscount:    m.MaxDiscount,
		Include:        m.Include,
		SortOrder:      m.SortOrder,
	}
}

func toItemModel(sheetID int64, it domain.EquipmentItem) equipmentItemModel {
	return equipmentItemModel{
		SheetID:        sheetID,
		ItemCategory:   it.ItemCategory,
		EquipmentName:  it.EquipmentName,
		HireRateWeekly: it.HireRateWeekly,
		POA:            it.POA,
		GroupName:      it.GroupName,
		SubSection:     it.SubSection,
		MaxDiscount:    it.MaxDiscount,
		Include:        it.Include,
		SortOrder:      it.SortOrder,
	}
}

// CreateWithItems stores the sheet and its rows in one transaction.
func (r *RateSheetRepository) CreateWithItems(ctx context.Context, sheet *domain.RateSheet, items []domain.EquipmentItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := rateSheetModel{
			Name:       sheet.Name,
			SourceFile: sheet.SourceFile,
			UploadedAt: time.Now().UTC(),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		for i := range items {
			im := toItemModel(m.ID, items[i])
			if err := tx.Create(&im).Error; err != nil {
				return err
			}
			items[i].ID = im.ID
			items[i].SheetID = m.ID
		}

		sheet.ID = m.ID
		sheet.UploadedAt = m.UploadedAt
		sheet.ItemCount = len(items)
		return nil
	})
}

func (r *RateSheetRepository) List(ctx context.Context) ([]domain.RateSheet, error) {
	var models []rateSheetModel
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.RateSheet, 0, len(models))
	for _, m := range models {
		var cnt int64
		if err := r.db.WithContext(ctx).Model(&equipmentItemModel{}).Where("sheet_id = ?", m.ID).Count(&cnt).Error; err != nil {
			return nil, err
		}
		out = append(out, domain.RateSheet{
			ID:         m.ID,
			Name:       m.Name,
			SourceFile: m.SourceFile,
			ItemCount:  int(cnt),
			UploadedAt: m.UploadedAt,
		})
	}
	return out, nil
}

func (r *RateSheetRepository) GetByID(ctx context.Context, id int64) (*domain.RateSheet, error) {
	var m rateSheetModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&equipmentItemModel{}).Where("sheet_id = ?", m.ID).Count(&cnt).Error; err != nil {
		return nil, err
	}
	return &domain.RateSheet{
		ID:         m.ID,
		Name:       m.Name,
		SourceFile: m.SourceFile,
		ItemCount:  int(cnt),
		UploadedAt: m.UploadedAt,
	}, nil
}

// GetItems returns included rows in the presentation order: group, subsection,
// then the sheet's own Order column.
func (r *RateSheetRepository) GetItems(ctx context.Context, sheetID int64) ([]domain.EquipmentItem, error) {
	var models []equipmentItemModel
	err := r.db.WithContext(ctx).
		Where("sheet_id = ? AND include = ?", sheetID, true).
		Order("group_name, sub_section, sort_order").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.EquipmentItem, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainItem(m))
	}
	return out, nil
}

func (r *RateSheetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sheet_id = ?", id).Delete(&equipmentItemModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&rateSheetModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
