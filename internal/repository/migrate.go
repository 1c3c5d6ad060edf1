package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates all tables this service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&rateSheetModel{},
		&equipmentItemModel{},
		&priceListModel{},
		&emailRecordModel{},
		&userModel{},
	)
}
