package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table this package
// owns. Production deployments run it once at startup; tests run it against
// in-memory sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customerModel{},
		&vendorModel{},
		&adminModel{},
		&serviceModel{},
		&blockedDateModel{},
		&bookingModel{},
		&conversationModel{},
		&participantModel{},
		&messageModel{},
		&notificationModel{},
	)
}
