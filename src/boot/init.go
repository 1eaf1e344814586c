package boot

import (
	"log"

	"brs/src/db"
	"brs/src/models"
)

func InitDb() {
	err := db.GetDb().AutoMigrate(
		&models.User{},
		&models.Tourist{},
		&models.Bike{},
		&models.Agreement{},
		&models.GuestLink{},
		&models.AuditEvent{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %s\n", err.Error())
	}
}
