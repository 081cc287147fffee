package db

import (
	"log"

	"draftsync/gateway"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&gateway.DocumentRow{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}
