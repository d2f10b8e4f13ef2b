package storage

import (
	"log"
	"os"

	"tripmate-server/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.TripMember{},
		&models.TripInvite{},
		&models.JoinRequest{},
		&models.TripCity{},
		&models.Notification{},
		&models.ItineraryItem{},
		&models.ItineraryComment{},
		&models.Expense{},
		&models.ExpenseSplit{},
		&models.ChatMessage{},
		&models.Review{},
		&models.AuditLog{},
	)

	// Partial unique index: one pending request per (trip, user). Terminal
	// approved/rejected rows stay as history.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_join_requests_pending ON join_requests (trip_id, user_id) WHERE status = 'pending';")
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
