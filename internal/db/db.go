package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/config"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// activeSlotIndex is the store-level guard against two active bookings
// starting at the same date and time.
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_active_slot
	ON bookings (appointment_date, appointment_time)
	WHERE status <> 'cancelado'
`

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.ScheduleRule{},
		&models.Block{},
		&models.Procedure{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		log.Fatal("failed to create booking slot index", zap.Error(err))
	}

	return db
}

// Ping is used by the health check.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
