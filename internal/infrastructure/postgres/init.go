package postgres

import (
	"log"

	"github.com/qualitrace/qa-reversal-service/internal/config"
	"github.com/qualitrace/qa-reversal-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.ReversalConfig) *gorm.DB {
	dsn := cfg.ReversalDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.ScorecardModel{}, &models.ReversalRequestModel{}, &models.WorkflowStateRecordModel{})

	return db
}
