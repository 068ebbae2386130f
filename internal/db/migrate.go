package db

import (
	"fmt"

	"github.com/qwertukg/boardyard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Board{},
		&models.Column{},
		&models.Agent{},
		&models.Task{},
		&models.ChatMessage{},
		&models.GitEvent{},
		&models.Settings{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedSettings writes or updates the singleton settings row.
func SeedSettings(gdb *gorm.DB, targetBranch, globalInstructions string) error {
	s := models.Settings{
		ID:                 1,
		TargetBranch:       targetBranch,
		GlobalInstructions: globalInstructions,
	}

	result := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_branch", "global_instructions"}),
	}).Create(&s)
	if result.Error != nil {
		return fmt.Errorf("db: seed settings: %w", result.Error)
	}
	return nil
}
