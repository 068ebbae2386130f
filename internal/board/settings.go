package board

import (
	"fmt"

	"github.com/qwertukg/boardyard/internal/models"
	"gorm.io/gorm/clause"
)

// Settings returns the process-wide defaults.
func (s *Store) Settings() (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := loadSettings(s.db)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateSettings replaces the process-wide defaults.
func (s *Store) UpdateSettings(targetBranch, globalInstructions string) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if targetBranch == "" {
		targetBranch = "main"
	}
	st := models.Settings{
		ID:                 1,
		TargetBranch:       targetBranch,
		GlobalInstructions: globalInstructions,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_branch", "global_instructions"}),
	}).Create(&st).Error
	if err != nil {
		return nil, fmt.Errorf("board: update settings: %w", err)
	}
	return &st, nil
}
