package board

import (
	"errors"
	"fmt"

	"github.com/qwertukg/boardyard/internal/models"
	"gorm.io/gorm"
)

// CreateAgent registers an agent.
func (s *Store) CreateAgent(name, roleInstructions, acceptanceCriteria, globalInstructions string) (*models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := models.Agent{
		Name:               name,
		RoleInstructions:   roleInstructions,
		AcceptanceCriteria: acceptanceCriteria,
		GlobalInstructions: globalInstructions,
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("board: create agent: %w", err)
	}
	return &a, nil
}

// UpdateAgent edits an agent's name and instruction texts.
func (s *Store) UpdateAgent(id uint, name, roleInstructions, acceptanceCriteria, globalInstructions string) (*models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a models.Agent
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: agent %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: get agent %d: %w", id, err)
	}

	a.Name = name
	a.RoleInstructions = roleInstructions
	a.AcceptanceCriteria = acceptanceCriteria
	a.GlobalInstructions = globalInstructions
	if err := s.db.Save(&a).Error; err != nil {
		return nil, fmt.Errorf("board: update agent %d: %w", id, err)
	}
	return &a, nil
}

// DeleteAgent removes an agent and clears the reference on every column
// pointing to it. Columns and tasks are never cascaded.
func (s *Store) DeleteAgent(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var a models.Agent
		if err := tx.First(&a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: agent %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("board: get agent %d: %w", id, err)
		}

		if err := tx.Model(&models.Column{}).
			Where("agent_id = ?", id).
			Update("agent_id", nil).Error; err != nil {
			return fmt.Errorf("board: clear agent %d references: %w", id, err)
		}
		if err := tx.Delete(&models.Agent{}, id).Error; err != nil {
			return fmt.Errorf("board: delete agent %d: %w", id, err)
		}
		return nil
	})
}

// GetAgent returns one agent by id.
func (s *Store) GetAgent(id uint) (*models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a models.Agent
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: agent %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: get agent %d: %w", id, err)
	}
	return &a, nil
}

// Agents lists all agents by id ascending.
func (s *Store) Agents() ([]models.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var agents []models.Agent
	if err := s.db.Order("id ASC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("board: list agents: %w", err)
	}
	return agents, nil
}
