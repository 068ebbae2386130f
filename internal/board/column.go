package board

import (
	"errors"
	"fmt"

	"github.com/qwertukg/boardyard/internal/models"
	"gorm.io/gorm"
)

// ColumnUpdate names the column fields an update may touch. Nil pointers
// leave the field alone; ClearAgent removes the agent reference.
type ColumnUpdate struct {
	Name       *string
	Position   *int
	AgentID    *uint
	ClearAgent bool
}

// CreateColumn adds a non-system column to a board. When position is nil
// the column lands after the rightmost user column, between the two
// system columns.
func (s *Store) CreateColumn(boardID uint, name string, agentID *uint, position *int) (*models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out *models.Column
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Board{}).Where("id = ?", boardID).Count(&count).Error; err != nil {
			return fmt.Errorf("board: check board %d: %w", boardID, err)
		}
		if count == 0 {
			return fmt.Errorf("board: board %d: %w", boardID, ErrNotFound)
		}

		if agentID != nil {
			if err := tx.First(&models.Agent{}, *agentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("board: agent %d: %w", *agentID, ErrNotFound)
				}
				return fmt.Errorf("board: check agent %d: %w", *agentID, err)
			}
		}

		pos := 0
		if position != nil {
			pos = *position
		} else {
			// Rightmost user column + 1; system columns stay the
			// outer bounds of the board.
			var max int
			err := tx.Model(&models.Column{}).
				Where("board_id = ? AND system = ?", boardID, false).
				Select("COALESCE(MAX(position), 0)").
				Scan(&max).Error
			if err != nil {
				return fmt.Errorf("board: next column position: %w", err)
			}
			pos = max + 1
		}
		if pos < 0 {
			return fmt.Errorf("board: column position %d: %w", pos, ErrInvalidOperation)
		}

		col := models.Column{BoardID: boardID, Name: name, Position: pos, AgentID: agentID}
		if err := tx.Create(&col).Error; err != nil {
			return fmt.Errorf("board: create column: %w", err)
		}
		out = &col
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateColumn edits a column. System columns keep their kind no matter
// what; renaming them is allowed, moving them below position 0 is not.
func (s *Store) UpdateColumn(id uint, upd ColumnUpdate) (*models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col models.Column
	if err := s.db.First(&col, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: column %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: get column %d: %w", id, err)
	}

	if upd.Position != nil && *upd.Position < 0 {
		return nil, fmt.Errorf("board: column position %d: %w", *upd.Position, ErrInvalidOperation)
	}
	if upd.AgentID != nil {
		if err := s.db.First(&models.Agent{}, *upd.AgentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("board: agent %d: %w", *upd.AgentID, ErrNotFound)
			}
			return nil, fmt.Errorf("board: check agent %d: %w", *upd.AgentID, err)
		}
	}

	if upd.Name != nil {
		col.Name = *upd.Name
	}
	if upd.Position != nil {
		col.Position = *upd.Position
	}
	if upd.ClearAgent {
		col.AgentID = nil
	} else if upd.AgentID != nil {
		col.AgentID = upd.AgentID
	}

	if err := s.db.Save(&col).Error; err != nil {
		return nil, fmt.Errorf("board: update column %d: %w", id, err)
	}
	return &col, nil
}

// DeleteColumn removes a non-system column and cascades to the tasks in
// it. System columns cannot be deleted.
func (s *Store) DeleteColumn(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var col models.Column
		if err := tx.First(&col, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: column %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("board: get column %d: %w", id, err)
		}
		if col.System {
			return fmt.Errorf("board: delete system column %d: %w", id, ErrInvalidOperation)
		}

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("column_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.ChatMessage{}).Error; err != nil {
			return fmt.Errorf("board: delete chat logs of column %d: %w", id, err)
		}
		if err := tx.Where("column_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("board: delete tasks of column %d: %w", id, err)
		}
		if err := tx.Delete(&models.Column{}, id).Error; err != nil {
			return fmt.Errorf("board: delete column %d: %w", id, err)
		}
		return nil
	})
}

// Columns lists a board's columns ordered by position, ties by id.
func (s *Store) Columns(boardID uint) ([]models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.Model(&models.Board{}).Where("id = ?", boardID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("board: check board %d: %w", boardID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("board: board %d: %w", boardID, ErrNotFound)
	}

	var cols []models.Column
	if err := s.db.Where("board_id = ?", boardID).
		Order("position ASC, id ASC").
		Find(&cols).Error; err != nil {
		return nil, fmt.Errorf("board: list columns of board %d: %w", boardID, err)
	}
	return cols, nil
}
