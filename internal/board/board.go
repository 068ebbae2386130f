package board

import (
	"errors"
	"fmt"

	"github.com/qwertukg/boardyard/internal/models"
	"gorm.io/gorm"
)

// Closed system columns sit at a fixed position far right of user columns.
const closedColumnPosition = 9999

// CreateBoard creates a board together with its two system columns.
// An empty targetBranch falls back to the settings default.
func (s *Store) CreateBoard(name, targetBranch, description string) (*models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out *models.Board
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if targetBranch == "" {
			st, err := loadSettings(tx)
			if err != nil {
				return err
			}
			targetBranch = st.TargetBranch
		}

		b := models.Board{Name: name, TargetBranch: targetBranch, Description: description}
		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("board: create board: %w", err)
		}

		system := []models.Column{
			{BoardID: b.ID, Name: "Open", Position: 0, System: true, SystemKind: models.SystemOpen},
			{BoardID: b.ID, Name: "Closed", Position: closedColumnPosition, System: true, SystemKind: models.SystemClosed},
		}
		for i := range system {
			if err := tx.Create(&system[i]).Error; err != nil {
				return fmt.Errorf("board: create system column %q: %w", system[i].Name, err)
			}
		}

		out = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBoard edits name, description and, when non-empty, targetBranch.
func (s *Store) UpdateBoard(id uint, name, targetBranch, description string) (*models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b models.Board
	if err := s.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: board %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: get board %d: %w", id, err)
	}

	b.Name = name
	b.Description = description
	if targetBranch != "" {
		b.TargetBranch = targetBranch
	}
	if err := s.db.Save(&b).Error; err != nil {
		return nil, fmt.Errorf("board: update board %d: %w", id, err)
	}
	return &b, nil
}

// DeleteBoard removes a board and cascades to its columns and tasks.
// Git events survive: the global log outlives the entities that wrote it.
func (s *Store) DeleteBoard(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var b models.Board
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: board %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("board: get board %d: %w", id, err)
		}

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.ChatMessage{}).Error; err != nil {
			return fmt.Errorf("board: delete chat logs of board %d: %w", id, err)
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("board: delete tasks of board %d: %w", id, err)
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.Column{}).Error; err != nil {
			return fmt.Errorf("board: delete columns of board %d: %w", id, err)
		}
		if err := tx.Delete(&models.Board{}, id).Error; err != nil {
			return fmt.Errorf("board: delete board %d: %w", id, err)
		}
		return nil
	})
}

// GetBoard returns one board by id.
func (s *Store) GetBoard(id uint) (*models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b models.Board
	if err := s.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: board %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: get board %d: %w", id, err)
	}
	return &b, nil
}

// Boards lists all boards by id ascending.
func (s *Store) Boards() ([]models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var boards []models.Board
	if err := s.db.Order("id ASC").Find(&boards).Error; err != nil {
		return nil, fmt.Errorf("board: list boards: %w", err)
	}
	return boards, nil
}

// View is the read-only aggregate snapshot of one board.
type View struct {
	Board   models.Board    `json:"board"`
	Columns []models.Column `json:"columns"`
	Tasks   []models.Task   `json:"tasks"`
	Agents  []models.Agent  `json:"agents"`
}

// BoardView assembles a board with its columns, tasks (chat logs
// included) and the agents its columns reference. The whole snapshot is
// taken inside one critical section, so it never shows a half-applied move.
func (s *Store) BoardView(id uint) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var v View
	if err := s.db.First(&v.Board, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: board %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: get board %d: %w", id, err)
	}

	if err := s.db.Where("board_id = ?", id).
		Order("position ASC, id ASC").
		Find(&v.Columns).Error; err != nil {
		return nil, fmt.Errorf("board: list columns of board %d: %w", id, err)
	}

	if err := s.db.Where("board_id = ?", id).
		Preload("Messages", func(q *gorm.DB) *gorm.DB { return q.Order("id ASC") }).
		Order("id ASC").
		Find(&v.Tasks).Error; err != nil {
		return nil, fmt.Errorf("board: list tasks of board %d: %w", id, err)
	}

	agentIDs := make([]uint, 0, len(v.Columns))
	for _, c := range v.Columns {
		if c.AgentID != nil {
			agentIDs = append(agentIDs, *c.AgentID)
		}
	}
	if len(agentIDs) > 0 {
		if err := s.db.Where("id IN ?", agentIDs).
			Order("id ASC").
			Find(&v.Agents).Error; err != nil {
			return nil, fmt.Errorf("board: list agents of board %d: %w", id, err)
		}
	}
	return &v, nil
}
