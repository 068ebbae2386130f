package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/qwertukg/boardyard/internal/models"
	"github.com/qwertukg/boardyard/internal/notify"
	"gorm.io/gorm"
)

// annotation composes the chat text an agent posts when a task reaches
// its column. Blank when the agent carries no instructions at all.
func annotation(agent models.Agent, col models.Column, st models.Settings) string {
	var parts []string
	for _, p := range []string{
		agent.RoleInstructions,
		agent.AcceptanceCriteria,
		agent.GlobalInstructions,
		st.GlobalInstructions,
	} {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("Working on stage %q. Instructions: %s", col.Name, strings.Join(parts, "; "))
}

// CreateTask allocates a task in the given column. A task born in the
// open system column gets a feature branch immediately; anywhere else it
// starts in progress with no branch.
func (s *Store) CreateTask(boardID, columnID uint, title, description string) (*models.Task, error) {
	s.mu.Lock()
	task, events, err := s.createTask(boardID, columnID, title, description)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.publish(events)
	return task, nil
}

func (s *Store) createTask(boardID, columnID uint, title, description string) (*models.Task, []notify.Event, error) {
	var (
		out    *models.Task
		events []notify.Event
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var b models.Board
		if err := tx.First(&b, boardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: board %d: %w", boardID, ErrNotFound)
			}
			return fmt.Errorf("board: get board %d: %w", boardID, err)
		}
		var col models.Column
		if err := tx.First(&col, columnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: column %d: %w", columnID, ErrNotFound)
			}
			return fmt.Errorf("board: get column %d: %w", columnID, err)
		}
		if col.BoardID != boardID {
			return fmt.Errorf("board: column %d is not on board %d: %w", columnID, boardID, ErrNotFound)
		}

		status := models.StatusInProgress
		if col.SystemKind == models.SystemOpen {
			status = models.StatusOpen
		}

		task := models.Task{
			BoardID:     boardID,
			ColumnID:    columnID,
			Title:       title,
			Description: description,
			Status:      status,
		}
		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("board: create task: %w", err)
		}
		events = append(events, notify.Event{
			Kind: notify.KindTaskCreated, Board: b.Name,
			TaskID: task.ID, Task: task.Title, Detail: col.Name,
		})

		if col.SystemKind == models.SystemOpen {
			name := BranchName(task.ID, task.Title)
			if err := tx.Model(&task).Update("branch_name", name).Error; err != nil {
				return fmt.Errorf("board: set branch of task %d: %w", task.ID, err)
			}
			ev := models.GitEvent{Action: models.GitCreate, Branch: name, TargetBranch: b.TargetBranch}
			if err := tx.Create(&ev).Error; err != nil {
				return fmt.Errorf("board: record branch creation: %w", err)
			}
			msg := fmt.Sprintf("Created feature branch %s from %s", name, b.TargetBranch)
			if err := s.appendMessage(tx, task.ID, authorGit, msg); err != nil {
				return err
			}
			events = append(events, notify.Event{
				Kind: notify.KindBranchCreated, Board: b.Name,
				TaskID: task.ID, Task: task.Title,
				Branch: name, Target: b.TargetBranch,
			})
		}

		if col.AgentID != nil {
			var agent models.Agent
			err := tx.First(&agent, *col.AgentID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// dangling reference, nothing to announce
			case err != nil:
				return fmt.Errorf("board: get agent %d: %w", *col.AgentID, err)
			default:
				st, err := loadSettings(tx)
				if err != nil {
					return err
				}
				if text := annotation(agent, col, st); text != "" {
					if err := s.appendMessage(tx, task.ID, agent.Name, text); err != nil {
						return err
					}
				}
			}
		}

		loaded, err := loadTask(tx, task.ID)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, events, nil
}

// UpdateTask edits title and description. The chat log, status, column
// and any existing branch are untouched: branch names are fixed at
// allocation time, a later rename does not rebuild them.
func (s *Store) UpdateTask(id uint, title, description string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: get task %d: %w", id, err)
	}

	err := s.db.Model(&models.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "description": description}).Error
	if err != nil {
		return nil, fmt.Errorf("board: update task %d: %w", id, err)
	}
	return loadTask(s.db, id)
}

// MoveTask applies the column-change algorithm: status derivation,
// branch lifecycle, agent gate with revert. A gate rejection is not an
// error; the returned task simply sits in its previous column with one
// explanatory chat message appended.
func (s *Store) MoveTask(taskID, columnID uint) (*models.Task, error) {
	s.mu.Lock()
	task, events, err := s.moveTask(taskID, columnID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.publish(events)
	return task, nil
}

func (s *Store) moveTask(taskID, columnID uint) (*models.Task, []notify.Event, error) {
	var (
		out    *models.Task
		events []notify.Event
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: task %d: %w", taskID, ErrNotFound)
			}
			return fmt.Errorf("board: get task %d: %w", taskID, err)
		}
		var dest models.Column
		if err := tx.First(&dest, columnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: column %d: %w", columnID, ErrNotFound)
			}
			return fmt.Errorf("board: get column %d: %w", columnID, err)
		}
		if dest.BoardID != task.BoardID {
			return fmt.Errorf("board: column %d is on board %d, task %d on board %d: %w",
				dest.ID, dest.BoardID, task.ID, task.BoardID, ErrInvalidOperation)
		}

		// Moving a task onto its own column is a no-op.
		if dest.ID == task.ColumnID {
			loaded, err := loadTask(tx, task.ID)
			if err != nil {
				return err
			}
			out = loaded
			return nil
		}

		var b models.Board
		if err := tx.First(&b, task.BoardID).Error; err != nil {
			return fmt.Errorf("board: get board %d: %w", task.BoardID, err)
		}

		updates := map[string]interface{}{
			"column_id": dest.ID,
			"status":    statusFor(dest),
		}

		rejected := false
		switch {
		case dest.SystemKind == models.SystemOpen && task.BranchName == nil:
			name := BranchName(task.ID, task.Title)
			updates["branch_name"] = name
			ev := models.GitEvent{Action: models.GitCreate, Branch: name, TargetBranch: b.TargetBranch}
			if err := tx.Create(&ev).Error; err != nil {
				return fmt.Errorf("board: record branch creation: %w", err)
			}
			msg := fmt.Sprintf("Created feature branch %s from %s", name, b.TargetBranch)
			if err := s.appendMessage(tx, task.ID, authorGit, msg); err != nil {
				return err
			}
			events = append(events, notify.Event{
				Kind: notify.KindBranchCreated, Board: b.Name,
				TaskID: task.ID, Task: task.Title,
				Branch: name, Target: b.TargetBranch,
			})

		case dest.SystemKind == models.SystemClosed && task.BranchName != nil:
			branch := *task.BranchName
			updates["branch_name"] = nil
			ev := models.GitEvent{Action: models.GitMerge, Branch: branch, TargetBranch: b.TargetBranch}
			if err := tx.Create(&ev).Error; err != nil {
				return fmt.Errorf("board: record merge: %w", err)
			}
			msg := fmt.Sprintf("Merged branch %s into %s", branch, b.TargetBranch)
			if err := s.appendMessage(tx, task.ID, authorGit, msg); err != nil {
				return err
			}
			events = append(events, notify.Event{
				Kind: notify.KindBranchMerged, Board: b.Name,
				TaskID: task.ID, Task: task.Title,
				Branch: branch, Target: b.TargetBranch,
			})

		default:
			var agent *models.Agent
			if !dest.System && dest.AgentID != nil {
				var a models.Agent
				err := tx.First(&a, *dest.AgentID).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					// dangling reference, move proceeds ungated
				case err != nil:
					return fmt.Errorf("board: get agent %d: %w", *dest.AgentID, err)
				default:
					agent = &a
				}
			}

			// The gate runs before any chat append so a rejected move
			// leaves exactly one message: the rejection itself.
			if agent != nil {
				criteria := strings.TrimSpace(agent.AcceptanceCriteria)
				if criteria != "" && !s.policy.Evaluate(criteria, &task) {
					rejected = true
					msg := "Acceptance criteria not met: " + criteria
					if err := s.appendMessage(tx, task.ID, agent.Name, msg); err != nil {
						return err
					}
					events = append(events, notify.Event{
						Kind: notify.KindGateRejected, Board: b.Name,
						TaskID: task.ID, Task: task.Title, Detail: criteria,
					})
					break
				}
			}

			if err := s.appendMessage(tx, task.ID, authorSystem, "Moved to "+dest.Name); err != nil {
				return err
			}
			events = append(events, notify.Event{
				Kind: notify.KindTaskMoved, Board: b.Name,
				TaskID: task.ID, Task: task.Title, Detail: dest.Name,
			})

			if agent != nil {
				st, err := loadSettings(tx)
				if err != nil {
					return err
				}
				if text := annotation(*agent, dest, st); text != "" {
					if err := s.appendMessage(tx, task.ID, agent.Name, text); err != nil {
						return err
					}
				}
			}
		}

		// A rejected move writes nothing to the task row: the previous
		// column/status pair is preserved exactly.
		if !rejected {
			if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("board: move task %d: %w", task.ID, err)
			}
		}

		loaded, err := loadTask(tx, task.ID)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, events, nil
}

// AddMessage appends a caller-authored chat message to a task.
func (s *Store) AddMessage(taskID uint, author, content string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out *models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board: task %d: %w", taskID, ErrNotFound)
			}
			return fmt.Errorf("board: get task %d: %w", taskID, err)
		}
		if err := s.appendMessage(tx, taskID, author, content); err != nil {
			return err
		}
		loaded, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask returns one task with its chat log.
func (s *Store) GetTask(id uint) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadTask(s.db, id)
}

// Tasks lists a board's tasks by id ascending, chat logs included.
func (s *Store) Tasks(boardID uint) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.Model(&models.Board{}).Where("id = ?", boardID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("board: check board %d: %w", boardID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("board: board %d: %w", boardID, ErrNotFound)
	}

	var tasks []models.Task
	if err := s.db.Where("board_id = ?", boardID).
		Preload("Messages", func(q *gorm.DB) *gorm.DB { return q.Order("id ASC") }).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("board: list tasks of board %d: %w", boardID, err)
	}
	return tasks, nil
}
