// Package board implements the task lifecycle engine and its store.
//
// Every operation runs inside one exclusive critical section: at most one
// operation touches the database at a time, and it runs to completion
// (including all chat and git-event appends) before the next is admitted.
// Notifications go out only after the critical section releases.
package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/qwertukg/boardyard/internal/models"
	"github.com/qwertukg/boardyard/internal/notify"
	"gorm.io/gorm"
)

// Chat message authors used by the engine itself.
const (
	authorGit    = "Git"
	authorSystem = "system"
)

// Store owns the board state. Construct one per process (or per test)
// with New; all methods are safe for concurrent use.
type Store struct {
	db       *gorm.DB
	mu       sync.Mutex
	policy   Policy
	notifier notify.Adapter
	now      func() time.Time
}

// Opts holds optional Store collaborators.
type Opts struct {
	Policy   Policy        // acceptance gate, defaults to ContainsPolicy
	Notifier notify.Adapter // optional lifecycle notifications
	Now      func() time.Time
}

// New creates a Store over an opened, migrated database handle.
func New(gdb *gorm.DB, opts Opts) *Store {
	s := &Store{
		db:       gdb,
		policy:   opts.Policy,
		notifier: opts.Notifier,
		now:      opts.Now,
	}
	if s.policy == nil {
		s.policy = ContainsPolicy{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// publish delivers lifecycle events through the notifier. It must be
// called outside the critical section; failures are logged, never
// surfaced into operation results.
func (s *Store) publish(events []notify.Event) {
	if s.notifier == nil || len(events) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, e := range events {
		if err := s.notifier.Send(ctx, notify.Format(e)); err != nil {
			log.Printf("board: notify %s: %v", e.Kind, err)
		}
	}
}

// appendMessage appends one chat message to a task's log.
func (s *Store) appendMessage(tx *gorm.DB, taskID uint, author, content string) error {
	msg := models.ChatMessage{
		TaskID:    taskID,
		Author:    author,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	}
	if err := tx.Create(&msg).Error; err != nil {
		return fmt.Errorf("board: append message to task %d: %w", taskID, err)
	}
	return nil
}

// loadTask returns the task with its chat log in insertion order.
func loadTask(tx *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task
	err := tx.Preload("Messages", func(q *gorm.DB) *gorm.DB {
		return q.Order("id ASC")
	}).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board: task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("board: load task %d: %w", id, err)
	}
	return &task, nil
}

// loadSettings returns the singleton settings row, or defaults when the
// row was never seeded.
func loadSettings(tx *gorm.DB) (models.Settings, error) {
	var st models.Settings
	err := tx.First(&st, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Settings{ID: 1, TargetBranch: "main"}, nil
	}
	if err != nil {
		return st, fmt.Errorf("board: load settings: %w", err)
	}
	return st, nil
}

// statusFor derives a task status from the kind of its column.
func statusFor(col models.Column) string {
	switch col.SystemKind {
	case models.SystemOpen:
		return models.StatusOpen
	case models.SystemClosed:
		return models.StatusClosed
	default:
		return models.StatusInProgress
	}
}

// Stats returns task counts per status and the total git event count.
// It backs the notify digest.
func (s *Store) Stats() (map[string]int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []struct {
		Status string
		N      int
	}
	if err := s.db.Model(&models.Task{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("board: task stats: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}

	var gitEvents int64
	if err := s.db.Model(&models.GitEvent{}).Count(&gitEvents).Error; err != nil {
		return nil, 0, fmt.Errorf("board: git event count: %w", err)
	}
	return counts, gitEvents, nil
}

// GitEvents returns the global git event log in insertion order.
func (s *Store) GitEvents() ([]models.GitEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []models.GitEvent
	if err := s.db.Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("board: list git events: %w", err)
	}
	return events, nil
}
