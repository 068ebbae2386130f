package models

import "time"

// Task statuses, derived from the kind of the column the task sits in.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

// Task is the core work item. BranchName is set while the task has an
// open feature branch and nil once the branch is merged away.
type Task struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID     uint    `gorm:"not null;index" json:"boardId"`
	ColumnID    uint    `gorm:"not null;index" json:"columnId"`
	Title       string  `gorm:"size:256;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	BranchName  *string `gorm:"size:128" json:"branchName"`
	Status      string  `gorm:"size:16;default:open;index" json:"status"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Messages []ChatMessage `gorm:"foreignKey:TaskID" json:"messages"`
}

// ChatMessage is an append-only entry in a task's chat log. Rows are
// never updated or reordered; autoincrement order is insertion order.
type ChatMessage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	TaskID    uint   `gorm:"not null;index" json:"-"`
	Author    string `gorm:"size:128;not null" json:"author"`
	Content   string `gorm:"type:text" json:"content"`
	Timestamp int64  `gorm:"not null" json:"timestamp"`
}
