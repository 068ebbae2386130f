// Package models defines the GORM entities shared across Boardyard.
package models

import "time"

// Board owns columns and tasks by reference.
type Board struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:128;not null" json:"name"`
	TargetBranch string `gorm:"size:128;default:main" json:"targetBranch"`
	Description  string `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// System column kinds. A board always has one column of each kind.
const (
	SystemOpen   = "open"
	SystemClosed = "closed"
)

// Column belongs to exactly one board. Position defines left-to-right
// ordering; ties break by id ascending.
type Column struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID    uint   `gorm:"not null;index" json:"boardId"`
	Name       string `gorm:"size:128;not null" json:"name"`
	Position   int    `gorm:"default:0" json:"order"`
	AgentID    *uint  `gorm:"index" json:"agentId"`
	System     bool   `gorm:"default:false" json:"system"`
	SystemKind string `gorm:"size:8" json:"systemKind,omitempty"`
}
