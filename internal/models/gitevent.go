package models

// Git event actions.
const (
	GitCreate = "create"
	GitMerge  = "merge"
)

// GitEvent is an append-only record simulating a version-control action.
// The log is global; events outlive the tasks that produced them.
type GitEvent struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Action       string `gorm:"size:16;not null" json:"action"`
	Branch       string `gorm:"size:128;not null" json:"branch"`
	TargetBranch string `gorm:"size:128;not null" json:"target"`
}
