package models

// Settings is a singleton row (id 1) holding process-wide defaults.
type Settings struct {
	ID                 uint   `gorm:"primaryKey" json:"-"`
	TargetBranch       string `gorm:"size:128;default:main" json:"targetBranch"`
	GlobalInstructions string `gorm:"type:text" json:"globalInstructions"`
}
