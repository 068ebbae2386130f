package models

// Agent holds the instructions attached to a column. Columns reference
// agents weakly; deleting an agent clears those references.
type Agent struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string `gorm:"size:128;not null" json:"name"`
	RoleInstructions   string `gorm:"type:text" json:"roleInstructions"`
	AcceptanceCriteria string `gorm:"type:text" json:"acceptanceCriteria"`
	GlobalInstructions string `gorm:"type:text" json:"globalInstructions"`
}
