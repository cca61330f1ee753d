package models

// DraftSession is a draft-planning board, optionally tied to a lineup, a tier list and a rival.
type DraftSession struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	LineupID    *string `gorm:"type:uuid;index" json:"lineup_id,omitempty"`
	TierListID  *string `gorm:"type:uuid" json:"tier_list_id,omitempty"`
	EnemyTeamID *string `gorm:"type:uuid" json:"enemy_team_id,omitempty"`
	Notes       string  `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy   string  `gorm:"type:uuid" json:"created_by"`

	Timestamps
}
