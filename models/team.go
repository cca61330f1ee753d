package models

// Team is a rival organization we scout.
type Team struct {
	ID      string        `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name    string        `gorm:"not null" json:"name"`
	Slug    string        `gorm:"uniqueIndex;not null" json:"slug"`
	Region  string        `gorm:"type:varchar(16)" json:"region"`
	Notes   string        `gorm:"type:text" json:"notes,omitempty"`
	Players []RivalPlayer `json:"players,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`

	Timestamps
}

// RivalPlayer is a known member of a rival roster.
type RivalPlayer struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TeamID       string `gorm:"type:uuid;index;not null" json:"team_id"`
	SummonerName string `gorm:"not null" json:"summoner_name"`
	Role         string `gorm:"type:varchar(16)" json:"role"`
}

// Lineup is a named roster grouping, e.g. main roster or academy.
type Lineup struct {
	ID      string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name    string          `gorm:"uniqueIndex;not null" json:"name"`
	Players []PlayerProfile `json:"players,omitempty" gorm:"foreignKey:LineupID"`

	Timestamps
}

// PlayerProfile is a tracked member of our own roster.
type PlayerProfile struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	LineupID     *string `gorm:"type:uuid;index" json:"lineup_id,omitempty"`
	UserID       *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SummonerName string  `gorm:"not null" json:"summoner_name"`
	Role         string  `gorm:"type:varchar(16)" json:"role"`

	Timestamps
}
