package models

import "time"

// TierList is a ranked set of champion priorities, per lineup or global (LineupID nil).
type TierList struct {
	ID        string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	LineupID  *string         `gorm:"type:uuid;index" json:"lineup_id,omitempty"`
	IsActive  bool            `gorm:"not null;index" json:"is_active"` // no default, false must survive Create
	Entries   []TierListEntry `json:"entries" gorm:"foreignKey:TierListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime;index"`
}

type TierListEntry struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TierListID     string `gorm:"type:uuid;index;not null" json:"tier_list_id"`
	ChampionName   string `gorm:"not null" json:"champion_name"`
	Tier           string `gorm:"type:varchar(4)" json:"tier"` // S, A, B, C, D
	Priority       int    `json:"priority" gorm:"default:0"`
	Role           string `gorm:"type:varchar(16)" json:"role"`
	TacticalStyle  string `gorm:"type:varchar(32)" json:"tactical_style,omitempty"`  // e.g. "engage", "poke", "scaling"
	LaneAllocation string `gorm:"type:varchar(32)" json:"lane_allocation,omitempty"` // e.g. "weakside", "strongside"
	IsBan          bool   `json:"is_ban" gorm:"default:false"`
}

// ChampionDefinition is static champion metadata synced from Data Dragon.
type ChampionDefinition struct {
	Key       string    `gorm:"primaryKey" json:"key"` // normalized name, e.g. "kaisa"
	Name      string    `gorm:"not null" json:"name"`  // display name, e.g. "Kai'Sa"
	Class     string    `gorm:"type:varchar(32);index" json:"class"`
	Tags      []string  `gorm:"serializer:json;type:jsonb" json:"tags"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
