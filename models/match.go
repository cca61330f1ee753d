package models

import "time"

const (
	MatchTypeScrim      = "SCRIM"
	MatchTypeSoloQ      = "SOLOQ"
	MatchTypeTournament = "TOURNAMENT"
)

// Results are always stored from the home organization's perspective.
const (
	ResultWin    = "WIN"
	ResultLoss   = "LOSS"
	ResultRemake = "REMAKE"
)

const (
	SideBlue = "BLUE"
	SideRed  = "RED"
)

// Match records a single game played by one of our lineups
type Match struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Type        string     `gorm:"type:varchar(16);index;not null;check:type IN ('SCRIM','SOLOQ','TOURNAMENT')" json:"type"`
	Result      string     `gorm:"type:varchar(16);index" json:"result"` // WIN/LOSS/REMAKE, empty while pending
	Side        string     `gorm:"type:varchar(8)" json:"side"`
	BlueBans    []string   `gorm:"serializer:json;type:jsonb" json:"blue_bans"`
	RedBans     []string   `gorm:"serializer:json;type:jsonb" json:"red_bans"`
	EnemyTeamID *string    `gorm:"type:uuid;index" json:"enemy_team_id,omitempty"`
	LineupID    *string    `gorm:"type:uuid;index" json:"lineup_id,omitempty"`
	DurationSec int        `json:"duration_sec" gorm:"default:0"`
	GameVersion string     `gorm:"type:varchar(16);index" json:"game_version"` // e.g. "14.3"
	PlayedAt    *time.Time `json:"played_at,omitempty"`

	EnemyTeam    *Team              `json:"enemy_team,omitempty" gorm:"foreignKey:EnemyTeamID"`
	Participants []MatchParticipant `json:"participants" gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`

	Timestamps
}

// IsFinished reports whether the match has a result that counts towards rates.
func (m *Match) IsFinished() bool {
	return m.Result == ResultWin || m.Result == ResultLoss
}

// MatchParticipant is one champion pick in a match, ally or enemy.
type MatchParticipant struct {
	ID              string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MatchID         string  `gorm:"type:uuid;index;not null" json:"match_id"`
	ChampionName    string  `gorm:"index;not null" json:"champion_name"`
	Role            string  `gorm:"type:varchar(16)" json:"role"`
	IsEnemy         bool    `gorm:"default:false;index" json:"is_enemy"`
	PlayerProfileID *string `gorm:"type:uuid;index" json:"player_profile_id,omitempty"` // set only for tracked ally players

	Kills       int `json:"kills" gorm:"default:0"`
	Deaths      int `json:"deaths" gorm:"default:0"`
	Assists     int `json:"assists" gorm:"default:0"`
	CS          int `json:"cs" gorm:"column:cs;default:0"`
	Damage      int `json:"damage" gorm:"default:0"`
	VisionScore int `json:"vision_score" gorm:"default:0"`
}
