package models

const (
	RoleAdmin   = "ADMIN"
	RoleCoach   = "COACH"
	RoleAnalyst = "ANALYST"
	RolePlayer  = "PLAYER"
)

// User is a staff or player account of the organization.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"type:varchar(16);not null;default:'PLAYER'" json:"role"`
	IsDisabled   bool   `gorm:"default:false" json:"is_disabled"`

	Timestamps
}

// ValidRole reports whether r is one of the known account roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleAnalyst, RolePlayer:
		return true
	}
	return false
}
