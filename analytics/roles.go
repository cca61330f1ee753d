package analytics

import "strings"

// Canonical lane roles, in draft order.
const (
	RoleTop     = "TOP"
	RoleJungle  = "JUNGLE"
	RoleMid     = "MID"
	RoleADC     = "ADC"
	RoleSupport = "SUPPORT"
)

// CanonicalRoles lists the five lane roles in display order.
var CanonicalRoles = []string{RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport}

// legacyRoleLabels maps labels found in older match imports onto canonical roles.
// Early recordings used "BOT" for the carry lane.
var legacyRoleLabels = map[string]string{
	"BOT": RoleADC,
}

// NormalizeRole upper-cases a role label and maps legacy labels onto canonical ones.
// Unknown labels are returned upper-cased and trimmed.
func NormalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	if mapped, ok := legacyRoleLabels[r]; ok {
		return mapped
	}
	return r
}

// IsCanonicalRole reports whether role (already normalized) is one of the five lane roles.
func IsCanonicalRole(role string) bool {
	for _, r := range CanonicalRoles {
		if r == role {
			return true
		}
	}
	return false
}

func roleOrder(role string) int {
	for i, r := range CanonicalRoles {
		if r == role {
			return i
		}
	}
	return len(CanonicalRoles)
}
