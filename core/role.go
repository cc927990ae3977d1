package core

// A Role is the site-wide function of a user account. Per-asset
// exceptions are not modeled here but as ShareGrants.
type Role int

const (
	RoleNone       Role = 0 // no role, only valid as "allowed role cleared"
	Admin          Role = 1
	ContentCreator Role = 2
	SEOSpecialist  Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case Admin:
		return "admin"
	case ContentCreator:
		return "content creator"
	case SEOSpecialist:
		return "seo specialist"
	}
	return "unknown"
}

func (r Role) Valid() bool {
	switch r {
	case Admin:
		return true
	case ContentCreator:
		return true
	case SEOSpecialist:
		return true
	default:
		return false
	}
}

// Roles contains all assignable roles, for select boxes.
var Roles = []Role{Admin, ContentCreator, SEOSpecialist}
