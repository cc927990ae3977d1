package core

// A Visibility is the declared audience tier of an asset. It says who an
// asset is meant for. Whether the asset is published yet is a separate
// question, answered by its Status.
type Visibility int

const (
	UploaderOnly  Visibility = 1 // private documents, the uploader and nobody else
	AdminOnly     Visibility = 2
	Company       Visibility = 3 // everyone in the same company as the asset
	Team          Visibility = 4 // reserved, there is no team entity yet
	ByRole        Visibility = 5 // everyone holding the allowed role
	SelectedUsers Visibility = 6 // users the asset was explicitly shared with
	Public        Visibility = 7 // every logged-in user
)

func (v Visibility) String() string {
	switch v {
	case UploaderOnly:
		return "uploader only"
	case AdminOnly:
		return "admins only"
	case Company:
		return "company"
	case Team:
		return "team"
	case ByRole:
		return "role"
	case SelectedUsers:
		return "selected users"
	case Public:
		return "public"
	}
	return "unknown"
}

func (v Visibility) Valid() bool {
	switch v {
	case UploaderOnly, AdminOnly, Company, Team, ByRole, SelectedUsers, Public:
		return true
	default:
		return false
	}
}

// Visibilities contains all visibility modes, for select boxes.
var Visibilities = []Visibility{UploaderOnly, AdminOnly, Company, Team, ByRole, SelectedUsers, Public}

// Visible computes the base view permission for one user and one asset,
// strictly by visibility mode. Ownership short-circuits, admin policy and
// status gating are layered on top of this in CanView, they don't belong
// here.
func Visible(u User, a *Asset, shares ShareIndex) bool {
	switch a.Visibility {
	case UploaderOnly:
		return u.ID == a.UploaderID
	case AdminOnly:
		return u.Role == Admin || u.ID == a.UploaderID
	case Company:
		if a.CompanyID == 0 || u.CompanyID == 0 {
			return false // no company never matches, not even another 'no company'
		}
		return u.CompanyID == a.CompanyID
	case Team:
		// There is no team entity. Until one exists, team visibility
		// admits nobody rather than silently behaving like another mode.
		return false
	case ByRole:
		// AllowedRole is the primary mechanism. A role-targeted
		// ShareGrant is an equivalent declaration, kept for assets
		// shared under the old scheme.
		if a.AllowedRole.Valid() && a.AllowedRole == u.Role {
			return true
		}
		return shares.HasRole(u.Role)
	case SelectedUsers:
		return shares.HasUser(u.ID)
	case Public:
		return true
	}
	return false // unknown modes admit nobody
}
