package core

// A ShareGrant is an explicit, asset-scoped exception granting a role or
// a single user access outside the asset's visibility rule. Exactly one
// of Role and UserID is set. Grants live and die independently of the
// asset's status, but are deleted with the asset.
type ShareGrant struct {
	AssetID int
	Role    Role // RoleNone if the grant targets a user
	UserID  int  // zero if the grant targets a role
}

type ShareDB interface {
	DeleteGrants(assetID int) error // cascade on asset deletion
	GetGrants(assetID int) ([]ShareGrant, error)
	GetAllGrants() (map[int][]ShareGrant, error) // asset id -> grants
	InsertRoleGrant(assetID int, role Role) error // inserting a duplicate is a no-op
	InsertUserGrant(assetID int, userID int) error
	RemoveRoleGrant(assetID int, role Role) error
	RemoveUserGrant(assetID int, userID int) error
}

// A ShareIndex answers membership questions about the grants of one
// asset. Duplicate grants collapse here even if the database let them
// through.
type ShareIndex struct {
	roles map[Role]struct{}
	users map[int]struct{}
}

func NewShareIndex(grants []ShareGrant) ShareIndex {
	var idx = ShareIndex{
		roles: make(map[Role]struct{}),
		users: make(map[int]struct{}),
	}
	for _, g := range grants {
		if g.UserID != 0 {
			idx.users[g.UserID] = struct{}{}
		} else if g.Role != RoleNone {
			idx.roles[g.Role] = struct{}{}
		}
	}
	return idx
}

func (idx ShareIndex) HasRole(r Role) bool {
	_, ok := idx.roles[r]
	return ok
}

func (idx ShareIndex) HasUser(userID int) bool {
	_, ok := idx.users[userID]
	return ok
}

func (idx ShareIndex) Len() int {
	return len(idx.roles) + len(idx.users)
}
