package core

import (
	"testing"
)

func TestVisible(t *testing.T) {

	var (
		uploader   = User{ID: 1, Role: ContentCreator, CompanyID: 10}
		admin      = User{ID: 2, Role: Admin, CompanyID: 10}
		colleague  = User{ID: 3, Role: SEOSpecialist, CompanyID: 10}
		outsider   = User{ID: 4, Role: ContentCreator, CompanyID: 20}
		freelancer = User{ID: 5, Role: ContentCreator} // no company
	)

	var asset = func(v Visibility, allowedRole Role) *Asset {
		return &Asset{ID: 100, UploaderID: 1, CompanyID: 10, Visibility: v, AllowedRole: allowedRole, Status: Approved}
	}

	var none = NewShareIndex(nil)

	tests := []struct {
		name   string
		user   User
		asset  *Asset
		shares ShareIndex
		want   bool
	}{
		{"uploader only, uploader", uploader, asset(UploaderOnly, RoleNone), none, true},
		{"uploader only, admin", admin, asset(UploaderOnly, RoleNone), none, false},
		{"uploader only, colleague", colleague, asset(UploaderOnly, RoleNone), none, false},

		{"admin only, admin", admin, asset(AdminOnly, RoleNone), none, true},
		{"admin only, uploader", uploader, asset(AdminOnly, RoleNone), none, true},
		{"admin only, colleague", colleague, asset(AdminOnly, RoleNone), none, false},

		{"company, same company", colleague, asset(Company, RoleNone), none, true},
		{"company, other company", outsider, asset(Company, RoleNone), none, false},
		{"company, user without company", freelancer, asset(Company, RoleNone), none, false},

		{"team admits nobody", colleague, asset(Team, RoleNone), none, false},
		{"team admits no admin", admin, asset(Team, RoleNone), none, false},

		{"role, matching role", colleague, asset(ByRole, SEOSpecialist), none, true},
		{"role, other role", outsider, asset(ByRole, SEOSpecialist), none, false},
		{"role, via grant", outsider, asset(ByRole, SEOSpecialist), NewShareIndex([]ShareGrant{{AssetID: 100, Role: ContentCreator}}), true},

		{"selected users, not selected", colleague, asset(SelectedUsers, RoleNone), none, false},
		{"selected users, selected", colleague, asset(SelectedUsers, RoleNone), NewShareIndex([]ShareGrant{{AssetID: 100, UserID: 3}}), true},

		{"public, outsider", outsider, asset(Public, RoleNone), none, true},
		{"public, freelancer", freelancer, asset(Public, RoleNone), none, true},

		{"unknown mode admits nobody", admin, asset(Visibility(42), RoleNone), none, false},
	}

	for _, test := range tests {
		if got := Visible(test.user, test.asset, test.shares); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestVisibleCompanyZeroNeverMatches(t *testing.T) {
	// two parties without a company are not "the same company"
	var u = User{ID: 1, Role: ContentCreator, CompanyID: 0}
	var a = &Asset{ID: 1, UploaderID: 2, CompanyID: 0, Visibility: Company, Status: Approved}
	if Visible(u, a, NewShareIndex(nil)) {
		t.Error("asset without company must not be visible to user without company")
	}
}
