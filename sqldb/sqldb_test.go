package sqldb

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/seodeck/depot/core"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1) // each sqlite :memory: connection is its own database
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAssetDB(t *testing.T) {

	var assets = NewAssetDB(openTestDB(t))

	a, err := assets.InsertAsset(&core.Asset{
		UploaderID:  1,
		CompanyID:   10,
		Name:        "spring banner",
		Description: "hero image",
		Visibility:  core.Company,
		Status:      core.Draft,
		TsCreated:   1000,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("no id assigned")
	}

	loaded, err := assets.GetAsset(a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *loaded != *a {
		t.Fatalf("loaded %+v, want %+v", loaded, a)
	}

	if _, err := assets.GetAsset(999); !assets.IsNotFound(err) {
		t.Errorf("got %v, want not-found", err)
	}

	count, err := assets.CountAssets()
	if err != nil || count != 1 {
		t.Fatalf("count: %d, %v", count, err)
	}

	if err := assets.DeleteAsset(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := assets.GetAsset(a.ID); !assets.IsNotFound(err) {
		t.Error("asset still there after delete")
	}
}

func TestAssetDBUpdateStatus(t *testing.T) {

	var assets = NewAssetDB(openTestDB(t))

	a, err := assets.InsertAsset(&core.Asset{UploaderID: 1, Name: "x", Visibility: core.Public, Status: core.PendingReview, TsCreated: 1000})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var approved = *a
	approved.Status = core.Approved
	approved.ApprovedAt = 2000

	if err := assets.UpdateStatus(&approved, core.PendingReview); err != nil {
		t.Fatalf("update status: %v", err)
	}

	loaded, _ := assets.GetAsset(a.ID)
	if loaded.Status != core.Approved || loaded.ApprovedAt != 2000 {
		t.Fatalf("loaded %s/%d", loaded.Status, loaded.ApprovedAt)
	}

	// the stored status moved on, the same transition must fail now
	var rejected = *a
	rejected.Status = core.Rejected
	rejected.RejectionReason = "too late"
	if err := assets.UpdateStatus(&rejected, core.PendingReview); !errors.Is(err, core.ErrStale) {
		t.Fatalf("got %v, want ErrStale", err)
	}
	loaded, _ = assets.GetAsset(a.ID)
	if loaded.Status != core.Approved {
		t.Error("lost race still modified the asset")
	}
}

func TestAssetDBQueries(t *testing.T) {

	var assets = NewAssetDB(openTestDB(t))

	for i, s := range []core.Status{core.Draft, core.PendingReview, core.PendingReview, core.Approved} {
		if _, err := assets.InsertAsset(&core.Asset{UploaderID: 1 + i%2, Name: "a", Visibility: core.Public, Status: s, TsCreated: int64(1000 + i)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pending, err := assets.GetAssetsByStatus(core.PendingReview, 10, 0)
	if err != nil {
		t.Fatalf("by status: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending, want 2", len(pending))
	}

	mine, err := assets.GetAssetsByUploader(1, 10, 0)
	if err != nil {
		t.Fatalf("by uploader: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("got %d by uploader, want 2", len(mine))
	}

	all, err := assets.GetAllAssets(2, 0)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("limit ignored, got %d", len(all))
	}
	// newest first
	if all[0].TsCreated < all[1].TsCreated {
		t.Error("assets not ordered by creation time")
	}
}

func TestShareDB(t *testing.T) {

	var shares = NewShareDB(openTestDB(t))

	if err := shares.InsertRoleGrant(1, core.SEOSpecialist); err != nil {
		t.Fatalf("insert role grant: %v", err)
	}
	// duplicate is a no-op, not an error
	if err := shares.InsertRoleGrant(1, core.SEOSpecialist); err != nil {
		t.Fatalf("duplicate role grant: %v", err)
	}
	if err := shares.InsertUserGrant(1, 7); err != nil {
		t.Fatalf("insert user grant: %v", err)
	}
	if err := shares.InsertUserGrant(2, 7); err != nil {
		t.Fatalf("insert user grant: %v", err)
	}

	grants, err := shares.GetGrants(1)
	if err != nil {
		t.Fatalf("get grants: %v", err)
	}
	if len(grants) != 2 {
		t.Fatalf("got %d grants, want 2", len(grants))
	}

	all, err := shares.GetAllGrants()
	if err != nil {
		t.Fatalf("get all grants: %v", err)
	}
	if len(all) != 2 || len(all[1]) != 2 || len(all[2]) != 1 {
		t.Fatalf("unexpected grant map: %v", all)
	}

	if err := shares.RemoveUserGrant(1, 7); err != nil {
		t.Fatalf("remove user grant: %v", err)
	}
	grants, _ = shares.GetGrants(1)
	if len(grants) != 1 || grants[0].Role != core.SEOSpecialist {
		t.Fatalf("got %v after remove", grants)
	}

	if err := shares.DeleteGrants(1); err != nil {
		t.Fatalf("delete grants: %v", err)
	}
	grants, _ = shares.GetGrants(1)
	if len(grants) != 0 {
		t.Error("grants still there after cascade delete")
	}
}

func TestUserDB(t *testing.T) {

	var users = NewUserDB(openTestDB(t))

	u, err := users.InsertUser("Alice@Example.com", core.ContentCreator)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if u.Name != "alice@example.com" {
		t.Errorf("name not cleaned: %q", u.Name)
	}

	if err := users.SetPassword(u, "secret"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	logged, err := users.LoginUser("alice@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID || !logged.Active {
		t.Fatalf("logged in as %+v", logged)
	}

	if _, err := users.LoginUser("alice@example.com", "wrong"); err != ErrAuth {
		t.Fatalf("wrong password: got %v, want ErrAuth", err)
	}
	if _, err := users.LoginUser("nobody@example.com", "secret"); err != ErrAuth {
		t.Fatalf("unknown user: got %v, want ErrAuth", err)
	}

	// company assignment is what makes the company visibility tier reachable
	if err := users.SetCompany(u, 10); err != nil {
		t.Fatalf("set company: %v", err)
	}
	if loaded, _ := users.GetUser(u.ID); loaded.CompanyID != 10 {
		t.Errorf("company is %d, want 10", loaded.CompanyID)
	}

	// deactivated accounts can't log in
	if err := users.SetActive(u, false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if _, err := users.LoginUser("alice@example.com", "secret"); err != ErrAuth {
		t.Fatalf("deactivated: got %v, want ErrAuth", err)
	}

	// empty passwords never match the empty password field
	if _, err := users.LoginUser("alice@example.com", ""); err != ErrAuth {
		t.Fatalf("empty password: got %v, want ErrAuth", err)
	}
}

func TestUserDBChangePassword(t *testing.T) {

	var users = NewUserDB(openTestDB(t))

	u, _ := users.InsertUser("bob@example.com", core.SEOSpecialist)
	users.SetPassword(u, "old")

	if err := users.ChangePassword(u, "wrong", "new"); err != ErrAuth {
		t.Fatalf("got %v, want ErrAuth", err)
	}
	if err := users.ChangePassword(u, "old", "new"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := users.LoginUser("bob@example.com", "new"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestAuditDB(t *testing.T) {

	var audits = NewAuditDB(openTestDB(t))

	audits.InsertAudit(core.AuditEntry{ActorID: 1, AssetID: 2, Action: "submit", OldStatus: core.Draft, NewStatus: core.PendingReview, Ts: 1000})
	audits.InsertAudit(core.AuditEntry{ActorID: 3, AssetID: 2, Action: "view", Denied: true, OldStatus: core.PendingReview, NewStatus: core.PendingReview, Ts: 2000})

	entries, err := audits.GetAuditEntries(10, 0)
	if err != nil {
		t.Fatalf("get entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// newest first
	if entries[0].Action != "view" || !entries[0].Denied {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
}
