package core

import (
	"errors"
	"fmt"
)

// In-memory database implementations for tests. They mimic what the
// sqldb package does, including the conditional write in UpdateStatus.

var errTestNotFound = errors.New("not found")

type memAssetDB struct {
	assets map[int]*Asset
	nextID int
}

func newMemAssetDB() *memAssetDB {
	return &memAssetDB{assets: make(map[int]*Asset), nextID: 1}
}

func (db *memAssetDB) CountAssets() (int, error) {
	return len(db.assets), nil
}

func (db *memAssetDB) DeleteAsset(a *Asset) error {
	delete(db.assets, a.ID)
	return nil
}

func (db *memAssetDB) GetAsset(id int) (*Asset, error) {
	if a, ok := db.assets[id]; ok {
		var copied = *a
		return &copied, nil
	}
	return nil, errTestNotFound
}

func (db *memAssetDB) GetAllAssets(limit, offset int) ([]*Asset, error) {
	var result []*Asset
	for id := 1; id < db.nextID; id++ {
		if a, ok := db.assets[id]; ok {
			var copied = *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (db *memAssetDB) GetAssetsByStatus(status Status, limit, offset int) ([]*Asset, error) {
	all, _ := db.GetAllAssets(limit, offset)
	var result []*Asset
	for _, a := range all {
		if a.Status == status {
			result = append(result, a)
		}
	}
	return result, nil
}

func (db *memAssetDB) GetAssetsByUploader(uploaderID int, limit, offset int) ([]*Asset, error) {
	all, _ := db.GetAllAssets(limit, offset)
	var result []*Asset
	for _, a := range all {
		if a.UploaderID == uploaderID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (db *memAssetDB) InsertAsset(a *Asset) (*Asset, error) {
	var stored = *a
	stored.ID = db.nextID
	db.nextID++
	db.assets[stored.ID] = &stored
	var copied = stored
	return &copied, nil
}

func (db *memAssetDB) IsNotFound(err error) bool {
	return errors.Is(err, errTestNotFound)
}

func (db *memAssetDB) UpdateMeta(a *Asset) error {
	stored, ok := db.assets[a.ID]
	if !ok {
		return errTestNotFound
	}
	stored.Name = a.Name
	stored.Description = a.Description
	stored.CompanyID = a.CompanyID
	return nil
}

func (db *memAssetDB) UpdateVisibility(a *Asset) error {
	stored, ok := db.assets[a.ID]
	if !ok {
		return errTestNotFound
	}
	stored.Visibility = a.Visibility
	stored.AllowedRole = a.AllowedRole
	return nil
}

func (db *memAssetDB) UpdateStatus(a *Asset, expect Status) error {
	stored, ok := db.assets[a.ID]
	if !ok {
		return errTestNotFound
	}
	if stored.Status != expect {
		return fmt.Errorf("asset %d is no longer %s: %w", a.ID, expect, ErrStale)
	}
	stored.Status = a.Status
	stored.Visibility = a.Visibility
	stored.AllowedRole = a.AllowedRole
	stored.RejectionReason = a.RejectionReason
	stored.ApprovedAt = a.ApprovedAt
	stored.RejectedAt = a.RejectedAt
	return nil
}

type memShareDB struct {
	grants map[int][]ShareGrant
}

func newMemShareDB() *memShareDB {
	return &memShareDB{grants: make(map[int][]ShareGrant)}
}

func (db *memShareDB) DeleteGrants(assetID int) error {
	delete(db.grants, assetID)
	return nil
}

func (db *memShareDB) GetGrants(assetID int) ([]ShareGrant, error) {
	return db.grants[assetID], nil
}

func (db *memShareDB) GetAllGrants() (map[int][]ShareGrant, error) {
	return db.grants, nil
}

func (db *memShareDB) InsertRoleGrant(assetID int, role Role) error {
	for _, g := range db.grants[assetID] {
		if g.Role == role && g.UserID == 0 {
			return nil
		}
	}
	db.grants[assetID] = append(db.grants[assetID], ShareGrant{AssetID: assetID, Role: role})
	return nil
}

func (db *memShareDB) InsertUserGrant(assetID int, userID int) error {
	for _, g := range db.grants[assetID] {
		if g.UserID == userID {
			return nil
		}
	}
	db.grants[assetID] = append(db.grants[assetID], ShareGrant{AssetID: assetID, UserID: userID})
	return nil
}

func (db *memShareDB) RemoveRoleGrant(assetID int, role Role) error {
	var kept []ShareGrant
	for _, g := range db.grants[assetID] {
		if !(g.Role == role && g.UserID == 0) {
			kept = append(kept, g)
		}
	}
	db.grants[assetID] = kept
	return nil
}

func (db *memShareDB) RemoveUserGrant(assetID int, userID int) error {
	var kept []ShareGrant
	for _, g := range db.grants[assetID] {
		if g.UserID != userID {
			kept = append(kept, g)
		}
	}
	db.grants[assetID] = kept
	return nil
}

type memUserDB struct {
	users map[int]User
}

func newMemUserDB(users ...User) *memUserDB {
	var db = &memUserDB{users: make(map[int]User)}
	for _, u := range users {
		db.users[u.ID] = u
	}
	return db
}

func (db *memUserDB) ChangePassword(u User, old, new string) error { return nil }
func (db *memUserDB) Delete(u User) error                          { delete(db.users, u.ID); return nil }

func (db *memUserDB) GetUser(id int) (User, error) {
	if u, ok := db.users[id]; ok {
		return u, nil
	}
	return User{}, errTestNotFound
}

func (db *memUserDB) GetUserByName(name string) (User, error) {
	for _, u := range db.users {
		if u.Name == name {
			return u, nil
		}
	}
	return User{}, errTestNotFound
}

func (db *memUserDB) GetAllUsers(limit, offset int) ([]User, error) {
	var result []User
	for _, u := range db.users {
		result = append(result, u)
	}
	return result, nil
}

func (db *memUserDB) InsertUser(name string, role Role) (User, error) {
	var u = User{ID: len(db.users) + 1, Name: name, Role: role, Active: true}
	db.users[u.ID] = u
	return u, nil
}

func (db *memUserDB) LoginUser(name, password string) (User, error) { return User{}, errTestNotFound }
func (db *memUserDB) SetActive(u User, active bool) error           { return nil }

func (db *memUserDB) SetCompany(u User, companyID int) error {
	if stored, ok := db.users[u.ID]; ok {
		stored.CompanyID = companyID
		db.users[u.ID] = stored
	}
	return nil
}

func (db *memUserDB) SetPassword(u User, password string) error     { return nil }
func (db *memUserDB) SetRole(u User, role Role) error               { return nil }
func (db *memUserDB) Writeable() bool                               { return true }

type memAuditDB struct {
	entries []AuditEntry
}

func (db *memAuditDB) InsertAudit(e AuditEntry) error {
	db.entries = append(db.entries, e)
	return nil
}

func (db *memAuditDB) GetAuditEntries(limit, offset int) ([]AuditEntry, error) {
	return db.entries, nil
}

type recordingDispatcher struct {
	events []Event
}

func (d *recordingDispatcher) Dispatch(e Event) {
	d.events = append(d.events, e)
}

func newTestDB(users ...User) (*CoreDB, *memAssetDB, *memAuditDB, *recordingDispatcher) {
	var assets = newMemAssetDB()
	var audits = &memAuditDB{}
	var events = &recordingDispatcher{}
	var db = &CoreDB{
		AssetDB: assets,
		AuditDB: audits,
		ShareDB: newMemShareDB(),
		UserDB:  newMemUserDB(users...),
		Events:  events,
	}
	return db, assets, audits, events
}
