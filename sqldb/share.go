package sqldb

import (
	"database/sql"

	"github.com/seodeck/depot/core"
)

// Grants are stored with either targetRole or targetUser zero. The
// primary key makes duplicates impossible, INSERT OR IGNORE makes
// inserting them a no-op rather than an error.
type ShareDB struct {
	db         *sql.DB
	deleteAll  *sql.Stmt
	get        *sql.Stmt
	getAll     *sql.Stmt
	insert     *sql.Stmt
	removeRole *sql.Stmt
	removeUser *sql.Stmt
}

func NewShareDB(db *sql.DB) *ShareDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS share (
			assetId int(11) NOT NULL,
			targetRole int(11) NOT NULL DEFAULT 0,
			targetUser int(11) NOT NULL DEFAULT 0,
			PRIMARY KEY (assetId, targetRole, targetUser)
		);`)

	var shareDB = &ShareDB{}
	shareDB.db = db
	shareDB.deleteAll = mustPrepare(db, "DELETE FROM share WHERE assetId = ?")
	shareDB.get = mustPrepare(db, "SELECT targetRole, targetUser FROM share WHERE assetId = ?")
	shareDB.getAll = mustPrepare(db, "SELECT assetId, targetRole, targetUser FROM share")
	shareDB.insert = mustPrepare(db, "INSERT OR IGNORE INTO share (assetId, targetRole, targetUser) VALUES (?, ?, ?)")
	shareDB.removeRole = mustPrepare(db, "DELETE FROM share WHERE assetId = ? AND targetRole = ?")
	shareDB.removeUser = mustPrepare(db, "DELETE FROM share WHERE assetId = ? AND targetUser = ?")
	return shareDB
}

func (db *ShareDB) DeleteGrants(assetID int) error {
	_, err := db.deleteAll.Exec(assetID)
	return err
}

func (db *ShareDB) GetGrants(assetID int) ([]core.ShareGrant, error) {

	rows, err := db.get.Query(assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants = []core.ShareGrant{}

	for rows.Next() {
		var role, userID int
		if err = rows.Scan(&role, &userID); err != nil {
			return nil, err
		}
		grants = append(grants, core.ShareGrant{AssetID: assetID, Role: core.Role(role), UserID: userID})
	}

	return grants, nil
}

func (db *ShareDB) GetAllGrants() (map[int][]core.ShareGrant, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = make(map[int][]core.ShareGrant)

	for rows.Next() {
		var assetID, role, userID int
		if err = rows.Scan(&assetID, &role, &userID); err != nil {
			return nil, err
		}
		all[assetID] = append(all[assetID], core.ShareGrant{AssetID: assetID, Role: core.Role(role), UserID: userID})
	}

	return all, nil
}

func (db *ShareDB) InsertRoleGrant(assetID int, role core.Role) error {
	_, err := db.insert.Exec(assetID, int(role), 0)
	return err
}

func (db *ShareDB) InsertUserGrant(assetID int, userID int) error {
	_, err := db.insert.Exec(assetID, 0, userID)
	return err
}

func (db *ShareDB) RemoveRoleGrant(assetID int, role core.Role) error {
	_, err := db.removeRole.Exec(assetID, int(role))
	return err
}

func (db *ShareDB) RemoveUserGrant(assetID int, userID int) error {
	_, err := db.removeUser.Exec(assetID, userID)
	return err
}
