package sqldb

import (
	"database/sql"

	"github.com/seodeck/depot/core"
)

// AuditDB is insert-mostly. Entries are never updated or deleted here;
// retention is an operations concern.
type AuditDB struct {
	db     *sql.DB
	getAll *sql.Stmt
	insert *sql.Stmt
}

func NewAuditDB(db *sql.DB) *AuditDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS audit (
			id INTEGER PRIMARY KEY,
			actorId int(11) NOT NULL,
			assetId int(11) NOT NULL,
			action varchar(16) NOT NULL,
			denied int(1) NOT NULL,
			oldStatus int(11) NOT NULL,
			newStatus int(11) NOT NULL,
			ts int(11) NOT NULL
		);`)

	var auditDB = &AuditDB{}
	auditDB.db = db
	auditDB.getAll = mustPrepare(db, "SELECT actorId, assetId, action, denied, oldStatus, newStatus, ts FROM audit ORDER BY id DESC LIMIT ? OFFSET ?")
	auditDB.insert = mustPrepare(db, "INSERT INTO audit (actorId, assetId, action, denied, oldStatus, newStatus, ts) VALUES (?, ?, ?, ?, ?, ?, ?)")
	return auditDB
}

func (db *AuditDB) InsertAudit(e core.AuditEntry) error {
	var denied = 0
	if e.Denied {
		denied = 1
	}
	_, err := db.insert.Exec(e.ActorID, e.AssetID, e.Action, denied, int(e.OldStatus), int(e.NewStatus), e.Ts)
	return err
}

func (db *AuditDB) GetAuditEntries(limit, offset int) ([]core.AuditEntry, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.AuditEntry{}

	for rows.Next() {
		var e core.AuditEntry
		var denied, oldStatus, newStatus int
		if err = rows.Scan(&e.ActorID, &e.AssetID, &e.Action, &denied, &oldStatus, &newStatus, &e.Ts); err != nil {
			return nil, err
		}
		e.Denied = denied != 0
		e.OldStatus = core.Status(oldStatus)
		e.NewStatus = core.Status(newStatus)
		all = append(all, e)
	}

	return all, nil
}
