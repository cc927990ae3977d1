package sqldb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/seodeck/depot/core"
)

type AssetDB struct {
	*sql.DB
	count           *sql.Stmt
	delete          *sql.Stmt
	get             *sql.Stmt
	getAll          *sql.Stmt
	getByStatus     *sql.Stmt
	getByUploader   *sql.Stmt
	insert          *sql.Stmt
	updateMeta      *sql.Stmt
	updateStatus    *sql.Stmt
	updateVisiblity *sql.Stmt
}

const assetColumns = "id, uploaderId, companyId, name, description, visibility, allowedRole, status, rejectionReason, tsCreated, approvedAt, rejectedAt"

func NewAssetDB(db *sql.DB) *AssetDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS asset (
			id INTEGER PRIMARY KEY,
			uploaderId int(11) NOT NULL,
			companyId int(11) NOT NULL DEFAULT 0,
			name varchar(128) NOT NULL,
			description text NOT NULL,
			visibility int(11) NOT NULL,
			allowedRole int(11) NOT NULL DEFAULT 0,
			status int(11) NOT NULL,
			rejectionReason text NOT NULL DEFAULT '',
			tsCreated int(11) NOT NULL,
			approvedAt int(11) NOT NULL DEFAULT 0,
			rejectedAt int(11) NOT NULL DEFAULT 0
		);`)

	var assetDB = &AssetDB{}
	assetDB.DB = db
	assetDB.count = mustPrepare(db, "SELECT COUNT(1) FROM asset")
	assetDB.delete = mustPrepare(db, "DELETE FROM asset WHERE id = ?")
	assetDB.get = mustPrepare(db, "SELECT "+assetColumns+" FROM asset WHERE id = ? LIMIT 1")
	assetDB.getAll = mustPrepare(db, "SELECT "+assetColumns+" FROM asset ORDER BY tsCreated DESC LIMIT ? OFFSET ?")
	assetDB.getByStatus = mustPrepare(db, "SELECT "+assetColumns+" FROM asset WHERE status = ? ORDER BY tsCreated DESC LIMIT ? OFFSET ?")
	assetDB.getByUploader = mustPrepare(db, "SELECT "+assetColumns+" FROM asset WHERE uploaderId = ? ORDER BY tsCreated DESC LIMIT ? OFFSET ?")
	assetDB.insert = mustPrepare(db, "INSERT INTO asset (uploaderId, companyId, name, description, visibility, allowedRole, status, rejectionReason, tsCreated, approvedAt, rejectedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	assetDB.updateMeta = mustPrepare(db, "UPDATE asset SET name = ?, description = ?, companyId = ? WHERE id = ?")
	// the trailing status condition is the optimistic concurrency check
	assetDB.updateStatus = mustPrepare(db, "UPDATE asset SET status = ?, visibility = ?, allowedRole = ?, rejectionReason = ?, approvedAt = ?, rejectedAt = ? WHERE id = ? AND status = ?")
	assetDB.updateVisiblity = mustPrepare(db, "UPDATE asset SET visibility = ?, allowedRole = ? WHERE id = ?")
	return assetDB
}

func scanAsset(row interface {
	Scan(dest ...interface{}) error
}) (*core.Asset, error) {
	var a = &core.Asset{}
	var visibility, allowedRole, status int
	if err := row.Scan(&a.ID, &a.UploaderID, &a.CompanyID, &a.Name, &a.Description, &visibility, &allowedRole, &status, &a.RejectionReason, &a.TsCreated, &a.ApprovedAt, &a.RejectedAt); err != nil {
		return nil, err
	}
	a.Visibility = core.Visibility(visibility)
	a.AllowedRole = core.Role(allowedRole)
	a.Status = core.Status(status)
	return a, nil
}

func (db *AssetDB) CountAssets() (int, error) {
	var count int
	return count, db.count.QueryRow().Scan(&count)
}

func (db *AssetDB) DeleteAsset(a *core.Asset) error {
	_, err := db.delete.Exec(a.ID)
	return err
}

func (db *AssetDB) GetAsset(id int) (*core.Asset, error) {
	a, err := scanAsset(db.get.QueryRow(id))
	if err != nil {
		return nil, fmt.Errorf("asset %d: %w", id, err)
	}
	return a, nil
}

func (db *AssetDB) queryAssets(stmt *sql.Stmt, args ...interface{}) ([]*core.Asset, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.Asset{}

	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, a)
	}

	return all, nil
}

func (db *AssetDB) GetAllAssets(limit, offset int) ([]*core.Asset, error) {
	return db.queryAssets(db.getAll, limit, offset)
}

func (db *AssetDB) GetAssetsByStatus(status core.Status, limit, offset int) ([]*core.Asset, error) {
	return db.queryAssets(db.getByStatus, int(status), limit, offset)
}

func (db *AssetDB) GetAssetsByUploader(uploaderID int, limit, offset int) ([]*core.Asset, error) {
	return db.queryAssets(db.getByUploader, uploaderID, limit, offset)
}

func (db *AssetDB) InsertAsset(a *core.Asset) (*core.Asset, error) {
	res, err := db.insert.Exec(a.UploaderID, a.CompanyID, a.Name, a.Description, int(a.Visibility), int(a.AllowedRole), int(a.Status), a.RejectionReason, a.TsCreated, a.ApprovedAt, a.RejectedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var inserted = *a
	inserted.ID = int(id)
	return &inserted, nil
}

func (db *AssetDB) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (db *AssetDB) UpdateMeta(a *core.Asset) error {
	_, err := db.updateMeta.Exec(a.Name, a.Description, a.CompanyID, a.ID)
	return err
}

func (db *AssetDB) UpdateVisibility(a *core.Asset) error {
	_, err := db.updateVisiblity.Exec(int(a.Visibility), int(a.AllowedRole), a.ID)
	return err
}

// UpdateStatus writes the whole transition in one statement, conditional
// on the stored status still being expect. If no row matched, another
// transition won the race and the caller gets core.ErrStale.
func (db *AssetDB) UpdateStatus(a *core.Asset, expect core.Status) error {

	res, err := db.updateStatus.Exec(int(a.Status), int(a.Visibility), int(a.AllowedRole), a.RejectionReason, a.ApprovedAt, a.RejectedAt, a.ID, int(expect))
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("asset %d is no longer %s: %w", a.ID, expect, core.ErrStale)
	}

	return nil
}
