package sqldb

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/seodeck/depot/core"
	"github.com/seodeck/depot/util"
)

var ErrAuth = errors.New("authentication failed")

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

func hash(salt string, password string) string {
	var hash = sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(hash[:])
}

type UserDB struct {
	*sql.DB
	delete      *sql.Stmt
	get         *sql.Stmt
	getByName   *sql.Stmt
	getAll      *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	setActive   *sql.Stmt
	setCompany  *sql.Stmt
	setPassword *sql.Stmt
	setRole     *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS usr (
			id INTEGER PRIMARY KEY,
			mail varchar(128) NOT NULL,
			role int(11) NOT NULL,
			companyId int(11) NOT NULL DEFAULT 0,
			active int(1) NOT NULL DEFAULT 1,
			salt varchar(64) NOT NULL DEFAULT '',
			password varchar(64) NOT NULL DEFAULT '',
			UNIQUE(mail)
		);`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.delete = mustPrepare(db, "DELETE FROM usr WHERE id = ?")
	userDB.get = mustPrepare(db, "SELECT mail, role, companyId, active FROM usr WHERE id = ? LIMIT 1")
	userDB.getByName = mustPrepare(db, "SELECT id, role, companyId, active FROM usr WHERE mail = ? LIMIT 1")
	userDB.getAll = mustPrepare(db, "SELECT id, mail, role, companyId, active FROM usr ORDER BY mail LIMIT ? OFFSET ?")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (mail, role) VALUES (?, ?)") // empty password field is safe because no hash value equals it
	userDB.login = mustPrepare(db, "SELECT id, role, companyId, active, salt, password FROM usr WHERE mail = ?")
	userDB.setActive = mustPrepare(db, "UPDATE usr SET active = ? WHERE id = ?")
	userDB.setCompany = mustPrepare(db, "UPDATE usr SET companyId = ? WHERE id = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET salt = ?, password = ? WHERE id = ?")
	userDB.setRole = mustPrepare(db, "UPDATE usr SET role = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) Writeable() bool {
	return true
}

func (db *UserDB) ChangePassword(u core.User, old, new string) error {

	var salt, pass string
	var discard interface{}
	if err := db.login.QueryRow(clean(u.Name)).Scan(&discard, &discard, &discard, &discard, &salt, &pass); err != nil {
		return err
	}

	if hash(salt, old) != pass {
		return ErrAuth
	}
	return db.SetPassword(u, new)
}

func (db *UserDB) Delete(u core.User) error {
	_, err := db.delete.Exec(u.ID)
	return err
}

// GetUser may return sql.ErrNoRows.
func (db *UserDB) GetUser(id int) (core.User, error) {
	var u = core.User{ID: id}
	var role, active int
	err := db.get.QueryRow(id).Scan(&u.Name, &role, &u.CompanyID, &active)
	u.Role = core.Role(role)
	u.Active = active != 0
	return u, err
}

func (db *UserDB) GetUserByName(name string) (core.User, error) {
	name = clean(name)
	var u = core.User{Name: name}
	var role, active int
	err := db.getByName.QueryRow(name).Scan(&u.ID, &role, &u.CompanyID, &active)
	u.Role = core.Role(role)
	u.Active = active != 0
	return u, err
}

func (db *UserDB) GetAllUsers(limit, offset int) ([]core.User, error) {

	var all = []core.User{}

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u = core.User{}
		var role, active int
		if err = rows.Scan(&u.ID, &u.Name, &role, &u.CompanyID, &active); err != nil {
			return nil, err
		}
		u.Role = core.Role(role)
		u.Active = active != 0
		all = append(all, u)
	}

	return all, nil
}

func (db *UserDB) InsertUser(name string, role core.Role) (core.User, error) {
	name = clean(name)
	res, err := db.insert.Exec(name, int(role))
	if err != nil {
		return core.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, err
	}
	return core.User{ID: int(id), Name: name, Role: role, Active: true}, nil
}

func (db *UserDB) LoginUser(name, password string) (core.User, error) {

	name = clean(name)

	var u = core.User{Name: name}
	var role, active int
	var salt, pass string

	err := db.login.QueryRow(name).Scan(&u.ID, &role, &u.CompanyID, &active, &salt, &pass)
	if err == sql.ErrNoRows {
		return core.User{}, ErrAuth // user not found
	}
	if err != nil {
		return core.User{}, err
	}

	if hash(salt, password) != pass {
		return core.User{}, ErrAuth // wrong password
	}

	if active == 0 {
		return core.User{}, ErrAuth // deactivated account
	}

	u.Role = core.Role(role)
	u.Active = true
	return u, nil
}

func (db *UserDB) SetActive(u core.User, active bool) error {
	var val = 0
	if active {
		val = 1
	}
	_, err := db.setActive.Exec(val, u.ID)
	return err
}

func (db *UserDB) SetCompany(u core.User, companyID int) error {
	_, err := db.setCompany.Exec(companyID, u.ID)
	return err
}

func (db *UserDB) SetPassword(u core.User, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	if u.ID == 0 {
		return errors.New("can't set password of user 0")
	}

	salt, err := util.RandomString32()
	if err != nil {
		return err
	}

	_, err = db.setPassword.Exec(salt, hash(salt, password), u.ID)
	return err
}

func (db *UserDB) SetRole(u core.User, role core.Role) error {
	_, err := db.setRole.Exec(int(role), u.ID)
	return err
}
