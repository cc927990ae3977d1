package core

import (
	"fmt"
)

// A User is an immutable snapshot of an account, loaded once per request.
// The engine takes it as plain data and never reloads it, so role and
// active flag can't change in the middle of an evaluation.
type User struct {
	ID        int
	Name      string // can be email address
	Role      Role
	CompanyID int // zero if the user belongs to no company
	Active    bool
}

type UserDB interface {
	ChangePassword(u User, old, new string) error
	Delete(u User) error
	GetUser(id int) (User, error)
	GetUserByName(name string) (User, error)
	GetAllUsers(limit, offset int) ([]User, error)
	InsertUser(name string, role Role) (User, error)
	LoginUser(name, password string) (User, error) // must refuse inactive accounts
	SetActive(u User, active bool) error
	SetCompany(u User, companyID int) error
	SetPassword(u User, password string) error
	SetRole(u User, role Role) error
	Writeable() bool
}

// InsertUser shadows UserDB.InsertUser.
func (c *CoreDB) InsertUser(name string, role Role) (User, error) {
	if !role.Valid() {
		return User{}, fmt.Errorf("role %d: %w", int(role), ErrInvalid)
	}
	return c.UserDB.InsertUser(name, role)
}

// SetCompany shadows UserDB.SetCompany. Company zero means "no company".
func (c *CoreDB) SetCompany(u User, companyID int) error {
	if companyID < 0 {
		return fmt.Errorf("company %d: %w", companyID, ErrInvalid)
	}
	return c.UserDB.SetCompany(u, companyID)
}

// SetPassword shadows UserDB.SetPassword.
func (c *CoreDB) SetPassword(u User, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return c.UserDB.SetPassword(u, password)
}

// SetRole shadows UserDB.SetRole.
func (c *CoreDB) SetRole(u User, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("role %d: %w", int(role), ErrInvalid)
	}
	return c.UserDB.SetRole(u, role)
}
