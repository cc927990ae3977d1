package core

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/seodeck/depot/filestore"
	"github.com/seodeck/depot/upload"
	"github.com/seodeck/depot/util"
)

type CoreDB struct {
	AssetDB
	AuditDB
	ShareDB
	UserDB
	Events         Dispatcher
	SessionManager *scs.SessionManager
	Uploads        upload.Store

	HMACSecret string  // exported because main sets it
	SqlDB      *sql.DB // kept around for session stores
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {

	if c.HMACSecret == "" {
		var err error
		c.HMACSecret, err = util.RandomString32()
		if err == nil {
			log.Println("generating random HMAC secret")
		} else {
			return fmt.Errorf("error generating random HMAC secret: %v", err)
		}
	}

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"
	c.SessionManager.Cookie.Persist = false                 // don't store cookie across browser sessions
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	resizer, err := filestore.FindResizer()
	if err == nil {
		fmt.Printf("using JPEG resizer: %s\n", resizer.Name())
	} else {
		return err
	}

	c.Uploads = &filestore.Store{
		CacheDir:   "./cache",
		UploadDir:  "./uploads",
		HMACSecret: []byte(c.HMACSecret),
		Resizer:    resizer,
	}

	return nil
}

// GetShareIndex loads the grants of one asset into a ShareIndex.
func (c *CoreDB) GetShareIndex(assetID int) (ShareIndex, error) {
	grants, err := c.ShareDB.GetGrants(assetID)
	if err != nil {
		return ShareIndex{}, err
	}
	return NewShareIndex(grants), nil
}

// RequireView returns ErrUnauthorized if the user may not view the asset.
// Denials are reported to the audit sink.
func (c *CoreDB) RequireView(u User, a *Asset) error {
	shares, err := c.GetShareIndex(a.ID)
	if err != nil {
		return err
	}
	if !CanView(u, a, shares) {
		c.audit(AuditEntry{ActorID: u.ID, AssetID: a.ID, Action: "view", Denied: true, OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
		return fmt.Errorf("view asset %d: %w", a.ID, ErrUnauthorized)
	}
	return nil
}

// RequireEdit returns ErrUnauthorized if the user may not edit the asset.
func (c *CoreDB) RequireEdit(u User, a *Asset) error {
	if !CanEdit(u, a) {
		c.audit(AuditEntry{ActorID: u.ID, AssetID: a.ID, Action: "edit", Denied: true, OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
		return fmt.Errorf("edit asset %d: %w", a.ID, ErrUnauthorized)
	}
	return nil
}

// RequireDelete returns ErrUnauthorized if the user may not delete the asset.
func (c *CoreDB) RequireDelete(u User, a *Asset) error {
	if !CanDelete(u, a) {
		c.audit(AuditEntry{ActorID: u.ID, AssetID: a.ID, Action: "delete", Denied: true, OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
		return fmt.Errorf("delete asset %d: %w", a.ID, ErrUnauthorized)
	}
	return nil
}

// FilterVisible narrows assets down to what the user may view. It loads
// all grants in one go and defers the decisions to the single-item check.
func (c *CoreDB) FilterVisible(u User, assets []*Asset) ([]*Asset, error) {
	all, err := c.ShareDB.GetAllGrants()
	if err != nil {
		return nil, err
	}
	var indexes = make(map[int]ShareIndex, len(all))
	for assetID, grants := range all {
		indexes[assetID] = NewShareIndex(grants)
	}
	return FilterVisible(u, assets, func(assetID int) ShareIndex {
		return indexes[assetID]
	}), nil
}

// CreateAsset inserts a new draft owned by the uploader.
func (c *CoreDB) CreateAsset(uploader User, name, description string, visibility Visibility, allowedRole Role) (*Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("asset name can't be empty: %w", ErrInvalid)
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("visibility %d: %w", int(visibility), ErrInvalid)
	}
	if visibility == ByRole {
		if !allowedRole.Valid() {
			return nil, fmt.Errorf("role visibility requires a role: %w", ErrInvalid)
		}
	} else {
		allowedRole = RoleNone
	}
	return c.AssetDB.InsertAsset(&Asset{
		UploaderID:  uploader.ID,
		CompanyID:   uploader.CompanyID,
		Name:        name,
		Description: description,
		Visibility:  visibility,
		AllowedRole: allowedRole,
		Status:      Draft,
		TsCreated:   time.Now().Unix(),
	})
}

// UpdateMeta shadows AssetDB.UpdateMeta.
func (c *CoreDB) UpdateMeta(actor User, a *Asset, name, description string) (*Asset, error) {
	if err := c.RequireEdit(actor, a); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("asset name can't be empty: %w", ErrInvalid)
	}
	var updated = *a
	updated.Name = name
	updated.Description = description
	if err := c.AssetDB.UpdateMeta(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetVisibility changes the audience tier of an asset. For approved
// assets this is the only way anything about them still changes, and it
// takes an admin.
func (c *CoreDB) SetVisibility(actor User, a *Asset, visibility Visibility, allowedRole Role) (*Asset, error) {
	if a.Status == Approved {
		if actor.Role != Admin {
			c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "edit", Denied: true, OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
			return nil, fmt.Errorf("change visibility of approved asset %d: %w", a.ID, ErrUnauthorized)
		}
	} else if err := c.RequireEdit(actor, a); err != nil {
		return nil, err
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("visibility %d: %w", int(visibility), ErrInvalid)
	}
	if visibility == ByRole {
		if !allowedRole.Valid() {
			return nil, fmt.Errorf("role visibility requires a role: %w", ErrInvalid)
		}
	} else {
		allowedRole = RoleNone
	}
	var updated = *a
	updated.Visibility = visibility
	updated.AllowedRole = allowedRole
	if err := c.AssetDB.UpdateVisibility(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Share adds a grant. Only owners and admins hand out grants. Inserting
// an existing grant changes nothing and is no error.
func (c *CoreDB) Share(actor User, a *Asset, grant ShareGrant) error {
	if !a.Owner(actor) && actor.Role != Admin {
		return fmt.Errorf("share asset %d: %w", a.ID, ErrUnauthorized)
	}
	switch {
	case grant.UserID != 0:
		if _, err := c.UserDB.GetUser(grant.UserID); err != nil {
			return fmt.Errorf("share with user %d: %w", grant.UserID, ErrInvalid)
		}
		return c.ShareDB.InsertUserGrant(a.ID, grant.UserID)
	case grant.Role.Valid():
		return c.ShareDB.InsertRoleGrant(a.ID, grant.Role)
	default:
		return fmt.Errorf("grant needs a role or a user: %w", ErrInvalid)
	}
}

// Unshare removes a grant. Removing a grant that doesn't exist is a no-op.
func (c *CoreDB) Unshare(actor User, a *Asset, grant ShareGrant) error {
	if !a.Owner(actor) && actor.Role != Admin {
		return fmt.Errorf("unshare asset %d: %w", a.ID, ErrUnauthorized)
	}
	if grant.UserID != 0 {
		return c.ShareDB.RemoveUserGrant(a.ID, grant.UserID)
	}
	return c.ShareDB.RemoveRoleGrant(a.ID, grant.Role)
}

// DeleteAsset shadows AssetDB.DeleteAsset. Grants belong to the asset and
// are cascaded, as are its uploaded files.
func (c *CoreDB) DeleteAsset(actor User, a *Asset) error {
	if err := c.RequireDelete(actor, a); err != nil {
		return err
	}
	if err := c.ShareDB.DeleteGrants(a.ID); err != nil {
		return err
	}
	if c.Uploads != nil {
		folder := c.Uploads.Folder(a.ID)
		files, err := folder.Files()
		if err != nil {
			return err
		}
		for _, file := range files {
			if err := folder.Delete(file.Name()); err != nil {
				return err
			}
		}
	}
	if err := c.AssetDB.DeleteAsset(a); err != nil {
		return err
	}
	c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "delete", OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
	return nil
}
