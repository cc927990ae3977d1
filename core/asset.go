package core

// An Asset is an immutable snapshot of one uploaded artifact. Like User,
// it is plain data; everything the engine decides about an asset is
// computed from such a snapshot plus its share grants.
//
// AllowedRole is meaningful iff Visibility == ByRole, RejectionReason iff
// Status == Rejected, ApprovedAt iff the asset was ever approved. The
// workflow operations keep these in sync at transition time.
type Asset struct {
	ID              int
	UploaderID      int // owning user, fixed at creation
	CompanyID       int // zero if the asset belongs to no company
	Name            string
	Description     string // CommonMark
	Visibility      Visibility
	AllowedRole     Role // RoleNone unless Visibility == ByRole
	Status          Status
	RejectionReason string
	TsCreated       int64
	ApprovedAt      int64 // unix, zero if never approved
	RejectedAt      int64 // unix, zero if never rejected
}

type AssetDB interface {
	CountAssets() (int, error)
	DeleteAsset(a *Asset) error
	GetAsset(id int) (*Asset, error)
	GetAllAssets(limit, offset int) ([]*Asset, error)
	GetAssetsByStatus(status Status, limit, offset int) ([]*Asset, error)
	GetAssetsByUploader(uploaderID int, limit, offset int) ([]*Asset, error)
	InsertAsset(a *Asset) (*Asset, error)
	IsNotFound(err error) bool

	// UpdateMeta stores name, description and company of the given snapshot.
	UpdateMeta(a *Asset) error

	// UpdateVisibility stores visibility and allowed role of the given snapshot.
	UpdateVisibility(a *Asset) error

	// UpdateStatus stores status, visibility, allowed role, rejection
	// reason and timestamps of the given snapshot in one atomic write,
	// conditional on the stored status still being expect. If another
	// transition won the race, it returns ErrStale (possibly wrapped)
	// and writes nothing.
	UpdateStatus(a *Asset, expect Status) error
}

// Owner reports whether u uploaded the asset. The uploader can always
// view their asset, no visibility mode or status restricts them.
func (a *Asset) Owner(u User) bool {
	return u.ID == a.UploaderID
}
