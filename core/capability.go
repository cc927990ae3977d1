package core

// CanView decides whether u may open the asset. The rule order matters:
//
// Ownership is checked before everything else. Uploaders must never lose
// sight of their own drafts, pending or rejected work, whatever the
// visibility mode says.
//
// Admins administer every tier except other people's private documents.
// An uploader-only asset opens for an admin only if it was shared with
// them personally.
//
// Everyone else gets the plain visibility evaluation, gated by status:
// visibility says who the asset is for, status says whether it is
// published yet. Unpublished work of others is invisible no matter how
// permissive its visibility mode is.
func CanView(u User, a *Asset, shares ShareIndex) bool {

	if a.Owner(u) {
		return true
	}

	if u.Role == Admin {
		return a.Visibility != UploaderOnly || shares.HasUser(u.ID)
	}

	if a.Status != Approved {
		return false
	}

	return Visible(u, a, shares)
}

// CanEdit decides whether u may change the asset's metadata. Approved
// assets are frozen for their uploaders; changing them afterwards is an
// admin-mediated operation.
func CanEdit(u User, a *Asset) bool {
	if u.Role == Admin {
		return true
	}
	return a.Owner(u) && a.Status != Approved
}

// CanDelete decides whether u may delete the asset. Uploaders may also
// retract a submission that is still waiting for review, but once an
// asset is approved, only an admin can remove it.
func CanDelete(u User, a *Asset) bool {
	if u.Role == Admin {
		return true
	}
	if !a.Owner(u) {
		return false
	}
	switch a.Status {
	case Draft, PendingReview, Rejected:
		return true
	}
	return false
}

// CanApprove decides whether u may approve or reject the asset. Approving
// an already approved asset is refused, not treated as a no-op.
func CanApprove(u User, a *Asset) bool {
	return u.Role == Admin && a.Status == PendingReview
}

// FilterVisible returns the assets u may view. It must stay a plain loop
// over CanView: list and detail page going through different rule sets is
// exactly how they start to disagree.
func FilterVisible(u User, assets []*Asset, shares func(assetID int) ShareIndex) []*Asset {
	var visible = []*Asset{}
	for _, a := range assets {
		if CanView(u, a, shares(a.ID)) {
			visible = append(visible, a)
		}
	}
	return visible
}
