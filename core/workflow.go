package core

import (
	"fmt"
	"strings"
	"time"
)

// The workflow operations take an asset snapshot, check their
// preconditions, and persist the transition through AssetDB.UpdateStatus,
// which is conditional on the stored status still matching the snapshot.
// The snapshot itself is never mutated; callers get a new one back. A
// failed precondition or a lost race leaves the stored asset untouched.

// Submit moves a draft or rejected asset into the review queue. Only the
// uploader submits; a resubmission clears the old rejection reason.
func (c *CoreDB) Submit(a *Asset, actor User) (*Asset, error) {

	if !a.Owner(actor) {
		c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "submit", Denied: true, OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
		return nil, fmt.Errorf("submit asset %d: %w", a.ID, ErrUnauthorized)
	}

	if a.Status != Draft && a.Status != Rejected {
		return nil, fmt.Errorf("submit from %s: %w", a.Status, ErrInvalidTransition)
	}

	var updated = *a
	updated.Status = PendingReview
	updated.RejectionReason = ""
	updated.RejectedAt = 0

	if err := c.AssetDB.UpdateStatus(&updated, a.Status); err != nil {
		return nil, err
	}

	var now = time.Now().Unix()
	c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "submit", OldStatus: a.Status, NewStatus: PendingReview, Ts: now})
	c.dispatch(Event{Name: EventSubmitted, AssetID: a.ID, AssetName: a.Name, ActorID: actor.ID, OldStatus: a.Status, NewStatus: PendingReview, Ts: now})

	return &updated, nil
}

// Approve releases a pending asset. The reviewer can change the
// visibility in the same step; choosing role visibility then requires an
// allowed role, any other choice clears it. newVisibility zero means
// "leave visibility as it is".
func (c *CoreDB) Approve(a *Asset, actor User, newVisibility Visibility, allowedRole Role) (*Asset, error) {

	if actor.Role != Admin {
		c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "approve", Denied: true, OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
		return nil, fmt.Errorf("approve asset %d: %w", a.ID, ErrUnauthorized)
	}

	if a.Status != PendingReview {
		return nil, fmt.Errorf("approve from %s: %w", a.Status, ErrInvalidTransition)
	}

	var updated = *a

	if newVisibility != 0 {
		if !newVisibility.Valid() {
			return nil, fmt.Errorf("visibility %d: %w", int(newVisibility), ErrInvalid)
		}
		if newVisibility == ByRole {
			if !allowedRole.Valid() {
				return nil, fmt.Errorf("role visibility requires a role: %w", ErrInvalid)
			}
			updated.AllowedRole = allowedRole
		} else {
			updated.AllowedRole = RoleNone
		}
		updated.Visibility = newVisibility
	}

	var now = time.Now().Unix()
	updated.Status = Approved
	updated.ApprovedAt = now

	if err := c.AssetDB.UpdateStatus(&updated, a.Status); err != nil {
		return nil, err
	}

	c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "approve", OldStatus: a.Status, NewStatus: Approved, Ts: now})
	c.dispatch(Event{Name: EventApproved, AssetID: a.ID, AssetName: a.Name, ActorID: actor.ID, OldStatus: a.Status, NewStatus: Approved, Ts: now})

	return &updated, nil
}

// Reject turns a pending asset down. The reason is mandatory, it is what
// the uploader gets to see.
func (c *CoreDB) Reject(a *Asset, actor User, reason string) (*Asset, error) {

	if actor.Role != Admin {
		c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "reject", Denied: true, OldStatus: a.Status, NewStatus: a.Status, Ts: time.Now().Unix()})
		return nil, fmt.Errorf("reject asset %d: %w", a.ID, ErrUnauthorized)
	}

	if a.Status != PendingReview {
		return nil, fmt.Errorf("reject from %s: %w", a.Status, ErrInvalidTransition)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("rejection reason can't be empty: %w", ErrInvalid)
	}

	var now = time.Now().Unix()
	var updated = *a
	updated.Status = Rejected
	updated.RejectionReason = reason
	updated.RejectedAt = now

	if err := c.AssetDB.UpdateStatus(&updated, a.Status); err != nil {
		return nil, err
	}

	c.audit(AuditEntry{ActorID: actor.ID, AssetID: a.ID, Action: "reject", OldStatus: a.Status, NewStatus: Rejected, Ts: now})
	c.dispatch(Event{Name: EventRejected, AssetID: a.ID, AssetName: a.Name, ActorID: actor.ID, OldStatus: a.Status, NewStatus: Rejected, Reason: reason, Ts: now})

	return &updated, nil
}
