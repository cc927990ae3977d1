package core

import (
	"errors"
	"testing"
)

var (
	testUploader = User{ID: 1, Name: "creator", Role: ContentCreator, CompanyID: 10, Active: true}
	testAdmin    = User{ID: 2, Name: "admin", Role: Admin, CompanyID: 10, Active: true}
	testOther    = User{ID: 3, Name: "other", Role: SEOSpecialist, CompanyID: 10, Active: true}
)

func mustCreateDraft(t *testing.T, db *CoreDB) *Asset {
	t.Helper()
	a, err := db.CreateAsset(testUploader, "landing page banner", "hero image for the spring campaign", Company, RoleNone)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != Draft {
		t.Fatalf("new asset has status %s, want %s", a.Status, Draft)
	}
	return a
}

func TestSubmitApprove(t *testing.T) {

	db, assets, _, events := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)

	submitted, err := db.Submit(a, testUploader)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != PendingReview {
		t.Fatalf("got status %s, want %s", submitted.Status, PendingReview)
	}

	approved, err := db.Approve(submitted, testAdmin, 0, RoleNone)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != Approved {
		t.Fatalf("got status %s, want %s", approved.Status, Approved)
	}
	if approved.Visibility != Company {
		t.Errorf("visibility changed to %s, want unchanged %s", approved.Visibility, Company)
	}
	if approved.ApprovedAt == 0 {
		t.Error("ApprovedAt not set")
	}

	stored, _ := assets.GetAsset(a.ID)
	if stored.Status != Approved {
		t.Errorf("stored status is %s, want %s", stored.Status, Approved)
	}

	if len(events.events) != 2 {
		t.Fatalf("got %d events, want 2", len(events.events))
	}
	if events.events[0].Name != EventSubmitted || events.events[1].Name != EventApproved {
		t.Errorf("got events %s, %s", events.events[0].Name, events.events[1].Name)
	}
}

func TestApproveChangesVisibility(t *testing.T) {

	db, _, _, _ := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)
	a, _ = db.Submit(a, testUploader)

	approved, err := db.Approve(a, testAdmin, ByRole, SEOSpecialist)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Visibility != ByRole || approved.AllowedRole != SEOSpecialist {
		t.Errorf("got %s/%s, want %s/%s", approved.Visibility, approved.AllowedRole, ByRole, SEOSpecialist)
	}

	// switching away from role visibility clears the allowed role
	b := mustCreateDraft(t, db)
	b, _ = db.Submit(b, testUploader)
	approved, err = db.Approve(b, testAdmin, Public, SEOSpecialist)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.AllowedRole != RoleNone {
		t.Errorf("allowed role is %s, want none", approved.AllowedRole)
	}
}

func TestApproveRoleVisibilityNeedsRole(t *testing.T) {

	db, assets, _, _ := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)
	a, _ = db.Submit(a, testUploader)

	if _, err := db.Approve(a, testAdmin, ByRole, RoleNone); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}

	// the failed call must not have touched the stored asset
	stored, _ := assets.GetAsset(a.ID)
	if stored.Status != PendingReview || stored.Visibility != Company {
		t.Errorf("stored asset was modified: %s/%s", stored.Status, stored.Visibility)
	}
}

func TestRejectAndResubmit(t *testing.T) {

	db, assets, _, events := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)
	a, _ = db.Submit(a, testUploader)

	rejected, err := db.Reject(a, testAdmin, "blurry image")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != Rejected || rejected.RejectionReason != "blurry image" || rejected.RejectedAt == 0 {
		t.Fatalf("got %s, reason %q", rejected.Status, rejected.RejectionReason)
	}
	if events.events[len(events.events)-1].Reason != "blurry image" {
		t.Error("rejection event carries no reason")
	}

	// resubmission clears the rejection
	resubmitted, err := db.Submit(rejected, testUploader)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.Status != PendingReview || resubmitted.RejectionReason != "" || resubmitted.RejectedAt != 0 {
		t.Fatalf("resubmitted asset still carries rejection: %s, %q", resubmitted.Status, resubmitted.RejectionReason)
	}
	stored, _ := assets.GetAsset(a.ID)
	if stored.RejectionReason != "" {
		t.Error("stored rejection reason not cleared")
	}
}

func TestRejectNeedsReason(t *testing.T) {

	db, _, _, _ := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)
	a, _ = db.Submit(a, testUploader)

	for _, reason := range []string{"", "   ", "\t\n"} {
		if _, err := db.Reject(a, testAdmin, reason); !errors.Is(err, ErrInvalid) {
			t.Errorf("reason %q: got %v, want ErrInvalid", reason, err)
		}
	}
}

func TestWorkflowUnauthorized(t *testing.T) {

	db, _, audits, _ := newTestDB(testUploader, testAdmin, testOther)
	a := mustCreateDraft(t, db)

	// only the uploader submits
	if _, err := db.Submit(a, testOther); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}

	a, _ = db.Submit(a, testUploader)

	// only admins review
	if _, err := db.Approve(a, testOther, 0, RoleNone); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if _, err := db.Reject(a, testUploader, "no"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}

	// every denial left an audit entry
	var denied int
	for _, e := range audits.entries {
		if e.Denied {
			denied++
		}
	}
	if denied != 3 {
		t.Errorf("got %d denied audit entries, want 3", denied)
	}
}

func TestWorkflowInvalidTransitions(t *testing.T) {

	db, _, _, _ := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)

	// drafts can't be reviewed
	if _, err := db.Approve(a, testAdmin, 0, RoleNone); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve draft: got %v, want ErrInvalidTransition", err)
	}
	if _, err := db.Reject(a, testAdmin, "nope"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reject draft: got %v, want ErrInvalidTransition", err)
	}

	a, _ = db.Submit(a, testUploader)

	// pending assets can't be submitted again
	if _, err := db.Submit(a, testUploader); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resubmit pending: got %v, want ErrInvalidTransition", err)
	}

	a, _ = db.Approve(a, testAdmin, 0, RoleNone)

	// approval is not idempotent
	if _, err := db.Approve(a, testAdmin, 0, RoleNone); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve approved: got %v, want ErrInvalidTransition", err)
	}
	if _, err := db.Submit(a, testUploader); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("submit approved: got %v, want ErrInvalidTransition", err)
	}
}

func TestWorkflowStaleSnapshot(t *testing.T) {

	db, _, _, _ := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)
	pending, _ := db.Submit(a, testUploader)

	// two reviewers race on the same snapshot, the second one loses
	if _, err := db.Approve(pending, testAdmin, 0, RoleNone); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := db.Reject(pending, testAdmin, "too late"); !errors.Is(err, ErrStale) {
		t.Fatalf("second review: got %v, want ErrStale", err)
	}
}

func TestWorkflowDoesNotMutateSnapshot(t *testing.T) {

	db, _, _, _ := newTestDB(testUploader, testAdmin)
	a := mustCreateDraft(t, db)

	var before = *a
	if _, err := db.Submit(a, testUploader); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if *a != before {
		t.Error("submit mutated the snapshot")
	}
}
