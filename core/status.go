package core

// A Status is the position of an asset in the review pipeline. It is
// orthogonal to Visibility.
//
// Transitions are monotone: draft and rejected assets can be submitted
// for review, pending assets can be approved or rejected, and nothing
// ever transitions out of approved.
type Status int

const (
	Draft         Status = 1
	PendingReview Status = 2
	Approved      Status = 3
	Rejected      Status = 4
)

func (s Status) String() string {
	switch s {
	case Draft:
		return "draft"
	case PendingReview:
		return "pending review"
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

func (s Status) Valid() bool {
	switch s {
	case Draft, PendingReview, Approved, Rejected:
		return true
	default:
		return false
	}
}
