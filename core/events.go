package core

import (
	"log"
)

// Event names, as delivered to dispatchers.
const (
	EventSubmitted = "AssetSubmittedForReview"
	EventApproved  = "AssetApproved"
	EventRejected  = "AssetRejected"
)

// An Event records one completed workflow transition.
type Event struct {
	Name      string
	AssetID   int
	AssetName string
	ActorID   int
	OldStatus Status
	NewStatus Status
	Reason    string // rejections only
	Ts        int64
}

// A Dispatcher delivers events to interested parties (mail, chat, a
// message queue). Delivery is fire and forget: a failing dispatcher never
// rolls back the transition that produced the event.
type Dispatcher interface {
	Dispatch(e Event)
}

// LogDispatcher writes events to the process log. It is the default if
// nothing else is wired up.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(e Event) {
	log.Printf("%s: asset %d (%s) %s -> %s by user %d", e.Name, e.AssetID, e.AssetName, e.OldStatus, e.NewStatus, e.ActorID)
}

// An AuditEntry records a workflow transition or a denied capability
// decision. How these are persisted and displayed is up to the AuditDB
// implementation.
type AuditEntry struct {
	ActorID   int
	AssetID   int
	Action    string // "view", "edit", "delete", "submit", "approve", "reject"
	Denied    bool
	OldStatus Status
	NewStatus Status
	Ts        int64
}

type AuditDB interface {
	InsertAudit(e AuditEntry) error
	GetAuditEntries(limit, offset int) ([]AuditEntry, error)
}

func (c *CoreDB) dispatch(e Event) {
	if c.Events != nil {
		c.Events.Dispatch(e)
	} else {
		LogDispatcher{}.Dispatch(e)
	}
}

func (c *CoreDB) audit(e AuditEntry) {
	if c.AuditDB == nil {
		return
	}
	if err := c.AuditDB.InsertAudit(e); err != nil {
		log.Printf("error writing audit entry: %v", err) // the operation itself already happened
	}
}
