package reconcile

import "time"

// EventKind is one of the recognized user activity kinds. The set is closed;
// events of any other kind are discarded during reconciliation.
type EventKind string

const (
	KindSign              EventKind = "Sign"
	KindEdit              EventKind = "Edit"
	KindQueueForSignature EventKind = "QueueForSignature"
	KindOverread          EventKind = "Overread"
)

// ParseEventKind maps a raw event type to a recognized kind. The second
// return value is false for unrecognized kinds.
func ParseEventKind(s string) (EventKind, bool) {
	switch k := EventKind(s); k {
	case KindSign, KindEdit, KindQueueForSignature, KindOverread:
		return k, true
	}
	return "", false
}

// LastEvent is the retained per-user activity snapshot.
type LastEvent struct {
	Kind        EventKind
	Time        time.Time
	Workstation string
	Detail      string
}

// UserActivity is one row of the in-memory user table: a clinician and the
// chronologically latest recognized event ever observed for them.
type UserActivity struct {
	ID   int64
	Name string
	Last LastEvent
}
