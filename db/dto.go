package db

import "time"

// JoinStatus is the outcome of an attempt to claim an invite code.
type JoinStatus int

const (
	JoinOK JoinStatus = iota
	JoinNotFound
	JoinAlreadyUsed
)

// Feeding is a single recorded feeding. Volume is in milliliters; zero means
// the volume wasn't specified.
type Feeding struct {
	ID      int64
	OwnerID int64
	At      time.Time // UTC, second precision
	Volume  int
}

// Invite binds an owner to at most one invited user via a shared secret code.
type Invite struct {
	Code      string
	OwnerID   int64
	InvitedID int64 // zero until claimed
	CreatedAt time.Time
}

// Reminder is a durable one-shot notification tied to a recorded feeding.
type Reminder struct {
	ID          int64
	OwnerID     int64
	OwnerChatID int64
	AdderChatID int64 // the acting delegate's chat; may equal OwnerChatID
	RemindAt    time.Time
	IntervalMin int
	CreatedAt   time.Time
	Active      bool
}
