package view

import "time"

// DefaultFlashDuration is how long a confirmation or error message stays up
const DefaultFlashDuration = 2 * time.Second

// FlashKind tells a success message from a failure
type FlashKind int

const (
	FlashSuccess FlashKind = iota
	FlashFailure
)

// Flash is a transient message shown after a command. It is visible while
// now < Until and cleared by the first Tick at or after Until.
type Flash struct {
	Text  string
	Kind  FlashKind
	Until time.Time
}

// Expired reports whether the message should no longer be shown at now
func (f Flash) Expired(now time.Time) bool {
	return !now.Before(f.Until)
}
