package models

import "time"

// Flow is the observed water flow level at the intake.
type Flow string

const (
	FlowHigh Flow = "High"
	FlowLow  Flow = "Low"
	FlowNone Flow = "None"
)

// Flows lists the accepted flow levels in form display order.
var Flows = []Flow{FlowHigh, FlowLow, FlowNone}

// Valid reports whether f is one of the known flow levels.
func (f Flow) Valid() bool {
	switch f {
	case FlowHigh, FlowLow, FlowNone:
		return true
	}
	return false
}

// MaxCommentLength is the column width of entries.comment, in characters.
const MaxCommentLength = 200

// Entry is one logged work record. OwnerID never changes after creation.
type Entry struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Cleaned   bool      `json:"cleaned"`
	Flow      Flow      `json:"flow"`
	Comment   string    `json:"comment"`
	StartTime time.Time `json:"start_time"`
}

// EntryFields are the owner-mutable columns of an Entry.
type EntryFields struct {
	Cleaned   bool
	Flow      Flow
	Comment   string
	StartTime time.Time
}

// Apply overwrites the mutable fields of e in place.
func (e *Entry) Apply(f EntryFields) {
	e.Cleaned = f.Cleaned
	e.Flow = f.Flow
	e.Comment = f.Comment
	e.StartTime = f.StartTime
}

// EntryView pairs an entry with its owner's username for listings.
type EntryView struct {
	Entry
	OwnerName string `json:"owner_name"`
}
