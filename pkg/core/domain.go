package core

import (
	"fmt"
	"time"
)

// EventType represents the kind of change observed in the notes directory.
type EventType string

const (
	EventCreated  EventType = "Created"
	EventModified EventType = "Modified"
	EventDeleted  EventType = "Deleted"
	EventRenamed  EventType = "Renamed"
)

// Event represents a change to a note file.
type Event struct {
	Type EventType
	// Name is the base file name affected (the new name for renames).
	Name string
	// OldName is only set for EventRenamed.
	OldName   string
	Timestamp time.Time
}

// String renders the event without its timestamp.
func (e Event) String() string {
	if e.Type == EventRenamed {
		return fmt.Sprintf("%s - From %s to %s", e.Type, e.OldName, e.Name)
	}
	return fmt.Sprintf("%s - %s", e.Type, e.Name)
}
