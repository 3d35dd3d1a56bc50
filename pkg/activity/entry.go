package activity

import (
	"fmt"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// DefaultTimeLayout is used when Config.TimeLayout is empty.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Entry is one audit record. It only ever exists on its way to a line of text.
type Entry struct {
	Timestamp time.Time
	Kind      core.EventType
	Name      string
	OldName   string
}

// EntryFromEvent converts a change event, stamping it now if it carries no time.
func EntryFromEvent(e core.Event) Entry {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return Entry{
		Timestamp: ts,
		Kind:      e.Type,
		Name:      e.Name,
		OldName:   e.OldName,
	}
}

// Format renders the entry as a single log line, without the trailing newline.
func (e Entry) Format(layout string) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	ts := e.Timestamp.Local().Format(layout)
	if e.Kind == core.EventRenamed {
		return fmt.Sprintf("%s: Renamed - From %s to %s", ts, e.OldName, e.Name)
	}
	return fmt.Sprintf("%s: %s - %s", ts, e.Kind, e.Name)
}
