package sim

import (
	"fmt"
	"strings"
)

// FrameLogEntry is one recorded event during a headless run.
type FrameLogEntry struct {
	Frame    int
	Target   string  // unit id, or "--" for global events
	Alliance string  // "hostile", "neutral", ... or "--"
	Category string  // vision, ghost, frame
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=042] red-scout    ghost     created          at (512,430)
func (e FrameLogEntry) String() string {
	return fmt.Sprintf("[F=%03d] %-12s %-9s %-16s %s",
		e.Frame, e.Target, e.Category, e.Key, e.Value)
}

// FrameLog collects structured events during a headless run. It is
// unbounded and machine-readable.
type FrameLog struct {
	entries []FrameLogEntry
	verbose bool
}

// NewFrameLog creates a FrameLog. If verbose is true, per-frame draw
// statistics are also recorded.
func NewFrameLog(verbose bool) *FrameLog {
	return &FrameLog{verbose: verbose}
}

// Add records a new entry.
func (fl *FrameLog) Add(frame int, target, alliance, category, key, value string, numVal float64) {
	fl.entries = append(fl.entries, FrameLogEntry{
		Frame:    frame,
		Target:   target,
		Alliance: alliance,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (fl *FrameLog) AddVerbose(frame int, target, alliance, category, key, value string, numVal float64) {
	if !fl.verbose {
		return
	}
	fl.Add(frame, target, alliance, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (fl *FrameLog) Entries() []FrameLogEntry {
	return fl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (fl *FrameLog) Filter(category, key string) []FrameLogEntry {
	var out []FrameLogEntry
	for _, e := range fl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTarget returns entries for one unit id.
func (fl *FrameLog) FilterTarget(id string) []FrameLogEntry {
	var out []FrameLogEntry
	for _, e := range fl.entries {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (fl *FrameLog) CountCategory(category, key string) int {
	return len(fl.Filter(category, key))
}

// FirstOf returns the earliest entry matching category+key, or false if none.
func (fl *FrameLog) FirstOf(category, key string) (FrameLogEntry, bool) {
	for _, e := range fl.entries {
		if e.Category == category && e.Key == key {
			return e, true
		}
	}
	return FrameLogEntry{}, false
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (fl *FrameLog) LastOf(category, key string) (FrameLogEntry, bool) {
	entries := fl.Filter(category, key)
	if len(entries) == 0 {
		return FrameLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (fl *FrameLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range fl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (fl *FrameLog) Format() string {
	var sb strings.Builder
	for _, e := range fl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
