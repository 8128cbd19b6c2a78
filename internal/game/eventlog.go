package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Sensor-Fog/internal/sim"
	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

const (
	logPanelWidth = 300
	logMaxEntries = 60
	logLineHeight = 12
)

// EventEntry is a single line in the contact log.
type EventEntry struct {
	Frame    uint64
	Target   string
	Alliance vision.Alliance
	Kind     sim.ContactKind
	Message  string
}

// EventLog is a ring buffer of contact events rendered on-screen.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, logMaxEntries),
	}
}

// Add appends an entry to the log.
func (el *EventLog) Add(e EventEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// AddContacts turns contact events into log lines.
func (el *EventLog) AddContacts(frame uint64, events []sim.ContactEvent) {
	for _, e := range events {
		var msg string
		switch e.Kind {
		case sim.ContactAcquired:
			msg = fmt.Sprintf("contact at %.0f,%.0f", e.Position.X, e.Position.Y)
		case sim.ContactLost:
			msg = "contact lost"
		case sim.ContactGhost:
			msg = fmt.Sprintf("last seen %.0f,%.0f", e.Position.X, e.Position.Y)
		case sim.ContactReacquired:
			msg = fmt.Sprintf("reacquired after %.0fs", e.FadeClock)
		case sim.ContactFaded:
			msg = "memory faded"
		}
		el.Add(EventEntry{Frame: frame, Target: e.TargetID, Alliance: e.Alliance, Kind: e.Kind, Message: msg})
	}
}

// Len returns the number of stored entries.
func (el *EventLog) Len() int { return el.count }

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []EventEntry {
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

func allianceColor(a vision.Alliance) color.RGBA {
	switch a {
	case vision.AllianceFriendly:
		return color.RGBA{R: 80, G: 150, B: 230, A: 255}
	case vision.AllianceHostile:
		return color.RGBA{R: 220, G: 70, B: 70, A: 255}
	case vision.AllianceNeutral:
		return color.RGBA{R: 90, G: 200, B: 110, A: 255}
	default:
		return color.RGBA{R: 200, G: 200, B: 90, A: 255}
	}
}

// Draw renders the log panel on the right side of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "CONTACT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := el.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	const recent = 3

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, allianceColor(e.Alliance), false)
		line := fmt.Sprintf("%5d %-10s %s", e.Frame, e.Target, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}
