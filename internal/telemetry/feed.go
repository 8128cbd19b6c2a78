package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// UnitMessage is one unit on the wire.
type UnitMessage struct {
	ID         string  `json:"id"`
	Alliance   string  `json:"alliance"`
	AssetType  string  `json:"assetType"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Heading    float64 `json:"heading"`
	Visibility string  `json:"visibility,omitempty"`
}

// Frame is a full snapshot of the map. Each frame replaces the previous one,
// so a unit missing from a frame is gone.
type Frame struct {
	Units []UnitMessage `json:"units"`
}

// EncodeFrame converts units to a wire frame.
func EncodeFrame(units []vision.Unit) Frame {
	f := Frame{Units: make([]UnitMessage, 0, len(units))}
	for _, u := range units {
		m := UnitMessage{
			ID:        u.TargetID,
			Alliance:  u.Alliance.String(),
			AssetType: u.AssetType,
			X:         u.Position.X,
			Y:         u.Position.Y,
			Heading:   u.Heading,
		}
		switch u.Visibility {
		case vision.Visible:
			m.Visibility = "visible"
		case vision.Hidden:
			m.Visibility = "hidden"
		}
		f.Units = append(f.Units, m)
	}
	return f
}

// Decode converts a wire frame back to vision units. Entries without an id
// are dropped.
func (f Frame) Decode() []vision.Unit {
	out := make([]vision.Unit, 0, len(f.Units))
	for _, m := range f.Units {
		if m.ID == "" {
			continue
		}
		u := vision.Unit{
			TargetID:  m.ID,
			Alliance:  vision.ParseAlliance(m.Alliance),
			AssetType: m.AssetType,
			Position:  vision.Vec2{X: m.X, Y: m.Y},
			Heading:   m.Heading,
		}
		switch m.Visibility {
		case "visible":
			u.Visibility = vision.Visible
		case "hidden":
			u.Visibility = vision.Hidden
		}
		out = append(out, u)
	}
	return out
}

// Feed reads frames from a websocket source into a Store.
type Feed struct {
	url    string
	store  *Store
	log    zerolog.Logger
	dialer *websocket.Dialer
}

// NewFeed returns a feed that will dial url and write frames into store.
func NewFeed(url string, store *Store, log zerolog.Logger) *Feed {
	return &Feed{
		url:    url,
		store:  store,
		log:    log,
		dialer: websocket.DefaultDialer,
	}
}

// Run dials the source and applies frames until ctx is cancelled or the
// connection fails. Malformed frames are logged and skipped.
func (f *Feed) Run(ctx context.Context) error {
	conn, resp, err := f.dialer.DialContext(ctx, f.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", f.url, err)
	}
	f.log.Info().Str("url", f.url).Msg("telemetry feed connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				f.log.Info().Msg("telemetry feed closed")
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			f.log.Warn().Err(err).Msg("discarding malformed telemetry frame")
			continue
		}
		f.store.Replace(frame.Decode())
	}
}

// Publisher serves the store as a stream of frames to websocket clients.
type Publisher struct {
	store    *Store
	interval time.Duration
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewPublisher returns a publisher that pushes a frame every interval.
func NewPublisher(store *Store, interval time.Duration, log zerolog.Logger) *Publisher {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Publisher{
		store:    store,
		interval: interval,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

var errClientGone = errors.New("client disconnected")

// ServeHTTP upgrades the request and streams frames until the client leaves.
func (p *Publisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	gone := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				gone <- errClientGone
				return
			}
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if err := conn.WriteJSON(EncodeFrame(p.store.Snapshot())); err != nil {
			p.log.Debug().Err(err).Msg("frame write failed")
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-gone:
			return
		case <-ticker.C:
		}
	}
}
