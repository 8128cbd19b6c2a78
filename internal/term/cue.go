package term

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Sensor-Fog/internal/sim"
)

const cueSampleRate = beep.SampleRate(44100)

// ChirpGenerator sweeps a sine from one frequency to another with a linear
// fade out. It ends after its duration.
type ChirpGenerator struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

// NewChirpGenerator returns a chirp of duration d.
func NewChirpGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *ChirpGenerator {
	return &ChirpGenerator{sr: sr, from: from, to: to, total: sr.N(d)}
}

func (g *ChirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*t
		val := 0.25 * (1 - t) * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = val
		samples[i][1] = val

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *ChirpGenerator) Err() error { return nil }

// Cue plays short tones for contact changes: a falling chirp when a
// hostile is lost and a rising one when it is picked up again.
type Cue struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewCue returns a silent cue; call Initialize to open the speaker.
func NewCue() *Cue {
	return &Cue{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device.
func (c *Cue) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences anything still playing.
func (c *Cue) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Contact plays the tone for one contact event, if it has one.
func (c *Cue) Contact(e sim.ContactEvent) {
	s := cueFor(e.Kind)
	if s == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

func cueFor(k sim.ContactKind) beep.Streamer {
	switch k {
	case sim.ContactGhost:
		return beep.Take(cueSampleRate.N(time.Millisecond*180),
			NewChirpGenerator(cueSampleRate, 880, 330, time.Millisecond*180))
	case sim.ContactReacquired:
		return beep.Take(cueSampleRate.N(time.Millisecond*120),
			NewChirpGenerator(cueSampleRate, 440, 990, time.Millisecond*120))
	default:
		return nil
	}
}
