package audio

import (
	"sync"

	"github.com/careassist/care-reminder/pkg/logging"
)

// Sink is an audio output that may refuse to play
type Sink interface {
	// Prime readies the output device without audible sound
	Prime() error
	// Play starts the alert sound from the beginning and returns without waiting
	Play() error
}

// GateState is the unlock phase of a Gate
type GateState int

const (
	Locked GateState = iota
	Unlocked
)

func (s GateState) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// Gate holds back playback until the first user gesture. The transition is one-way.
type Gate struct {
	mu     sync.Mutex
	sink   Sink
	state  GateState
	once   sync.Once
	logger *logging.Logger
}

// NewGate creates a locked gate in front of sink
func NewGate(sink Sink, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gate{sink: sink, logger: logger}
}

// State returns the current phase
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Unlock handles the first user gesture: it primes the sink and opens the gate.
// Only the first call has any effect, whether or not priming succeeds.
func (g *Gate) Unlock() {
	g.once.Do(func() {
		if err := g.sink.Prime(); err != nil {
			g.logger.Debug("audio prime failed", "error", err)
		}

		g.mu.Lock()
		g.state = Unlocked
		g.mu.Unlock()
		g.logger.Info("audio unlocked")
	})
}

// Play requests the alert sound. Requests while locked are dropped and
// playback errors are swallowed.
func (g *Gate) Play() {
	if g.State() != Unlocked {
		g.logger.Debug("audio locked, play request ignored")
		return
	}
	if err := g.sink.Play(); err != nil {
		g.logger.Debug("audio playback failed", "error", err)
	}
}
