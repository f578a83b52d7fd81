package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/careassist/care-reminder/pkg/logging"
)

// oto allows a single context per process
var (
	otoCtx     *oto.Context
	otoCtxErr  error
	otoCtxOnce sync.Once
)

func audioContext(format *wavFormat) (*oto.Context, error) {
	otoCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoCtxErr = fmt.Errorf("audio: init context: %w", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoCtxErr
}

// Player plays one embedded WAV alert through oto. It implements Sink.
type Player struct {
	mu      sync.Mutex
	format  *wavFormat
	samples []byte
	current *oto.Player
	logger  *logging.Logger
}

// NewPlayer parses wavData up front so a bad asset fails at startup
func NewPlayer(wavData []byte, logger *logging.Logger) (*Player, error) {
	format, samples, err := parseWAV(wavData)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Player{format: format, samples: samples, logger: logger}, nil
}

// Prime opens the output device and runs the sound muted, then pauses and rewinds it
func (p *Player) Prime() error {
	ctx, err := audioContext(p.format)
	if err != nil {
		return err
	}

	primer := ctx.NewPlayer(bytes.NewReader(p.samples))
	primer.SetVolume(0)
	primer.Play()
	primer.Pause()
	if _, err := primer.Seek(0, io.SeekStart); err != nil {
		p.logger.Debug("audio primer rewind failed", "error", err)
	}
	return primer.Close()
}

// Play restarts the alert sound from the beginning
func (p *Player) Play() error {
	ctx, err := audioContext(p.format)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.current != nil {
		p.current.Pause()
		p.current.Close()
	}
	player := ctx.NewPlayer(bytes.NewReader(p.samples))
	p.current = player
	p.mu.Unlock()

	player.Play()
	go p.release(player)
	return nil
}

// release closes player once it drains, unless a newer Play already replaced it
func (p *Player) release(player *oto.Player) {
	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != player {
		return
	}
	if err := player.Err(); err != nil {
		p.logger.Debug("audio player error", "error", err)
	}
	player.Close()
	p.current = nil
}

// Stop silences any sound in progress
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Pause()
		p.current.Close()
		p.current = nil
	}
}

// Duration is the length of the alert sound
func (p *Player) Duration() time.Duration {
	bytesPerSecond := p.format.SampleRate * p.format.Channels * p.format.BitDepth / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(len(p.samples)) * time.Second / time.Duration(bytesPerSecond)
}
