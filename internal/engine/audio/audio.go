// Package audio plays the looping ambient soundtrack.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/logger"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by Play before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Source loads raw track data by name. *assets.Manager satisfies it.
type Source interface {
	Load(name string) ([]byte, error)
}

// Player loops a single ambience track.
type Player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate

	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	track    string

	// level is linear, 0 to 1
	level  float64
	muted  bool
	paused bool

	log *zap.Logger
}

// New creates a player at the given linear volume.
func New(level float64, muted bool) *Player {
	return &Player{
		sampleRate: DefaultSampleRate,
		level:      clamp(level, 0, 1),
		muted:      muted,
		log:        logger.Named("audio"),
	}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.initialized = true
	return nil
}

// Close stops playback and releases the track.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stop()
	if p.initialized {
		speaker.Close()
	}
	p.initialized = false
}

// PlayFrom loads name from src and loops it.
func (p *Player) PlayFrom(src Source, name string) error {
	data, err := src.Load(name)
	if err != nil {
		return fmt.Errorf("loading ambience: %w", err)
	}
	return p.Play(name, data)
}

// Play decodes WAV data and loops it until Stop or Close.
func (p *Player) Play(name string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	if err := p.prepare(name, data); err != nil {
		return err
	}
	speaker.Play(p.volume)
	p.log.Info("ambience started", zap.String("track", name), zap.Float64("volume", p.level))
	return nil
}

// prepare builds the decode, loop, pause and volume chain without
// touching the speaker.
func (p *Player) prepare(name string, data []byte) error {
	p.stop()

	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", name, err)
	}

	var looped beep.Streamer = &loopStreamer{source: streamer}
	if format.SampleRate != p.sampleRate {
		looped = beep.Resample(4, format.SampleRate, p.sampleRate, looped)
	}

	p.streamer = streamer
	p.track = name
	p.ctrl = &beep.Ctrl{Streamer: looped, Paused: p.paused}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 10}
	p.applyVolume()
	return nil
}

// Stop ends playback of the current track.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
}

func (p *Player) stop() {
	if p.streamer == nil {
		return
	}
	if p.initialized {
		speaker.Clear()
	}
	p.streamer.Close()
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.track = ""
}

// SetPaused pauses or resumes the track. The state is kept across Play.
func (p *Player) SetPaused(paused bool) {
	p.withSpeaker(func() {
		p.paused = paused
		if p.ctrl != nil {
			p.ctrl.Paused = paused
		}
	})
}

// ToggleMute flips the mute state and returns it.
func (p *Player) ToggleMute() bool {
	var muted bool
	p.withSpeaker(func() {
		p.muted = !p.muted
		muted = p.muted
		p.applyVolume()
	})
	p.log.Debug("mute toggled", zap.Bool("muted", muted))
	return muted
}

// SetVolume sets the linear volume, clamped to [0, 1].
func (p *Player) SetVolume(level float64) {
	p.withSpeaker(func() {
		p.level = clamp(level, 0, 1)
		p.applyVolume()
	})
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Track returns the name of the loaded track, or "".
func (p *Player) Track() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

// withSpeaker runs fn holding the player lock and, once the speaker is
// running, the speaker lock so the stream goroutine sees a consistent chain.
func (p *Player) withSpeaker(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

func (p *Player) applyVolume() {
	if p.volume == nil {
		return
	}
	p.volume.Silent = p.muted || p.level <= 0
	p.volume.Volume = volumeToExponent(p.level)
}

// volumeToExponent maps a linear level to a base-10 exponent for
// effects.Volume: 1 -> 0, 0.5 -> about -0.3.
func volumeToExponent(level float64) float64 {
	if level <= 0 {
		return -10
	}
	return math.Log10(level)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// loopStreamer rewinds source whenever it drains.
type loopStreamer struct {
	source beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	rewound := false
	for filled < len(samples) {
		n, ok := l.source.Stream(samples[filled:])
		filled += n
		if n > 0 {
			rewound = false
		}
		if ok {
			continue
		}
		// an empty track would spin forever
		if rewound {
			return filled, filled > 0
		}
		if err := l.source.Seek(0); err != nil {
			return filled, filled > 0
		}
		rewound = true
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}
