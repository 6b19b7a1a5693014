// Package chime plays short audio cues when recording starts and stops.
package chime

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is used when no playback rate is configured.
const DefaultSampleRate = 44100

// Player manages cue playback.
type Player struct {
	startData []byte
	stopData  []byte
	enabled   bool
	logger    *zap.SugaredLogger
	initOnce  sync.Once
	initErr   error
}

// New creates a Player. Empty startPath/stopPath select the synthesized
// cues rendered at sampleRate. When enabled is false PlayStart and
// PlayStop do nothing.
func New(startPath, stopPath string, enabled bool, sampleRate int, logger *zap.SugaredLogger) (*Player, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	p := &Player{enabled: enabled, logger: logger}

	var err error
	if p.startData, err = loadCue(startPath, sampleRate, lowFrequency, highFrequency); err != nil {
		return nil, fmt.Errorf("start chime: %w", err)
	}
	if p.stopData, err = loadCue(stopPath, sampleRate, highFrequency, lowFrequency); err != nil {
		return nil, fmt.Errorf("stop chime: %w", err)
	}
	return p, nil
}

func loadCue(path string, sampleRate int, from, to float64) ([]byte, error) {
	if path == "" {
		return RenderCue(sampleRate, from, to)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if _, _, err := DecodeWAV(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func (p *Player) initSpeaker(format beep.Format) {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
}

func (p *Player) play(data []byte) {
	if !p.enabled || len(data) == 0 {
		return
	}

	go func() {
		streamer, format, err := wav.Decode(bytes.NewReader(data))
		if err != nil {
			p.logger.Warnw("chime: wav decode error", "err", err)
			return
		}
		defer streamer.Close()

		p.initSpeaker(format)
		if p.initErr != nil {
			p.logger.Warnw("chime: speaker init error", "err", p.initErr)
			return
		}

		done := make(chan struct{})
		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			close(done)
		})))
		<-done
	}()
}

// PlayStart plays the start cue without blocking.
func (p *Player) PlayStart() {
	p.play(p.startData)
}

// PlayStop plays the stop cue without blocking.
func (p *Player) PlayStop() {
	p.play(p.stopData)
}
