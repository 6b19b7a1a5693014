package chime

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampling "github.com/tphakala/go-audio-resampling"
)

// Cue synthesis parameters.
const (
	renderRate    = 22050
	cueDuration   = 0.15 // seconds
	cueAmplitude  = 16000
	lowFrequency  = 440.0 // A4
	highFrequency = 523.0 // C5
)

// Sweep renders a sine tone gliding from startFreq to endFreq with a
// half-sine envelope so the cue fades in and out without clicks.
func Sweep(sampleRate int, duration, startFreq, endFreq float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		progress := float64(i) / float64(n)
		freq := startFreq + (endFreq-startFreq)*progress
		envelope := math.Sin(math.Pi * progress)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * envelope * cueAmplitude)
	}
	return samples
}

// RenderCue synthesizes a sweep cue as a WAV file at sampleRate.
func RenderCue(sampleRate int, startFreq, endFreq float64) ([]byte, error) {
	samples := Sweep(renderRate, cueDuration, startFreq, endFreq)
	if sampleRate != renderRate {
		resampled, err := Resample(samples, renderRate, float64(sampleRate))
		if err != nil {
			return nil, err
		}
		samples = resampled
	}
	return EncodeWAV(samples, sampleRate)
}

// Resample converts PCM int16 samples from inputRate to outputRate using
// polyphase FIR filtering (go-audio-resampling, low quality preset).
func Resample(samples []int16, inputRate, outputRate float64) ([]int16, error) {
	if inputRate == outputRate || len(samples) == 0 {
		return samples, nil
	}

	floats := make([]float64, len(samples))
	for i, s := range samples {
		floats[i] = float64(s) / 32768.0
	}

	resampled, err := resampling.ResampleMono(floats, inputRate, outputRate, resampling.QualityLow)
	if err != nil {
		return nil, fmt.Errorf("resample mono: %w", err)
	}

	out := make([]int16, len(resampled))
	for i, f := range resampled {
		v := math.Round(f * 32768.0)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out, nil
}

// writeSeeker is an in-memory io.WriteSeeker for the WAV encoder.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		ws.buf = append(ws.buf, make([]byte, end-len(ws.buf))...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int
	switch whence {
	case 0:
		pos = int(offset)
	case 1:
		pos = ws.pos + int(offset)
	case 2:
		pos = len(ws.buf) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if pos < 0 || pos > len(ws.buf) {
		return 0, fmt.Errorf("seek position %d out of bounds [0, %d]", pos, len(ws.buf))
	}
	ws.pos = pos
	return int64(pos), nil
}

// EncodeWAV encodes mono 16-bit PCM samples as a WAV file.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	ws := &writeSeeker{}
	buf := &audio.IntBuffer{
		Data:           make([]int, len(samples)),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	enc := wav.NewEncoder(ws, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}
	return ws.buf, nil
}

// DecodeWAV returns the samples and sample rate of a WAV file.
func DecodeWAV(data []byte) ([]int16, int, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file")
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}
	samples := make([]int16, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = int16(v)
	}
	return samples, int(dec.SampleRate), nil
}
