// Package beeper turns the CHIP-8 sound timer into audio. CHIP-8 has a single
// tone that plays while the sound timer is not zero, the recorder renders it
// as a square wave, one video frame at a time.
//
// Audio data is buffered in memory in its entirety and written as a WAV file
// when the recording ends, so it is meant for short sessions and testing.
package beeper

import (
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const (
	DefaultSampleRate = 48000
	DefaultFrequency  = 440

	// FrameRate is the rate at which Frame is expected to be called, the
	// rate of the CHIP-8 timers.
	FrameRate = 60

	bitDepth  = 16
	amplitude = 8000

	// audio format code for uncompressed PCM in the WAV header
	pcmFormat = 1
)

// Recorder collects the beeper output of a running machine.
type Recorder struct {
	sampleRate int
	frequency  int

	samples []int
	phase   int
	active  int // number of frames with sound
}

// New returns a recorder using the default sample rate and tone frequency.
func New() *Recorder {
	return NewWithRate(DefaultSampleRate, DefaultFrequency)
}

// NewWithRate returns a recorder with the given sample rate and tone
// frequency, both in Hz.
func NewWithRate(sampleRate, frequency int) *Recorder {
	return &Recorder{
		sampleRate: sampleRate,
		frequency:  frequency,
	}
}

// Frame renders one 1/60s frame of audio, the tone if active is set and
// silence otherwise.
func (r *Recorder) Frame(active bool) {
	n := r.sampleRate / FrameRate
	period := max(r.sampleRate/r.frequency, 2)

	if active {
		r.active++
	}

	for range n {
		v := 0
		if active {
			v = amplitude
			if r.phase >= period/2 {
				v = -amplitude
			}
		}
		r.samples = append(r.samples, v)
		r.phase = (r.phase + 1) % period
	}
}

// Samples returns the number of recorded samples.
func (r *Recorder) Samples() int {
	return len(r.samples)
}

// ActiveFrames returns the number of frames the tone was playing.
func (r *Recorder) ActiveFrames() int {
	return r.active
}

// Write encodes the recording as mono 16-bit WAV.
func (r *Recorder) Write(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, r.sampleRate, bitDepth, 1, pcmFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  r.sampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "encoding wav")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "finishing wav")
	}
	return nil
}

// WriteFile writes the recording to the named WAV file.
func (r *Recorder) WriteFile(name string) (rerr error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating wav file")
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = errors.Wrap(err, "closing wav file")
		}
	}()

	return r.Write(f)
}
