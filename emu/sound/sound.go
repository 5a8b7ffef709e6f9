// Package sound is the buzzer frontend. It keeps a paused square wave
// on the speaker and unpauses it while the machine's sound timer runs.
package sound

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate beep.SampleRate = 44100
	toneHz                     = 440
	volume                     = 0.25
)

// square streams an endless square wave at toneHz.
type square struct {
	phase float64
}

func (s *square) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := -volume
		if s.phase < 0.5 {
			v = volume
		}
		samples[i][0] = v
		samples[i][1] = v

		s.phase += toneHz / float64(sampleRate)
		if s.phase >= 1 {
			s.phase--
		}
	}
	return len(samples), true
}

func (s *square) Err() error { return nil }

// Buzzer toggles the beep tone from the VM's sound-active signal.
type Buzzer struct {
	ctrl *beep.Ctrl
}

// NewBuzzer initializes the speaker and starts the (paused) tone.
func NewBuzzer() (*Buzzer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	ctrl := &beep.Ctrl{Streamer: &square{}, Paused: true}
	speaker.Play(ctrl)

	return &Buzzer{ctrl: ctrl}, nil
}

// SetActive unpauses the tone while active is true.
func (b *Buzzer) SetActive(active bool) {
	speaker.Lock()
	b.ctrl.Paused = !active
	speaker.Unlock()
}
