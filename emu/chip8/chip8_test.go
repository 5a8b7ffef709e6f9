package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// stubFrontend is an in-memory display/input collaborator. Closed is
// checked once per tick, so ticks doubles as the tick budget.
type stubFrontend struct {
	ticks   int
	keys    [NumKeys]bool
	renders int
	lastFB  [DisplaySize]uint8
}

func (f *stubFrontend) Render(fb *[DisplaySize]uint8) {
	f.renders++
	f.lastFB = *fb
}

func (f *stubFrontend) Closed() bool {
	f.ticks--
	return f.ticks < 0
}

func (f *stubFrontend) Poll() [NumKeys]bool {
	return f.keys
}

type stubBuzzer struct {
	active bool
}

func (b *stubBuzzer) SetActive(active bool) {
	b.active = active
}

func TestLoadROMBounds(t *testing.T) {
	vm := newTestVM(t)

	err := vm.LoadROM(make([]byte, MaxROMSize+1))
	assert.True(t, errors.Is(err, ErrROMTooLarge))

	assert.NoError(t, vm.LoadROM(make([]byte, MaxROMSize)))
	assert.NoError(t, vm.LoadROM([]byte{0x12, 0x00}))
	assert.Equal(t, uint8(0x12), vm.state.memory[ProgramStart])
}

func TestLoadROMFileMissing(t *testing.T) {
	vm := newTestVM(t)
	err := vm.LoadROMFile("does/not/exist.ch8")
	assert.Error(t, err)
}

func TestRunEndToEnd(t *testing.T) {
	// clear screen, V0 = 0x0A, V0 += 5, jump back to start
	rom := []byte{0x00, 0xE0, 0x60, 0x0A, 0x70, 0x05, 0x12, 0x00}

	frontend := &stubFrontend{ticks: 5}
	// A cycle budget of 4 completes whole loop iterations per tick.
	vm := New(log.NewTestLogger(t), Config{RefreshRate: 1000, CyclesPerTick: 4}, frontend, frontend, nil)
	assert.NoError(t, vm.LoadROM(rom))

	vm.Run()

	// However many times the loop repeated, the result is the same.
	assert.Equal(t, uint8(0x0F), vm.state.v[0x0])
	assert.True(t, frontend.renders >= 1)
	for _, px := range frontend.lastFB {
		assert.Equal(t, uint8(0), px)
	}
}

func TestRunForwardsSoundSignal(t *testing.T) {
	// V1 = 3, ST = V1, then spin
	rom := []byte{0x61, 0x03, 0xF1, 0x18, 0x12, 0x04}

	frontend := &stubFrontend{ticks: 1}
	buzzer := &stubBuzzer{}
	vm := New(log.NewTestLogger(t), Config{RefreshRate: 1000}, frontend, frontend, buzzer)
	assert.NoError(t, vm.LoadROM(rom))

	vm.Run()

	// The scheduler always leaves the buzzer off on exit.
	assert.False(t, buzzer.active)
	assert.True(t, vm.state.soundTimer > 0)
}

func TestRunStopsOnRequest(t *testing.T) {
	rom := []byte{0x12, 0x00}

	frontend := &stubFrontend{ticks: 1 << 30}
	vm := New(log.NewTestLogger(t), Config{RefreshRate: 1000}, frontend, frontend, nil)
	assert.NoError(t, vm.LoadROM(rom))

	vm.Stop()
	vm.Run() // exits immediately, quit is checked before each tick

	assert.Equal(t, 0, frontend.renders)
}

func TestRunStopsCycleBatchAfterDraw(t *testing.T) {
	// I = 0x000, draw glyph row, then spin; the draw must end its batch.
	rom := []byte{0xA0, 0x00, 0xD0, 0x11, 0x12, 0x04}

	frontend := &stubFrontend{ticks: 1}
	vm := New(log.NewTestLogger(t), Config{RefreshRate: 1000, CyclesPerTick: 100}, frontend, frontend, nil)
	assert.NoError(t, vm.LoadROM(rom))

	vm.Run()

	// Two instructions executed, not the full budget of 100.
	assert.Equal(t, uint16(ProgramStart+4), vm.state.pc)
	assert.Equal(t, 1, frontend.renders)
}

func TestTimerDecayOverTicks(t *testing.T) {
	vm := newTestVM(t)
	vm.state.v[0x1] = 5
	step(vm, 0xF115)

	for i := 4; i >= 0; i-- {
		vm.TickTimers()
		assert.Equal(t, uint8(i), vm.state.delayTimer)
	}

	// Held at zero, never below.
	vm.TickTimers()
	assert.Equal(t, uint8(0), vm.state.delayTimer)
}

func TestSoundActiveTracksTimer(t *testing.T) {
	vm := newTestVM(t)
	assert.False(t, vm.SoundActive())

	vm.state.soundTimer = 2
	assert.True(t, vm.SoundActive())

	vm.TickTimers()
	vm.TickTimers()
	assert.False(t, vm.SoundActive())
}

func TestConfigDefaults(t *testing.T) {
	vm := New(log.NewTestLogger(t), Config{}, nil, nil, nil)
	assert.Equal(t, DefaultCyclesPerTick, vm.cyclesPerTick)
}
