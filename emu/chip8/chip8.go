package chip8

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Default scheduler settings.
const (
	DefaultRefreshRate   = 60 // ticks per second
	DefaultCyclesPerTick = 10
)

// Display receives the framebuffer whenever it changed since the last
// hand-off and surfaces the frontend's quit signal.
type Display interface {
	Render(fb *[DisplaySize]uint8)
	Closed() bool
}

// Input supplies a snapshot of the 16 hex key states once per tick.
type Input interface {
	Poll() [NumKeys]bool
}

// Buzzer is toggled from the machine's boolean sound-active signal.
type Buzzer interface {
	SetActive(active bool)
}

// Config carries the scheduler and behavior settings of a VM.
type Config struct {
	CyclesPerTick int
	RefreshRate   int
	Trace         bool
	Quirks        Quirks
}

// VM is one CHIP-8 machine: the owned state plus the dispatcher,
// timers, keypad latch and the scheduler loop driving them. All state
// lives in a single execution context; nothing here is safe for
// concurrent use except Stop.
type VM struct {
	state  State
	latch  KeypadLatch
	quirks Quirks

	rng    *rand.Rand
	logger *log.Logger
	trace  bool

	cyclesPerTick int
	tick          time.Duration

	display Display
	input   Input
	buzzer  Buzzer

	quit     chan struct{}
	stopOnce sync.Once
}

// New builds a reset VM wired to its collaborators. The buzzer may be
// nil when no audio device is available.
func New(logger *log.Logger, cfg Config, display Display, input Input, buzzer Buzzer) *VM {
	if cfg.CyclesPerTick <= 0 {
		cfg.CyclesPerTick = DefaultCyclesPerTick
	}
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = DefaultRefreshRate
	}

	vm := &VM{
		quirks:        cfg.Quirks,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:        logger,
		trace:         cfg.Trace,
		cyclesPerTick: cfg.CyclesPerTick,
		tick:          time.Second / time.Duration(cfg.RefreshRate),
		display:       display,
		input:         input,
		buzzer:        buzzer,
		quit:          make(chan struct{}),
	}
	vm.state.Reset()
	return vm
}

// LoadROM copies a raw program image to the program start address. The
// image has no header and may use all memory up to the 4K boundary.
func (vm *VM) LoadROM(data []byte) error {
	if len(data) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(data), MaxROMSize)
	}
	copy(vm.state.memory[ProgramStart:], data)
	return nil
}

// LoadROMFile reads a ROM image from disk and loads it.
func (vm *VM) LoadROMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ROM %q: %w", path, err)
	}
	return vm.LoadROM(data)
}

// Run drives the machine at the configured tick rate until the display
// reports closed or Stop is called. Each tick: refresh the keypad
// latch, execute up to the cycle budget (cut short after a draw to
// keep draw-to-input latency low), decrement the timers once, forward
// the sound signal, and hand the framebuffer over when dirty. The
// ticker anchors ticks to wall-clock time so the cadence does not
// drift with instruction cost.
func (vm *VM) Run() {
	ticker := time.NewTicker(vm.tick)
	defer ticker.Stop()

	for !vm.stopped() && !vm.display.Closed() {
		vm.latch.SetKeys(vm.input.Poll())

		for i := 0; i < vm.cyclesPerTick; i++ {
			if vm.Cycle() {
				break
			}
		}

		vm.TickTimers()

		if vm.buzzer != nil {
			vm.buzzer.SetActive(vm.SoundActive())
		}

		if vm.state.dirty {
			vm.display.Render(&vm.state.display)
			vm.state.dirty = false
		}

		<-ticker.C
	}

	if vm.buzzer != nil {
		vm.buzzer.SetActive(false)
	}
}

// Stop asks the scheduler to exit after the in-flight tick. It may be
// called from another goroutine and more than once.
func (vm *VM) Stop() {
	vm.stopOnce.Do(func() { close(vm.quit) })
}

func (vm *VM) stopped() bool {
	select {
	case <-vm.quit:
		return true
	default:
		return false
	}
}

func boolFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
