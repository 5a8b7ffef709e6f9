package chip8

import (
	"errors"
	"fmt"
)

// Memory layout and machine dimensions.
const (
	MemorySize   = 0x1000
	ProgramStart = 0x200
	MaxROMSize   = MemorySize - ProgramStart

	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight

	NumRegisters = 16
	NumKeys      = 16
	StackDepth   = 16

	// addrMask clamps derived addresses to the 12-bit address space.
	addrMask = MemorySize - 1

	fontBase      = 0x000
	fontGlyphSize = 5
)

var (
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrROMTooLarge       = errors.New("ROM image exceeds program memory")
)

// fontSet holds the 16 hex digit glyphs, 5 bytes per glyph, loaded at
// address 0x000 on reset and never touched afterwards.
var fontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// State is the complete machine state of one CHIP-8 session: memory,
// registers, call stack, timers and framebuffer. It has no behavior of
// its own beyond bounds enforcement; the dispatcher, sprite compositor
// and timer code mutate it through the owning VM.
type State struct {
	memory [MemorySize]uint8
	v      [NumRegisters]uint8
	i      uint16
	pc     uint16

	stack [StackDepth]uint16
	sp    uint8

	delayTimer uint8
	soundTimer uint8

	display [DisplaySize]uint8
	dirty   bool
}

// Reset zeroes all state, reloads the font and points the program
// counter at the program start address.
func (s *State) Reset() {
	*s = State{pc: ProgramStart}
	copy(s.memory[fontBase:], fontSet[:])
}

// Read8 returns the byte at addr. Addresses outside the 4K memory are a
// defined error, never a silent read of adjacent state.
func (s *State) Read8(addr uint16) (uint8, error) {
	if addr >= MemorySize {
		return 0, fmt.Errorf("read at %04X: %w", addr, ErrAddressOutOfRange)
	}
	return s.memory[addr], nil
}

// Write8 stores v at addr, failing for addresses outside the 4K memory.
func (s *State) Write8(addr uint16, v uint8) error {
	if addr >= MemorySize {
		return fmt.Errorf("write at %04X: %w", addr, ErrAddressOutOfRange)
	}
	s.memory[addr] = v
	return nil
}

// setIndex writes the index register, masked to the 12-bit address space.
func (s *State) setIndex(v uint16) {
	s.i = v & addrMask
}

// push records a return address. The stack is bounded at 16 frames;
// calling deeper is reported to the caller and leaves the stack intact.
func (s *State) push(addr uint16) error {
	if s.sp >= StackDepth {
		return ErrStackOverflow
	}
	s.stack[s.sp] = addr
	s.sp++
	return nil
}

// pop removes and returns the most recent return address.
func (s *State) pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.stack[s.sp], nil
}

// clearDisplay blanks the framebuffer and marks it dirty.
func (s *State) clearDisplay() {
	s.display = [DisplaySize]uint8{}
	s.dirty = true
}

// Display exposes the framebuffer, one byte per pixel, row-major.
func (s *State) Display() *[DisplaySize]uint8 {
	return &s.display
}
