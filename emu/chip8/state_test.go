package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestResetLoadsFontAndProgramCounter(t *testing.T) {
	var s State
	s.Reset()

	assert.Equal(t, uint16(ProgramStart), s.pc)
	assert.Equal(t, uint8(0), s.sp)

	for i, b := range fontSet {
		assert.Equal(t, b, s.memory[fontBase+i])
	}
}

func TestRead8Write8Bounds(t *testing.T) {
	var s State
	s.Reset()

	assert.NoError(t, s.Write8(0xFFF, 0x42))
	b, err := s.Read8(0xFFF)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x42), b)

	_, err = s.Read8(MemorySize)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))

	err = s.Write8(MemorySize, 0)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
}

func TestSetIndexMasksTo12Bits(t *testing.T) {
	var s State
	s.Reset()

	s.setIndex(0x1234)
	assert.Equal(t, uint16(0x234), s.i)
}

func TestStackBounds(t *testing.T) {
	var s State
	s.Reset()

	for i := 0; i < StackDepth; i++ {
		assert.NoError(t, s.push(uint16(0x200+2*i)))
	}
	assert.True(t, errors.Is(s.push(0x300), ErrStackOverflow))
	assert.Equal(t, uint8(StackDepth), s.sp)

	for i := StackDepth - 1; i >= 0; i-- {
		addr, err := s.pop()
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x200+2*i), addr)
	}

	_, err := s.pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestClearDisplayMarksDirty(t *testing.T) {
	var s State
	s.Reset()

	s.display[5] = 1
	s.clearDisplay()

	assert.True(t, s.dirty)
	for _, px := range s.display {
		assert.Equal(t, uint8(0), px)
	}
}
