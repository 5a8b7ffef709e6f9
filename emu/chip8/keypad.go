package chip8

// waitState tracks the blocking key-read (FX0A) sub-state. The two
// phases exist so a held key does not retrigger the instruction on
// every tick, and so a release on the same tick as the press is still
// observed.
type waitState uint8

const (
	waitIdle waitState = iota
	waitPress
	waitRelease
)

// KeypadLatch holds the 16 hex key states, overwritten wholesale once
// per scheduler tick from the input collaborator, plus the wait-for-key
// state machine used by the blocking read instruction.
type KeypadLatch struct {
	keys    [NumKeys]bool
	wait    waitState
	waitKey uint8
}

// SetKeys replaces the key snapshot with the collaborator's current one.
func (k *KeypadLatch) SetKeys(keys [NumKeys]bool) {
	k.keys = keys
}

// Pressed reports whether the given hex key is down. Key indices come
// from 4-bit opcode fields, masked by the caller.
func (k *KeypadLatch) Pressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// step advances the wait-for-key state machine by one transition
// against the current snapshot. It reports the key index the first
// time one is seen pressed, and done once that same key has been
// released again. Until done, the caller must not advance the program
// counter.
func (k *KeypadLatch) step() (key uint8, pressed, done bool) {
	switch k.wait {
	case waitIdle:
		k.wait = waitPress
	case waitPress:
		for i := uint8(0); i < NumKeys; i++ {
			if k.keys[i] {
				k.waitKey = i
				k.wait = waitRelease
				return i, true, false
			}
		}
	case waitRelease:
		if !k.keys[k.waitKey] {
			k.wait = waitIdle
			return k.waitKey, false, true
		}
	}
	return 0, false, false
}
