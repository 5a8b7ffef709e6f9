package chip8

// TickTimers decrements both countdown timers by one, holding them at
// zero. It is called once per scheduler tick, independent of how many
// instructions that tick executed.
func (vm *VM) TickTimers() {
	if vm.state.delayTimer > 0 {
		vm.state.delayTimer--
	}
	if vm.state.soundTimer > 0 {
		vm.state.soundTimer--
	}
}

// SoundActive reports whether the buzzer should currently be audible.
// The machine produces no waveform itself, only this signal.
func (vm *VM) SoundActive() bool {
	return vm.state.soundTimer > 0
}
