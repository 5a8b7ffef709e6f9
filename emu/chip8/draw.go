package chip8

// drawSprite XORs an n-row sprite read from memory at I into the
// framebuffer at (VX, VY). The origin wraps around the screen once;
// pixels that then fall off an edge are clipped, or wrapped when the
// SpriteWrap quirk is on. VF is left at 1 when any drawn pixel turned
// an on pixel off, otherwise 0.
func (vm *VM) drawSprite(op Opcode) {
	x0 := uint16(vm.state.v[op.X]) % DisplayWidth
	y0 := uint16(vm.state.v[op.Y]) % DisplayHeight

	vm.state.v[0xF] = 0
	drew := false

	for row := uint16(0); row < uint16(op.N); row++ {
		sprite := vm.state.memory[(vm.state.i+row)&addrMask]

		for bit := uint16(0); bit < 8; bit++ {
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			px := x0 + bit
			py := y0 + row
			if vm.quirks.SpriteWrap {
				px %= DisplayWidth
				py %= DisplayHeight
			} else if px >= DisplayWidth || py >= DisplayHeight {
				continue
			}

			idx := py*DisplayWidth + px
			if vm.state.display[idx] == 1 {
				vm.state.v[0xF] = 1
			}
			vm.state.display[idx] ^= 1
			drew = true
		}
	}

	if drew {
		vm.state.dirty = true
	}
}
