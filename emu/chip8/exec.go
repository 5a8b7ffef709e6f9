package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// Cycle fetches, decodes and executes the instruction at the program
// counter. It reports whether the instruction drew to the framebuffer,
// which the scheduler uses to cut an instruction batch short.
func (vm *VM) Cycle() bool {
	pc := vm.state.pc & addrMask
	op := Decode(vm.state.memory[pc], vm.state.memory[(pc+1)&addrMask])

	if vm.trace {
		vm.logger.Debug("exec",
			log.Hex("pc", pc),
			log.Hex("opcode", op.Word),
			log.String("asm", op.Disassemble()))
	}

	return vm.execute(op)
}

// execute dispatches one decoded instruction by class. Every handler
// leaves the program counter on the next instruction to run: linear
// instructions advance it by 2, taken skips by 4, jumps/calls/returns
// set it directly, and a blocked key wait leaves it in place.
func (vm *VM) execute(op Opcode) bool {
	s := &vm.state

	switch op.Class {
	case 0x0:
		vm.execSys(op)
	case 0x1: // JP nnn
		s.pc = op.NNN
	case 0x2: // CALL nnn
		if err := s.push(s.pc + 2); err != nil {
			vm.logger.Warn("call ignored", log.Err(err), log.Hex("pc", s.pc))
			s.pc += 2
			break
		}
		s.pc = op.NNN
	case 0x3: // SE Vx, byte
		vm.skipIf(s.v[op.X] == op.NN)
	case 0x4: // SNE Vx, byte
		vm.skipIf(s.v[op.X] != op.NN)
	case 0x5: // SE Vx, Vy
		if op.N != 0 {
			vm.unknownOpcode(op)
			break
		}
		vm.skipIf(s.v[op.X] == s.v[op.Y])
	case 0x6: // LD Vx, byte
		s.v[op.X] = op.NN
		s.pc += 2
	case 0x7: // ADD Vx, byte (no carry flag)
		s.v[op.X] += op.NN
		s.pc += 2
	case 0x8:
		vm.execALU(op)
	case 0x9: // SNE Vx, Vy
		if op.N != 0 {
			vm.unknownOpcode(op)
			break
		}
		vm.skipIf(s.v[op.X] != s.v[op.Y])
	case 0xA: // LD I, nnn
		s.setIndex(op.NNN)
		s.pc += 2
	case 0xB: // JP V0, nnn
		s.pc = (uint16(s.v[0]) + op.NNN) & addrMask
	case 0xC: // RND Vx, byte
		s.v[op.X] = uint8(vm.rng.Intn(256)) & op.NN
		s.pc += 2
	case 0xD: // DRW Vx, Vy, n
		vm.drawSprite(op)
		s.pc += 2
		return true
	case 0xE:
		vm.execKey(op)
	case 0xF:
		vm.execMisc(op)
	}

	return false
}

// execSys handles the base-0 class: clear screen, return, and the
// legacy 0NNN machine code call, which is never executed as host code
// and degrades to a diagnosed no-op.
func (vm *VM) execSys(op Opcode) {
	s := &vm.state

	switch op.NNN {
	case 0x0E0: // CLS
		s.clearDisplay()
		s.pc += 2
	case 0x0EE: // RET
		addr, err := s.pop()
		if err != nil {
			vm.logger.Warn("return ignored", log.Err(err), log.Hex("pc", s.pc))
			s.pc += 2
			break
		}
		s.pc = addr
	default: // SYS nnn
		vm.logger.Debug("machine code call ignored", log.Hex("opcode", op.Word), log.Hex("pc", s.pc))
		s.pc += 2
	}
}

// execALU handles the base-8 register arithmetic class. The flag is
// written after the result so that VF holds the flag, not the result,
// when X is F.
func (vm *VM) execALU(op Opcode) {
	s := &vm.state
	vx, vy := s.v[op.X], s.v[op.Y]

	switch op.N {
	case 0x0: // LD Vx, Vy
		s.v[op.X] = vy
	case 0x1: // OR Vx, Vy
		s.v[op.X] = vx | vy
		vm.resetFlagOnLogic()
	case 0x2: // AND Vx, Vy
		s.v[op.X] = vx & vy
		vm.resetFlagOnLogic()
	case 0x3: // XOR Vx, Vy
		s.v[op.X] = vx ^ vy
		vm.resetFlagOnLogic()
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		s.v[op.X] = uint8(sum)
		s.v[0xF] = uint8(sum >> 8)
	case 0x5: // SUB Vx, Vy
		s.v[op.X] = vx - vy
		s.v[0xF] = boolFlag(vx >= vy)
	case 0x6: // SHR Vx
		val := vx
		if vm.quirks.ShiftReadsVY {
			val = vy
		}
		s.v[op.X] = val >> 1
		s.v[0xF] = val & 0x01
	case 0x7: // SUBN Vx, Vy
		s.v[op.X] = vy - vx
		s.v[0xF] = boolFlag(vy >= vx)
	case 0xE: // SHL Vx
		val := vx
		if vm.quirks.ShiftReadsVY {
			val = vy
		}
		s.v[op.X] = val << 1
		s.v[0xF] = val >> 7
	default:
		vm.unknownOpcode(op)
		return
	}

	s.pc += 2
}

// execKey handles the base-E class, skipping on the state of the key
// named by Vx.
func (vm *VM) execKey(op Opcode) {
	s := &vm.state

	switch op.NN {
	case 0x9E: // SKP Vx
		vm.skipIf(vm.latch.Pressed(s.v[op.X]))
	case 0xA1: // SKNP Vx
		vm.skipIf(!vm.latch.Pressed(s.v[op.X]))
	default:
		vm.unknownOpcode(op)
	}
}

// execMisc handles the base-F class: timers, the blocking key read,
// index arithmetic, font lookup, BCD and register save/restore.
func (vm *VM) execMisc(op Opcode) {
	s := &vm.state

	switch op.NN {
	case 0x07: // LD Vx, DT
		s.v[op.X] = s.delayTimer
		s.pc += 2
	case 0x0A: // LD Vx, K
		key, pressed, done := vm.latch.step()
		if pressed {
			s.v[op.X] = key
		}
		if done {
			s.pc += 2
		}
	case 0x15: // LD DT, Vx
		s.delayTimer = s.v[op.X]
		s.pc += 2
	case 0x18: // LD ST, Vx
		s.soundTimer = s.v[op.X]
		s.pc += 2
	case 0x1E: // ADD I, Vx
		s.setIndex(s.i + uint16(s.v[op.X]))
		s.pc += 2
	case 0x29: // LD F, Vx
		s.setIndex(fontBase + uint16(s.v[op.X]&0x0F)*fontGlyphSize)
		s.pc += 2
	case 0x33: // LD B, Vx
		s.memory[s.i&addrMask] = s.v[op.X] / 100
		s.memory[(s.i+1)&addrMask] = s.v[op.X] / 10 % 10
		s.memory[(s.i+2)&addrMask] = s.v[op.X] % 10
		s.pc += 2
	case 0x55: // LD [I], Vx
		for j := uint16(0); j <= uint16(op.X); j++ {
			s.memory[(s.i+j)&addrMask] = s.v[j]
		}
		vm.incrementIndexOnStore(op)
		s.pc += 2
	case 0x65: // LD Vx, [I]
		for j := uint16(0); j <= uint16(op.X); j++ {
			s.v[j] = s.memory[(s.i+j)&addrMask]
		}
		vm.incrementIndexOnStore(op)
		s.pc += 2
	default:
		vm.unknownOpcode(op)
	}
}

// skipIf advances past the next instruction when cond holds.
func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.state.pc += 4
	} else {
		vm.state.pc += 2
	}
}

func (vm *VM) resetFlagOnLogic() {
	if vm.quirks.VFResetOnLogic {
		vm.state.v[0xF] = 0
	}
}

func (vm *VM) incrementIndexOnStore(op Opcode) {
	if vm.quirks.IndexIncrementOnStore {
		vm.state.setIndex(vm.state.i + uint16(op.X) + 1)
	}
}

// unknownOpcode reports an undecodable instruction word and moves past
// it; it never terminates the run.
func (vm *VM) unknownOpcode(op Opcode) {
	vm.logger.Warn("unknown opcode", log.Hex("opcode", op.Word), log.Hex("pc", vm.state.pc))
	vm.state.pc += 2
}
