package chip8

// Quirks selects between documented behavioral variants of historical
// CHIP-8 interpreters. ROMs exist that depend on either side of each
// option. The zero value is the widely compatible modern behavior:
// logic instructions leave VF alone, shifts operate in place on VX,
// FX55/FX65 leave I unchanged and sprites clip at the screen edges.
type Quirks struct {
	// VFResetOnLogic makes 8XY1/8XY2/8XY3 reset VF to 0, as the
	// original COSMAC VIP interpreter did.
	VFResetOnLogic bool

	// ShiftReadsVY makes 8XY6/8XYE shift the value of VY into VX
	// instead of shifting VX in place.
	ShiftReadsVY bool

	// IndexIncrementOnStore makes FX55/FX65 leave I pointing past the
	// last register slot touched (I = I + X + 1).
	IndexIncrementOnStore bool

	// SpriteWrap makes DXYN wrap pixels that fall off an edge to the
	// opposite side instead of clipping them.
	SpriteWrap bool
}
