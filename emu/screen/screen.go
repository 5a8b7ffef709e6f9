// Package screen is the pixelgl frontend: it owns the window, blits
// the framebuffer and maps the host keyboard onto the hex keypad.
package screen

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"chirp8/emu/chip8"
)

// keymap assigns a host key to each hex keypad key 0x0-0xF, using the
// usual 4x4 block on a QWERTY layout:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
var keymap = [chip8.NumKeys]pixelgl.Button{
	0x0: pixelgl.KeyX,
	0x1: pixelgl.Key1,
	0x2: pixelgl.Key2,
	0x3: pixelgl.Key3,
	0x4: pixelgl.KeyQ,
	0x5: pixelgl.KeyW,
	0x6: pixelgl.KeyE,
	0x7: pixelgl.KeyA,
	0x8: pixelgl.KeyS,
	0x9: pixelgl.KeyD,
	0xA: pixelgl.KeyZ,
	0xB: pixelgl.KeyC,
	0xC: pixelgl.Key4,
	0xD: pixelgl.KeyR,
	0xE: pixelgl.KeyF,
	0xF: pixelgl.KeyV,
}

// Window renders the 64x32 framebuffer scaled up into a pixelgl window
// and doubles as the input collaborator. Escape closes the window.
type Window struct {
	win   *pixelgl.Window
	scale float64
}

// New opens the emulator window. Must run on the main thread, inside
// pixelgl.Run.
func New(title string, scale float64) (*Window, error) {
	if scale <= 0 {
		scale = 8
	}

	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, chip8.DisplayWidth*scale, chip8.DisplayHeight*scale),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	win.Clear(colornames.Black)
	win.Update()

	return &Window{win: win, scale: scale}, nil
}

// Render blits the framebuffer. The framebuffer's row 0 is the top of
// the screen while pixel's origin is bottom-left, so rows are flipped.
func (w *Window) Render(fb *[chip8.DisplaySize]uint8) {
	w.win.Clear(colornames.Black)

	imd := imdraw.New(nil)
	imd.Color = colornames.White

	for y := 0; y < chip8.DisplayHeight; y++ {
		for x := 0; x < chip8.DisplayWidth; x++ {
			if fb[y*chip8.DisplayWidth+x] == 0 {
				continue
			}
			top := float64(chip8.DisplayHeight-y) * w.scale
			left := float64(x) * w.scale
			imd.Push(pixel.V(left, top-w.scale), pixel.V(left+w.scale, top))
			imd.Rectangle(0)
		}
	}

	imd.Draw(w.win)
	w.win.Update()
}

// Poll processes pending window events and returns the keypad snapshot.
func (w *Window) Poll() [chip8.NumKeys]bool {
	w.win.UpdateInput()

	if w.win.Pressed(pixelgl.KeyEscape) {
		w.win.SetClosed(true)
	}

	var keys [chip8.NumKeys]bool
	for key, button := range keymap {
		keys[key] = w.win.Pressed(button)
	}
	return keys
}

// Closed reports whether the user quit the window.
func (w *Window) Closed() bool {
	return w.win.Closed()
}

// Destroy releases the window resources.
func (w *Window) Destroy() {
	w.win.Destroy()
}
