package main

import (
	"chirp8/cmd"

	"github.com/faiface/pixel/pixelgl"
)

// pixelgl must own the main thread; the CLI runs inside its loop.
func main() {
	pixelgl.Run(cmd.Execute)
}
