package cmd

import (
	"fmt"
	"strconv"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chirp8/emu/chip8"
	"chirp8/emu/screen"
	"chirp8/emu/sound"
)

var runCmd = &cobra.Command{
	Use:   "run <rom> [cycles]",
	Short: "load a ROM and start the emulator",
	Long:  "Loads a raw CHIP-8 ROM image at address 0x200 and runs it at a 60 Hz tick rate. The optional second argument overrides the instructions-per-tick budget.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runEmulator,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("cycles", "c", chip8.DefaultCyclesPerTick, "instructions executed per tick")
	runCmd.Flags().IntP("refresh", "r", chip8.DefaultRefreshRate, "tick rate in Hz, drives timers and redraw")
	runCmd.Flags().Float64P("scale", "s", 8, "window scaling factor per CHIP-8 pixel")
	runCmd.Flags().Bool("trace", false, "log every executed instruction")
	runCmd.Flags().Bool("quirk-vf-reset", false, "OR/AND/XOR reset VF to 0")
	runCmd.Flags().Bool("quirk-shift-vy", false, "SHR/SHL read VY instead of shifting VX in place")
	runCmd.Flags().Bool("quirk-index-increment", false, "FX55/FX65 leave I incremented past the copied registers")
	runCmd.Flags().Bool("quirk-sprite-wrap", false, "sprites wrap at screen edges instead of clipping")

	for _, name := range []string{
		"cycles", "refresh", "scale", "trace",
		"quirk-vf-reset", "quirk-shift-vy", "quirk-index-increment", "quirk-sprite-wrap",
	} {
		cobra.CheckErr(viper.BindPFlag(name, runCmd.Flags().Lookup(name)))
	}
}

func runEmulator(cmd *cobra.Command, args []string) error {
	cfg := chip8.Config{
		CyclesPerTick: viper.GetInt("cycles"),
		RefreshRate:   viper.GetInt("refresh"),
		Trace:         viper.GetBool("trace"),
		Quirks: chip8.Quirks{
			VFResetOnLogic:        viper.GetBool("quirk-vf-reset"),
			ShiftReadsVY:          viper.GetBool("quirk-shift-vy"),
			IndexIncrementOnStore: viper.GetBool("quirk-index-increment"),
			SpriteWrap:            viper.GetBool("quirk-sprite-wrap"),
		},
	}

	if len(args) == 2 {
		cycles, err := strconv.Atoi(args[1])
		if err != nil || cycles <= 0 {
			return fmt.Errorf("invalid cycles argument %q", args[1])
		}
		cfg.CyclesPerTick = cycles
	}

	logger := newLogger(cfg.Trace)

	win, err := screen.New("chirp8", viper.GetFloat64("scale"))
	if err != nil {
		return err
	}
	defer win.Destroy()

	var buzzer chip8.Buzzer
	if b, err := sound.NewBuzzer(); err != nil {
		logger.Warn("audio disabled", log.Err(err))
	} else {
		buzzer = b
	}

	vm := chip8.New(logger, cfg, win, win, buzzer)
	if err := vm.LoadROMFile(args[0]); err != nil {
		return err
	}

	logger.Info("starting emulation",
		log.String("rom", args[0]),
		log.Int("cycles_per_tick", cfg.CyclesPerTick))
	vm.Run()
	return nil
}

func newLogger(debug bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}
