package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the level select",
	Long: `Start gravity in interactive menu mode.

Pick a mode with Left/Right and a level with Up/Down. After a run you
return to the menu to play again. Locked levels open once the level
before them is cleared. Practice mode has every level open, the ball
cannot die and nothing is saved.

Controls:
  Up/Down/j/k     - Choose level
  Left/Right/h/l  - Choose mode
  Enter/Space     - Play
  Tab             - Progress
  Q               - Quit

Examples:
  gravity menu
  gravity menu --fps 30
  gravity menu --profile ada --db ./gravity.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	modes, err := a.localModes()
	if err != nil {
		return err
	}
	defer modes.Close()

	menuLoop(a, modes, runtimeConfig())
	return nil
}

// menuLoop shows the level select until the player quits.
func menuLoop(a *app, modes *tui.Modes, cfg core.RuntimeConfig) {
	for {
		menuResult, err := tui.RunMenu(modes.Entries, flagProfile, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsProgress {
			goBack, progErr := tui.RunProgress(tui.ProgressOf(a.store), flagProfile, cfg.ScreenW, cfg.ScreenH)
			if progErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", progErr)
			}
			if goBack {
				continue
			}
			return
		}

		sel := menuResult.Selection
		if sel == nil {
			return
		}
		game, ok := modes.Game(sel.GameID)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", sel.GameID)
			continue
		}

		backToMenu, err := tui.Run(game, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if !backToMenu {
			return
		}
	}
}
