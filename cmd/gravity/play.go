package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity/internal/games/gravity"
	"github.com/vovakirdan/gravity/internal/platform/tui"
	"github.com/vovakirdan/gravity/internal/registry"
)

var flagPractice bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing a level directly. Without a level number the profile's
highest cleared level is replayed (level 1 for new profiles).

Controls:
  Space/Up/Click  - Flip gravity
  P/Esc           - Pause
  R               - Restart
  N/Enter         - Next level (after clearing one)
  M               - Back to the level select
  F5              - Reload the level
  Q/Ctrl+C        - Quit

Examples:
  gravity play
  gravity play 4
  gravity play 7 --practice
  gravity play --config ./my-gravity.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagPractice, "practice", false, "Practice mode: every level open, invincible ball, nothing saved")
}

func runPlay(_ *cobra.Command, args []string) error {
	id := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid level %q", args[0])
		}
		id = n
	}

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

	modeID := gravity.ModeCampaign
	if flagPractice {
		modeID = gravity.ModePractice
	}
	game, ok := modes.Game(modeID)
	if !ok {
		return fmt.Errorf("mode %q is not registered", modeID)
	}

	if id > 0 {
		lv, ok := game.(registry.Leveled)
		if !ok {
			return fmt.Errorf("mode %q has no levels", modeID)
		}
		if id > lv.Levels() {
			return fmt.Errorf("level %d does not exist (%d levels)", id, lv.Levels())
		}
		if !lv.SelectLevel(id) {
			fmt.Fprintf(os.Stderr, "Level %d is locked. Clear level %d first, or use --practice.\n", id, lv.Unlocked())
			return nil
		}
	}

	cfg := runtimeConfig()
	backToMenu, err := tui.Run(game, cfg)
	if err != nil {
		return err
	}
	if backToMenu {
		menuLoop(a, modes, cfg)
	}
	return nil
}
