package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity/internal/compiler"
	"github.com/vovakirdan/gravity/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the available levels",
	Long: `Compiles every level of the configured source and shows its size.
Levels that fail to load are listed with the reason.

Examples:
  gravity levels
  GRAVITY_LEVELS_DIR=./maps gravity levels`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func runLevels(cmd *cobra.Command, _ []string) error {
	cfg, src, err := loadConfig()
	if err != nil {
		return err
	}
	ids, err := src.IDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	opts := compiler.OptionsFrom(cfg)
	fmt.Printf("  %-5s  %-5s  %-8s  %-9s  %s\n", "Level", "Width", "Distance", "Obstacles", "Spikes")
	fmt.Printf("  %-5s  %-5s  %-8s  %-9s  %s\n", "-----", "-----", "--------", "---------", "------")

	broken := 0
	for _, id := range ids {
		plan, err := compileLevel(cmd.Context(), src, id, opts)
		if err != nil {
			broken++
			fmt.Printf("  %-5d  %s\n", id, describeLoadError(err))
			continue
		}
		fmt.Printf("  %-5d  %-5d  %-8.1f  %-9d  %d\n",
			id, plan.Width, plan.TotalDistance, len(plan.Obstacles), plan.Count(compiler.KindSpike))
	}

	fmt.Println()
	if broken > 0 {
		fmt.Printf("%d of %d levels cannot be played.\n", broken, len(ids))
	}
	fmt.Println("Run 'gravity play <level>' to play a level.")
	return nil
}

func compileLevel(ctx context.Context, src level.Source, id int, opts compiler.Options) (*compiler.Plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	grid, err := level.Read(ctx, src, id)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(id, grid, opts)
}

// describeLoadError tells missing files apart from bad map content.
func describeLoadError(err error) string {
	var ce *level.ContentError
	if errors.As(err, &ce) {
		return "invalid map: " + ce.Error()
	}
	var ioe *level.IOError
	if errors.As(err, &ioe) {
		return "unreadable: " + ioe.Error()
	}
	return err.Error()
}
