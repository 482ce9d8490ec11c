package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/platform/tui"
	"github.com/vovakirdan/gravity/internal/storage"
)

var (
	flagImportFrom string
	flagProgressUI bool
	flagClearRuns  bool
	flagProfiles   bool
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a profile's progress",
	Long: `Shows the unlocked level, per-level statistics and achievements of
the current profile.

Examples:
  gravity progress
  gravity progress --profile ada
  gravity progress --profiles
  gravity progress --import guest     # keep the better of guest's and your level
  gravity progress --tui`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().StringVar(&flagImportFrom, "import", "", "Merge another profile's highest level into this one")
	progressCmd.Flags().BoolVar(&flagProgressUI, "tui", false, "Open the interactive progress screen")
	progressCmd.Flags().BoolVar(&flagClearRuns, "clear-runs", false, "Delete this profile's run history")
	progressCmd.Flags().BoolVar(&flagProfiles, "profiles", false, "List every saved profile")
}

func runProgress(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if a.store == nil {
		return errors.New("no save database")
	}
	store := a.store

	switch {
	case flagProfiles:
		return printProfiles(store)

	case flagImportFrom != "":
		rec, err := store.MergeHighest(flagProfile, flagImportFrom)
		if err != nil {
			return err
		}
		fmt.Printf("Profile %s: highest level %d\n", flagProfile, rec.HighestLevel)
		return nil

	case flagClearRuns:
		if err := store.ClearRuns(flagProfile); err != nil {
			return err
		}
		fmt.Printf("Run history of %s cleared.\n", flagProfile)
		return nil

	case flagProgressUI:
		cfg := runtimeConfig()
		_, err := tui.RunProgress(store, flagProfile, cfg.ScreenW, cfg.ScreenH)
		return err
	}

	return printProgress(store)
}

func printProfiles(store *storage.Store) error {
	profiles, err := store.Profiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles saved yet.")
		return nil
	}
	fmt.Printf("  %-16s  %-7s  %s\n", "Profile", "Highest", "Saved")
	fmt.Printf("  %-16s  %-7s  %s\n", "-------", "-------", "-----")
	for _, p := range profiles {
		fmt.Printf("  %-16s  %-7d  %s\n", p.Profile, p.HighestLevel, p.UpdatedAt.Format(time.DateTime))
	}
	return nil
}

func printProgress(store *storage.Store) error {
	rec, ok, err := store.Load(flagProfile)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No progress for %s yet.\n", flagProfile)
		return nil
	}

	fmt.Printf("Profile %s: highest level %d\n\n", flagProfile, rec.HighestLevel)

	stats, err := store.LevelStats(flagProfile)
	if err != nil {
		return err
	}
	if len(stats) > 0 {
		fmt.Printf("  %-5s  %-8s  %-7s  %s\n", "Level", "Attempts", "Clears", "Best")
		fmt.Printf("  %-5s  %-8s  %-7s  %s\n", "-----", "--------", "------", "----")
		for _, s := range stats {
			fmt.Printf("  %-5d  %-8d  %-7d  %.0f m\n", s.Level, s.Attempts, s.Completions, s.BestDistance)
		}
		fmt.Println()
	}

	achievements, err := store.Achievements(flagProfile)
	if err != nil {
		return err
	}
	if len(achievements) == 0 {
		fmt.Println("No achievements yet.")
		return nil
	}
	fmt.Println("Achievements:")
	for _, e := range achievements {
		title := string(e.ID)
		if info, ok := achievement.Lookup(e.ID); ok {
			title = info.Title
		}
		fmt.Printf("  %-42s  x%-4d  %s\n", title, e.Count, e.UnlockedAt.Format(time.DateOnly))
	}
	return nil
}
