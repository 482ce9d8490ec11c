// gravity is a gravity-flip runner for the terminal.
//
// Usage:
//
//	gravity play [level]      - Play a level directly
//	gravity menu              - Start the level select
//	gravity levels            - List the available levels
//	gravity compile <level>   - Compile a level and print its plan
//	gravity progress          - Show a profile's progress
//	gravity serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--config <path>    - Use a custom gravity.yaml
//	--db <path>        - Set database path (default: ~/.gravity/gravity.db)
//	--profile <name>   - Play as this profile (default: $USER)
//	--log <path>       - Write the game log to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gravity/internal/ads"
	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/core"
	_ "github.com/vovakirdan/gravity/internal/games/gravity"
	"github.com/vovakirdan/gravity/internal/level"
	"github.com/vovakirdan/gravity/internal/platform/tui"
	"github.com/vovakirdan/gravity/internal/registry"
	"github.com/vovakirdan/gravity/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagConfig  string
	flagDBPath  string
	flagProfile string
	flagLogPath string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gravity",
	Short: "Gravity - flip gravity, dodge spikes, reach the flag",
	Long: `Gravity is a terminal runner. The map scrolls toward the ball and
every tap flips which way it falls. Clear a level to unlock the next one.

Available commands:
  play      - Play a level directly
  menu      - Interactive level select
  levels    - List the available levels
  compile   - Compile a level and print its plan
  progress  - Show a profile's progress
  serve     - Start SSH server for remote play

Examples:
  gravity menu
  gravity play 3
  gravity play 5 --practice
  gravity levels --config ./gravity.yaml
  gravity serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom gravity.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to save database (default: storage.path from config)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", defaultProfile(), "Profile to play as")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write the game log to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug messages")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
}

func defaultProfile() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// app is everything a command needs to run games.
type app struct {
	cfg    config.GravityConfig
	source level.Source
	store  *storage.Store
	logger *log.Logger
	logOut io.Closer
}

// newLogger writes to the --log file, or nowhere. The terminal belongs to
// the game while it runs.
func newLogger(prefix string) (*log.Logger, io.Closer, error) {
	var w io.Writer = io.Discard
	var c io.Closer
	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		w, c = f, f
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, c, nil
}

// loadConfig reads the configuration and resolves the level source.
func loadConfig() (config.GravityConfig, level.Source, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if cfg.Levels.Dir == "" {
		return cfg, level.Builtin(), nil
	}
	src, err := level.NewDirSource(cfg.Levels.Dir, cfg.Levels.Template)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, src, nil
}

func dbPath(cfg config.GravityConfig) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	if cfg.Storage.Path != "" {
		return cfg.Storage.Path
	}
	return "~/.gravity/gravity.db"
}

// openApp loads config, opens the save database and sets up logging. A
// database that cannot be opened is not fatal: the game runs without saves.
func openApp() (*app, error) {
	logger, logOut, err := newLogger("gravity")
	if err != nil {
		return nil, err
	}
	cfg, src, err := loadConfig()
	if err != nil {
		if logOut != nil {
			logOut.Close()
		}
		return nil, err
	}

	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		logger.Warn("could not open save database", "error", err)
		store = nil
	}

	return &app{cfg: cfg, source: src, store: store, logger: logger, logOut: logOut}, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logOut != nil {
		a.logOut.Close()
	}
}

// env returns the base environment without storage collaborators.
func (a *app) env() registry.Env {
	return registry.Env{
		Config: a.cfg,
		Source: a.source,
		Logger: a.logger,
	}
}

// localModes creates the playable modes for the terminal profile.
func (a *app) localModes() (*tui.Modes, error) {
	env := tui.ProfileEnv(a.env(), a.store, flagProfile)
	env.Ads = ads.NewTracker(env.Logger)
	env.Audio = tui.NewBell(os.Stdout)
	return tui.CreateModes(env)
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}
}
