package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gravity SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the level select. Progress
is saved per SSH user name, so reconnecting as the same user keeps the
unlocked levels.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gravity/host_key

Examples:
  gravity serve                           # Listen on :23234 with auto-generated key
  gravity serve --ssh :2222               # Listen on port 2222
  gravity serve --host-key ./my_host_key  # Use specific host key
  gravity serve --db ./gravity.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, logOut, err := newLogger("gravity-ssh")
	if err != nil {
		return err
	}
	if logOut != nil {
		defer logOut.Close()
	}

	gcfg, src, err := loadConfig()
	if err != nil {
		return err
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = dbPath(gcfg)
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Env.Config = gcfg
	cfg.Env.Source = src
	// Without --log the server logs to stderr; there is no game on this terminal.
	if flagLogPath != "" {
		cfg.Env.Logger = logger
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting gravity SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
