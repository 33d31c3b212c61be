// Command dockedup is an interactive terminal dashboard for any
// Docker-Engine-API-compatible daemon: live container status, health,
// uptime, CPU and memory, grouped by Compose project, with per-container
// logs/restart/stop/shell actions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dockedup/dockedup/pkg/appstate"
	"github.com/dockedup/dockedup/pkg/dockerapi"
	"github.com/dockedup/dockedup/pkg/logger"
	"github.com/dockedup/dockedup/pkg/monitor"
	"github.com/dockedup/dockedup/pkg/tui"
)

// Version is set by build flags; cobra surfaces it via -v/--version.
var Version = "0.1.0"

var (
	refreshSeconds float64
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:     "dockedup",
	Short:   "Live, Compose-aware dashboard for your containers",
	Long:    `dockedup is an interactive terminal dashboard for Docker-Engine-API-compatible daemons: status, health, uptime, CPU and memory for every container, grouped by Compose project.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().Float64VarP(&refreshSeconds, "refresh", "r", 0.5, "UI refresh interval in seconds (minimum 0.1)")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug mode and file logging")
}

func run() error {
	if refreshSeconds < 0.1 {
		refreshSeconds = 0.1
	}

	if debug {
		logger.SetLevel(logger.LevelDebug)
		if err := logger.Init(true); err != nil {
			logger.Warn("could not enable file logging: %v", err)
		}
		defer logger.Close()
	}

	api, err := dockerapi.NewDockerAdapter()
	if err != nil {
		logger.Error("failed to build Docker adapter: %v", err)
		fmt.Fprintln(os.Stderr, tui.StyleError.Render(err.Error()))
		os.Exit(1)
	}
	defer api.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = api.Ping(pingCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			os.Exit(130)
		}
		logger.Error("daemon ping failed: %v", err)
		fmt.Fprintln(os.Stderr, tui.StyleError.Render("failed to connect to the Docker daemon: "+err.Error()))
		os.Exit(1)
	}

	mon := monitor.New(api)
	state := appstate.New(debug)
	refresh := time.Duration(refreshSeconds * float64(time.Second))

	model := tui.New(ctx, api, mon, state, refresh)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard exited with error: %w", err)
	}
	mon.Stop()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
