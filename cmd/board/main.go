package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/cmd/board/admin"
	"github.com/charmbracelet/soft-board/cmd/board/serve"
	"github.com/charmbracelet/soft-board/cmd/board/user"
	"github.com/charmbracelet/soft-board/pkg/config"
	logr "github.com/charmbracelet/soft-board/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	configPath string

	// logFile is the log file opened by initConfig, if any.
	logFile *os.File

	rootCmd = &cobra.Command{
		Use:               "board",
		Short:             "A self-hostable collaborative Kanban server",
		Long:              "Soft Board is a self-hostable collaborative Kanban server.",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	cobra.EnableTraverseRunHooks = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(
		serve.Command,
		admin.Command,
		user.Command,
	)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

// initConfig loads the config file, writing the default one when it doesn't
// exist, and applies the environment on top of it.
func initConfig(c *cobra.Command, _ []string) error {
	if configPath != "" {
		if err := os.Setenv("SOFT_BOARD_CONFIG_LOCATION", configPath); err != nil {
			return err
		}
	}

	ctx := c.Context()
	cfg := config.DefaultConfig()
	if cfg.Exist() {
		if err := cfg.ParseFile(); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	} else {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		if err := cfg.WriteConfig(); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	if err := cfg.ParseEnv(); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	logger, f, err := logr.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	logFile = f

	// Set global logger
	log.SetDefault(logger)

	ctx = config.WithContext(ctx, cfg)
	ctx = log.WithContext(ctx, logger)
	c.SetContext(ctx)

	return nil
}

func main() {
	// Set the max number of processes to the number of CPUs
	// This is useful when running soft board in a container
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debugf)); err != nil {
		log.Warn("couldn't set automaxprocs", "error", err)
	}

	err := rootCmd.ExecuteContext(context.Background())
	if logFile != nil {
		logFile.Close() // nolint: errcheck
	}
	if err != nil {
		os.Exit(1)
	}
}
