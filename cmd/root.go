package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/p5math/internal/config"
	"github.com/abhisek/p5math/internal/logger"
	"github.com/abhisek/p5math/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "p5math",
	Short: "AI math problems for Primary 5",
	Long:  "p5math generates Primary 5 math word problems with an LLM, grades answers and writes feedback.",
	// Errors are printed by main.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DATABASE_DSN and P5MATH_DB)")
	rootCmd.PersistentFlags().String("env-dir", ".", "Directory containing an optional .env file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration, applies command-line overrides and
// initializes logging. The returned closer flushes the log file.
func loadConfig(cmd *cobra.Command) (*config.Config, io.Closer, error) {
	dir, _ := cmd.Flags().GetString("env-dir")
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Database.Driver = store.DriverSQLite
		cfg.Database.DSN = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Server.Port = f.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	closer, err := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: cfg.Server.Mode == "debug",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, closer, nil
}

// openStore opens the configured database. For sqlite without a DSN the
// default XDG path is used.
func openStore(cfg *config.Config) (*store.Store, error) {
	dsn := cfg.Database.DSN
	if cfg.Database.Driver == store.DriverSQLite {
		var err error
		if dsn == "" {
			dsn, err = store.DefaultDBPath()
		} else {
			err = store.EnsureDir(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}

	s, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
