package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	appRepos "github.com/yigit/scholarpath/internal/app/repositories"
	"github.com/yigit/scholarpath/internal/bootstrap"
	"github.com/yigit/scholarpath/internal/config"
	"github.com/yigit/scholarpath/internal/db"
	"github.com/yigit/scholarpath/internal/pkg/logger"
)

// app is what every subcommand shares once the root has connected
type app struct {
	cfg    *config.Config
	db     *db.PostgresDB
	repos  *appRepos.Repositories
	logger zerolog.Logger
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

var (
	configPath string
	current    *app
)

var rootCmd = &cobra.Command{
	Use:          "scholarctl",
	Short:        "ScholarPath maintenance CLI",
	Long:         `scholarctl runs the deadline reminder sweep on demand and prints scholarship rankings for a student.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Configure(logger.Config{
			Level:  logger.ParseLevel(cfg.Logging.Level),
			Format: "text",
			Output: os.Stderr,
		})

		database, err := db.NewPostgresDB(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		current = &app{
			cfg:    cfg,
			db:     database,
			repos:  appRepos.NewRepositories(database.Pool),
			logger: logger.Component("scholarctl"),
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		config.GetEnv("CONFIG_PATH", bootstrap.DefaultConfigPath), "path to the YAML config file")
	rootCmd.AddCommand(sweepCmd, rankCmd)
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, rootCmd)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs cmd and releases the shared connection whether or not the subcommand failed;
// cobra skips post-run hooks after an error.
func execute(ctx context.Context, cmd *cobra.Command) error {
	defer closeCurrent()
	return cmd.ExecuteContext(ctx)
}

func closeCurrent() {
	if current != nil {
		current.Close()
		current = nil
	}
}
