package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/litbook"
)

var (
	verbose    bool
	configPath string
	rootDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "litbook",
	Short: "Publish a literature review dataset as a GitBook",
	Long: `litbook renders the documents and use cases of a literature review into
markdown pages and keeps the book consistent while its folder layout evolves.
Stages can be run one by one or all at once with "litbook run".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts)).
			With("run_id", uuid.NewString())
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: litbook.yaml at the book root)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Book root (default: searched upwards from the working directory)")
}

// openService wires the pipeline for the selected book.
func openService() (*litbook.Service, error) {
	root := rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if found, err := litbook.FindRoot(wd); err == nil {
			root = found
		} else {
			root = wd
		}
	}

	opts := []litbook.Option{litbook.WithLogger(slog.Default())}
	if configPath != "" {
		opts = append(opts, litbook.WithConfigFile(configPath))
	}
	slog.Debug("opening book", "root", root, "config", configPath)
	return litbook.New(root, opts...)
}
