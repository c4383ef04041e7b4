package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pbcheck/internal/di"
	"pbcheck/internal/models"
	"pbcheck/internal/structures"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("no drawing available")

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:           "pbcheck",
		Short:         "Check saved Powerball numbers against the latest drawing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "./config/config.yaml", "path to config file")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug logging")

	root.AddCommand(newServeCmd(flags), newCheckCmd(flags), newSaveCmd(flags))
	return root
}

func newServeCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the refresh scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := di.InitApp(flags)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to initialize application: %s\n", err)
				return err
			}
			defer cleanup()
			return app.Run(cmd.Context())
		},
	}
}

func newCheckCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the latest drawing and check saved numbers once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker, cleanup, err := di.InitChecker(flags)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to initialize: %s\n", err)
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sink := newConsoleSink(cmd.OutOrStdout())
			if err := checker.Check(ctx, sink); err != nil {
				return err
			}
			if sink.failed {
				return errCheckFailed
			}
			return nil
		},
	}
}

func newSaveCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "save W1 W2 W3 W4 W5 PB",
		Short: "Validate and store a number selection",
		Args:  cobra.ExactArgs(models.WhiteCount + 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, cleanup, err := di.InitChecker(flags)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to initialize: %s\n", err)
				return err
			}
			defer cleanup()

			sink := newConsoleSink(cmd.OutOrStdout())
			last := len(args) - 1
			return checker.Save(args[:last], args[last], sink)
		},
	}
}
