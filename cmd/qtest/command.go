package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Invicton-Labs/go-linkedqueue/config"
	"github.com/Invicton-Labs/go-linkedqueue/driver"
	"github.com/Invicton-Labs/go-linkedqueue/log"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

func newRootCommand(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "qtest",
		Short:         "Run command scripts against a linked queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var level string
	var seed int64
	run := &cobra.Command{
		Use:   "run [script]",
		Short: "run a command script, read from stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("level") {
				parsed, err := zapcore.ParseLevel(level)
				if err != nil {
					return stackerr.Wrap(err)
				}
				cfg.Log.Level = parsed
			}
			if len(args) == 1 {
				cfg.Script = args[0]
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.InitDefault(cfg.LogInput("qtest"))
			log.SweetenDefaultLogger(map[string]any{"version": version})
			logger := log.Default()
			defer func() { _ = logger.Sync() }()
			return runScript(log.LogContext(cmd.Context(), logger), *cfg, seed, stdin, cmd.OutOrStdout())
		},
	}
	run.Flags().StringVar(&level, "level", cfg.Log.Level.String(), "log level")
	run.Flags().BoolVar(&cfg.Log.IsDevelopment, "dev", cfg.Log.IsDevelopment, "human readable logs")
	run.Flags().IntVar(&cfg.Queue.MaxBlocks, "max-blocks", cfg.Queue.MaxBlocks, "maximum live allocations, 0 for no limit")
	run.Flags().BoolVar(&cfg.Queue.StopOnError, "stop-on-error", cfg.Queue.StopOnError, "stop at the first failing command")
	run.Flags().Int64Var(&seed, "seed", 1, "seed for RAND values")

	root.AddCommand(
		run,
		&cobra.Command{
			Use:   "version",
			Short: "print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	root.SetOut(stdout)
	return root
}

func runScript(ctx context.Context, cfg config.Config, seed int64, stdin io.Reader, out io.Writer) (err error) {
	logger := log.FromContext(ctx)

	script := stdin
	if cfg.Script != "" {
		f, ferr := os.Open(cfg.Script)
		if ferr != nil {
			return stackerr.Wrap(ferr)
		}
		defer f.Close()
		script = f
	}

	session := driver.NewSession(ctx, driver.Options{
		MaxBlocks:   cfg.Queue.MaxBlocks,
		StopOnError: cfg.Queue.StopOnError,
		Output:      out,
		Seed:        seed,
	})
	logger.Infow("running script", "session", session.ID(), "script", cfg.Script)

	err = session.Run(ctx, script)
	if cerr := session.Close(); cerr != nil {
		logger.Error(cerr)
		err = multierr.Append(err, cerr)
	}
	if err != nil {
		logger.Errorw("script failed", "session", session.ID(), "errors", len(multierr.Errors(err)))
		return err
	}
	logger.Infow("script finished", "session", session.ID())
	return nil
}
