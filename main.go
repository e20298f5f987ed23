package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mercure-client/internal/config"
	"mercure-client/internal/logging"
	"mercure-client/internal/runtime"

	flags "github.com/jessevdk/go-flags"
)

var BuildVersion = "dev"

func main() {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	opts, err := config.ParseOptions(os.Args[1:])
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		// go-flags already printed parse errors.
		if flagErr == nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	logger := logging.New(opts.Debug)
	if opts.LogDir != "" {
		if err := logger.EnableFilePersistence(opts.LogDir, 0); err != nil {
			fmt.Fprintln(os.Stderr, "failed to enable log persistence:", err)
			os.Exit(2)
		}
	}
	logger.Debug("starting", logging.Field("version", BuildVersion), logging.Field("command", opts.Command))

	os.Exit(run(rootCtx, opts, logger))
}

func run(ctx context.Context, opts config.Options, logger *logging.Logger) int {
	defer func() {
		_ = logger.Close()
	}()

	svc, err := runtime.NewService(opts, logger)
	if err != nil {
		logger.Error("invalid configuration", logging.Field("error", err))
		return 2
	}
	if err := svc.RunContext(ctx); err != nil {
		logger.Error(opts.Command+" failed", logging.Field("error", err))
		return 1
	}
	return 0
}
