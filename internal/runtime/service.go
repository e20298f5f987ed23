// Package runtime assembles the command line service from parsed options.
package runtime

import (
	"context"
	"io"
	"net/http"
	"os"

	"mercure-client/internal/app"
	"mercure-client/internal/config"
	"mercure-client/internal/logging"
)

type Service interface {
	RunContext(ctx context.Context) error
}

type StartHooks struct {
	OnStatus func(string)
	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	// HTTPClient defaults to a client whose requests are bounded by the
	// per-command timeout only.
	HTTPClient *http.Client
}

func NewService(opts config.Options, logger *logging.Logger) (Service, error) {
	return NewServiceWithHooks(opts, logger, StartHooks{})
}

func NewServiceWithHooks(opts config.Options, logger *logging.Logger, hooks StartHooks) (Service, error) {
	if logger == nil {
		panic("runtime.NewServiceWithHooks: logger must not be nil")
	}
	if err := config.ValidateRequired(opts); err != nil {
		return nil, err
	}
	logger.Debug("service configured",
		logging.Field("command", opts.Command),
		logging.Field("hub", opts.Hub),
		logging.Field("secret_file", opts.SecretFile),
		logging.Field("secret_keyring", opts.SecretKeyring),
	)

	httpClient := hooks.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	streams := app.Streams{In: hooks.Stdin, Out: hooks.Stdout}
	if streams.In == nil {
		streams.In = os.Stdin
	}
	if streams.Out == nil {
		streams.Out = os.Stdout
	}
	return app.New(opts, httpClient, logger, streams, app.Callbacks{
		OnStatusChange: hooks.OnStatus,
	}), nil
}
