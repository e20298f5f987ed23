// Package app runs the command line operations on top of the hub client.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"mercure-client/internal/config"
	"mercure-client/internal/credentials"
	"mercure-client/internal/logging"
	"mercure-client/internal/runstatus"
	"mercure-client/internal/selector"
	"mercure-client/internal/token"
)

// Streams carries the process's standard input and output. Tokens and
// revision IDs go to Out; logs never do.
type Streams struct {
	In  io.Reader
	Out io.Writer
}

type App struct {
	opts    config.Options
	http    *http.Client
	logger  *logging.Logger
	streams Streams
	hooks   Callbacks
	status  runtimeStatusState
}

type Callbacks struct {
	OnStatusChange func(string)
}

func New(opts config.Options, httpClient *http.Client, logger *logging.Logger, streams Streams, hooks Callbacks) *App {
	if httpClient == nil {
		panic("app.New: http client must not be nil")
	}
	if logger == nil {
		panic("app.New: logger must not be nil")
	}
	if streams.In == nil {
		streams.In = strings.NewReader("")
	}
	if streams.Out == nil {
		streams.Out = io.Discard
	}
	return &App{opts: opts, http: httpClient, logger: logger, streams: streams, hooks: hooks}
}

func (a *App) RunContext(ctx context.Context) error {
	a.logger.Debug("running command", logging.Field("command", a.opts.Command))
	switch a.opts.Command {
	case config.CommandPublish:
		return a.runPublish(ctx)
	case config.CommandPublisherToken:
		return a.runPublisherToken()
	case config.CommandSubscriberToken:
		return a.runSubscriberToken()
	case config.CommandWatch:
		return a.runWatch(ctx)
	case config.CommandStoreSecret:
		return a.runStoreSecret()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, a.opts.Command)
	}
}

func (a *App) loadSecret() ([]byte, error) {
	return credentials.Resolve(credentials.Source{
		Value:      a.opts.Secret,
		File:       a.opts.SecretFile,
		KeyringKey: a.opts.SecretKeyring,
	})
}

func (a *App) publisherSecret() (token.PublisherSecret, error) {
	raw, err := a.loadSecret()
	if err != nil {
		return token.PublisherSecret{}, err
	}
	secret := token.NewPublisherSecret(raw)
	clear(raw)
	a.warnIfWeak(secret.Weak(), secret.Len())
	return secret, nil
}

func (a *App) subscriberSecret() (token.SubscriberSecret, error) {
	raw, err := a.loadSecret()
	if err != nil {
		return token.SubscriberSecret{}, err
	}
	secret := token.NewSubscriberSecret(raw)
	clear(raw)
	a.warnIfWeak(secret.Weak(), secret.Len())
	return secret, nil
}

func (a *App) warnIfWeak(weak bool, length int) {
	if !weak {
		return
	}
	a.logger.Warn("JWT secret is shorter than recommended",
		logging.Field("length", length),
		logging.Field("recommended", token.RecommendedSecretLen),
	)
}

func parseSelectors(raw []string, fallback []selector.Selector) ([]selector.Selector, error) {
	if len(raw) == 0 {
		return fallback, nil
	}
	out := make([]selector.Selector, 0, len(raw))
	for _, value := range raw {
		sel, err := selector.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func (a *App) writeLine(value string) error {
	_, err := fmt.Fprintln(a.streams.Out, value)
	return err
}

type runtimeStatusState struct {
	mu      sync.Mutex
	current string
}

func (s *runtimeStatusState) update(status string) (string, string, bool) {
	trimmed := strings.TrimSpace(status)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == trimmed {
		return s.current, trimmed, false
	}
	previous := s.current
	s.current = trimmed
	return previous, trimmed, true
}

func (a *App) notifyStatus(status string) {
	if a.hooks.OnStatusChange == nil {
		return
	}
	a.hooks.OnStatusChange(status)
}

func (a *App) setRuntimeStatus(status string) {
	previous, next, changed := a.status.update(status)
	if !changed {
		return
	}
	a.logger.Debug("runtime status transition",
		logging.Field("from", runstatus.Key(previous)),
		logging.Field("to", runstatus.Key(next)),
	)
	a.notifyStatus(status)
}
