package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"mercure-client/internal/client"
	"mercure-client/internal/config"
	"mercure-client/internal/cookie"
	"mercure-client/internal/credentials"
	"mercure-client/internal/logging"
	"mercure-client/internal/token"
)

func (a *App) runPublisherToken() error {
	selectors, err := parseSelectors(a.opts.PublisherToken.Selectors, nil)
	if err != nil {
		return err
	}
	secret, err := a.publisherSecret()
	if err != nil {
		return err
	}
	defer secret.Destroy()

	publisher, err := token.NewPublisher(secret, selectors)
	if err != nil {
		return err
	}
	a.logger.Debug("issued publisher token", logging.Field("selectors", publisher.Selectors()))
	return a.writeLine(publisher.String())
}

func (a *App) runSubscriberToken() error {
	cmd := a.opts.SubscriberToken
	selectors, err := parseSelectors(cmd.Selectors, nil)
	if err != nil {
		return err
	}

	var maxAge *token.MaxAge
	if cmd.MaxAge != 0 {
		m, err := token.NewMaxAge(cmd.MaxAge)
		if err != nil {
			return err
		}
		maxAge = &m
	}

	secret, err := a.subscriberSecret()
	if err != nil {
		return err
	}
	defer secret.Destroy()

	subscriber, err := token.NewSubscriber(secret, maxAge, selectors)
	if err != nil {
		return err
	}
	fields := []slog.Attr{logging.Field("selectors", subscriber.Selectors())}
	if exp, ok := subscriber.ExpiresAt(); ok {
		fields = append(fields, logging.Field("expires_at", exp))
	}
	a.logger.Debug("issued subscriber token", fields...)

	if !cmd.Cookie {
		return a.writeLine(subscriber.String())
	}
	hub, err := client.ParseHubURL(a.opts.Hub)
	if err != nil {
		return err
	}
	exp, _ := subscriber.ExpiresAt()
	c := cookie.New(subscriber.String(), exp, hub.URL().Path)
	return a.writeLine("Set-Cookie: " + c.String())
}

func (a *App) runStoreSecret() error {
	name := strings.TrimSpace(a.opts.StoreSecret.Name)
	if a.opts.StoreSecret.Delete {
		if err := credentials.DeleteSecret(name); err != nil {
			return err
		}
		a.logger.Info("removed JWT secret from keyring", logging.Field("entry", name))
		return config.UpdateSettings(a.opts.Config, func(s *config.Settings) {
			if s.SecretKeyring == name {
				s.SecretKeyring = ""
			}
		})
	}

	line, err := bufio.NewReader(a.streams.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read secret from stdin: %w", err)
	}
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	if err := credentials.SetSecret(name, line); err != nil {
		return err
	}
	a.logger.Info("stored JWT secret in keyring", logging.Field("entry", name))
	return config.UpdateSettings(a.opts.Config, func(s *config.Settings) {
		s.SecretKeyring = name
	})
}
