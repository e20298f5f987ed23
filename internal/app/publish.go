package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"mercure-client/internal/client"
	"mercure-client/internal/config"
	"mercure-client/internal/logging"
	"mercure-client/internal/selector"
	"mercure-client/internal/token"
	"mercure-client/internal/topic"
)

var (
	retryInitialDelay = 500 * time.Millisecond
	retryMaxDelay     = 10 * time.Second
)

// publishRequest is one update as the publish and watch commands send it.
type publishRequest struct {
	topic    topic.Topic
	data     *string
	privacy  client.Privacy
	attempts uint
	timeout  time.Duration
}

func (a *App) runPublish(ctx context.Context) error {
	cmd := a.opts.Publish
	t, err := parseTopic(cmd.Topics)
	if err != nil {
		return err
	}
	data, err := config.PublishData(cmd)
	if err != nil {
		return err
	}
	hubClient, err := a.newClient(cmd.Selectors)
	if err != nil {
		return err
	}

	rev, err := a.publish(ctx, hubClient, publishRequest{
		topic:    t,
		data:     data,
		privacy:  privacyOf(cmd.Private),
		attempts: cmd.Attempts,
		timeout:  cmd.Timeout,
	})
	if err != nil {
		return err
	}
	a.logger.Info("update published", logging.Field("topic", t.Canonical().String()), logging.Field("revision_id", rev.String()))
	return a.writeLine(rev.String())
}

// newClient signs a publisher token for the given selectors, * when none,
// and binds it to the configured hub.
func (a *App) newClient(rawSelectors []string) (*client.Client, error) {
	hub, err := client.ParseHubURL(a.opts.Hub)
	if err != nil {
		return nil, err
	}
	selectors, err := parseSelectors(rawSelectors, []selector.Selector{selector.Wildcard})
	if err != nil {
		return nil, err
	}
	secret, err := a.publisherSecret()
	if err != nil {
		return nil, err
	}
	defer secret.Destroy()

	publisher, err := token.NewPublisher(secret, selectors)
	if err != nil {
		return nil, err
	}
	return client.New(a.http, hub, publisher, a.logger), nil
}

// publish sends req, retrying transport failures and 5xx/429 answers with
// exponential backoff until req.attempts is spent.
func (a *App) publish(ctx context.Context, hubClient *client.Client, req publishRequest) (client.RevisionID, error) {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = retryInitialDelay
	retry.MaxInterval = retryMaxDelay
	retry.Reset()

	attempts := req.attempts
	if attempts == 0 {
		attempts = 1
	}
	return backoff.Retry(ctx, func() (client.RevisionID, error) {
		attemptCtx := ctx
		if req.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, req.timeout)
			defer cancel()
		}
		rev, err := hubClient.PublishUpdate(attemptCtx, req.topic, req.data, req.privacy)
		if err == nil {
			return rev, nil
		}
		if ctx.Err() != nil || !isRetryable(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	},
		backoff.WithBackOff(retry),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			a.logger.Warn("publish failed, retrying",
				logging.Field("error", err),
				logging.Field("next_retry", next.String()))
		}),
	)
}

func isRetryable(err error) bool {
	kind, ok := client.ErrorKindOf(err)
	if !ok {
		return false
	}
	switch kind {
	case client.KindSendRequest, client.KindReadResponse:
		return true
	case client.KindRejected:
		var statusErr *client.HTTPStatusError
		if !errors.As(err, &statusErr) {
			return false
		}
		return statusErr.StatusCode >= http.StatusInternalServerError || statusErr.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

func parseTopic(urls []string) (topic.Topic, error) {
	if len(urls) == 0 {
		return topic.Topic{}, ErrNoTopics
	}
	return topic.Parse(urls[0], urls[1:]...)
}

func privacyOf(private bool) client.Privacy {
	if private {
		return client.Private
	}
	return client.Public
}
