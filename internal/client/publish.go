package client

import (
	"context"
	"io"
	"net/http"
	"strings"

	"mercure-client/internal/logging"
	"mercure-client/internal/topic"
)

// PublishUpdate posts an update to the hub and returns the revision ID the
// hub assigned to it. A nil data publishes an update without payload.
//
// Nothing is retried; ctx bounds the single request.
func (c *Client) PublishUpdate(ctx context.Context, t topic.Topic, data *string, privacy Privacy) (RevisionID, error) {
	body, err := EncodeUpdate(t, data, privacy)
	if err != nil {
		return "", &PublishUpdateError{Kind: KindSerializeParameters, Err: err}
	}
	c.logger.Debug("publishing update",
		logging.Field("topic", t.Strings()),
		logging.Field("private", privacy.IsPrivate()),
		logging.Field("has_data", data != nil),
	)

	hub := c.hub.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hub, strings.NewReader(body))
	if err != nil {
		return "", &PublishUpdateError{Kind: KindSendRequest, Err: err}
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Authorization", "Bearer "+c.token.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &PublishUpdateError{Kind: KindSendRequest, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debugf("POST %s -> %s", hub, resp.Status)

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn("publish rejected",
			logging.Field("status", resp.Status),
			logging.Field("topic", t.Strings()),
			logging.Field("response", logging.FormatHTTPPayload(payload)),
		)
		return "", &PublishUpdateError{
			Kind: KindRejected,
			Err:  &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status},
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &PublishUpdateError{Kind: KindReadResponse, Err: err}
	}
	rev := RevisionID(payload)
	c.logger.Debug("update published", logging.Field("revision_id", rev.String()))
	return rev, nil
}
