// Package client publishes updates to a Mercure hub.
package client

import (
	"net/http"

	"mercure-client/internal/logging"
	"mercure-client/internal/token"
)

// Client is safe for concurrent use; it holds no mutable state.
type Client struct {
	http   *http.Client
	hub    HubURL
	token  *token.Publisher
	logger *logging.Logger
}

func New(httpClient *http.Client, hub HubURL, publisherToken *token.Publisher, logger *logging.Logger) *Client {
	if logger == nil {
		panic("client.New: logger must not be nil")
	}
	if publisherToken == nil {
		panic("client.New: publisher token must not be nil")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, hub: hub, token: publisherToken, logger: logger}
}

func (c *Client) HubURL() HubURL { return c.hub }
