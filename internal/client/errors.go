package client

import (
	"errors"
	"fmt"
)

type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "http request failed"
	}
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("http status %d", e.StatusCode)
}

func IsUnauthorized(err error) bool {
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == 401 || statusErr.StatusCode == 403
}

type ErrorKind int

const (
	// KindSerializeParameters: the update could not be form-encoded.
	KindSerializeParameters ErrorKind = iota + 1
	// KindSendRequest: the request could not be sent to the hub.
	KindSendRequest
	// KindReadResponse: the hub response body could not be read.
	KindReadResponse
	// KindRejected: the hub answered with an HTTP error status.
	KindRejected
)

func (k ErrorKind) String() string {
	switch k {
	case KindSerializeParameters:
		return "serialize parameters"
	case KindSendRequest:
		return "send request"
	case KindReadResponse:
		return "read response"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// PublishUpdateError is returned by Client.PublishUpdate.
type PublishUpdateError struct {
	Kind ErrorKind
	Err  error
}

func (e *PublishUpdateError) Error() string {
	if e == nil {
		return "publish update failed"
	}
	switch e.Kind {
	case KindSerializeParameters:
		return "failed to serialize parameters to application/x-www-form-urlencoded: " + e.Err.Error()
	case KindSendRequest:
		return "failed to send request to Mercure hub: " + e.Err.Error()
	case KindReadResponse:
		return "failed to read response from Mercure hub: " + e.Err.Error()
	case KindRejected:
		return "Mercure hub rejected update: " + e.Err.Error()
	default:
		return "publish update failed: " + e.Err.Error()
	}
}

func (e *PublishUpdateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorKindOf reports the kind of a *PublishUpdateError anywhere in err's chain.
func ErrorKindOf(err error) (ErrorKind, bool) {
	var pubErr *PublishUpdateError
	if !errors.As(err, &pubErr) {
		return 0, false
	}
	return pubErr.Kind, true
}
