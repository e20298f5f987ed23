package token

type ErrorKind int

const (
	// KindEncodeAndSign means the claims could not be encoded or signed.
	KindEncodeAndSign ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case KindEncodeAndSign:
		return "encode and sign"
	default:
		return "unknown"
	}
}

// Error is returned by NewPublisher and NewSubscriber.
type Error struct {
	Kind ErrorKind
	// Role is "publisher" or "subscriber".
	Role string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "jwt error"
	}
	switch e.Kind {
	case KindEncodeAndSign:
		return "failed to encode and sign " + e.Role + " JWT: " + e.Err.Error()
	default:
		return e.Role + " JWT: " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
