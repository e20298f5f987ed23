package app

import "errors"

var (
	ErrAlreadyWatching = errors.New("file is already watched by another process")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrNoTopics        = errors.New("at least one topic URL is required")
)
