package audio

import "errors"

var (
	ErrConfig  = errors.New("invalid engine config")
	ErrRunning = errors.New("engine already started")
	ErrStopped = errors.New("engine stopped")
)
