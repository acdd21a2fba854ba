package core

import (
	"errors"
)

var (
	ErrInvalidStage      = errors.New("operation not allowed in the current engine stage")
	ErrInvalidConfig     = errors.New("invalid application config")
	ErrUnknownUpdateType = errors.New("unknown update type")
	ErrNoWindowBackend   = errors.New("windowed application requires a window backend")
	ErrNoUpdate          = errors.New("application has no update function")
)
