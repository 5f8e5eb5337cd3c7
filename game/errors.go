package game

import "fmt"

// ErrorKind classifies engine rejections so the transport layer can map
// them to status codes without parsing messages.
type ErrorKind int

const (
	ErrValidation ErrorKind = iota
	ErrState
	ErrAuthorization
	ErrInternal
)

type EngineError struct {
	Kind ErrorKind
	Msg  string
}

func (e *EngineError) Error() string {
	return e.Msg
}

func validationError(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func stateError(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: ErrState, Msg: fmt.Sprintf(format, args...)}
}

func authorizationError(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: ErrAuthorization, Msg: fmt.Sprintf(format, args...)}
}

func internalError(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: ErrInternal, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the error kind, defaulting to internal for foreign errors.
func KindOf(err error) ErrorKind {
	if engineErr, ok := err.(*EngineError); ok {
		return engineErr.Kind
	}
	return ErrInternal
}
