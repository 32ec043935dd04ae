package models

import "fmt"

// InvalidParamError reports malformed or contradictory request parameters.
// The message is surfaced verbatim to the caller.
type InvalidParamError struct {
	Msg string
}

func (e *InvalidParamError) Error() string { return e.Msg }

// ErrLonLatPair is returned when only one of lon/lat is supplied.
var ErrLonLatPair = &InvalidParamError{
	Msg: "you should provide a 'lon' AND a 'lat' parameter if you provide one of them",
}

// InvalidShapeError reports a rejected geo-shape request body.
type InvalidShapeError struct {
	Reason string
}

func (e *InvalidShapeError) Error() string { return e.Reason }

// MalformedIdentifierError reports an import record identifier too short to
// derive the insee and street codes from.
type MalformedIdentifierError struct {
	ID string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed identifier %q: want at least 10 characters", e.ID)
}

// BackendError wraps any failure coming from the search backend.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string { return "backend error: " + e.Err.Error() }

func (e *BackendError) Unwrap() error { return e.Err }
