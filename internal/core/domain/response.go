package domain

import "fmt"

// ResponseState tags the variant held by a Response.
type ResponseState int

const (
	// ResponseUnset means no call was made since construction or the last reset.
	ResponseUnset ResponseState = iota

	// ResponseFailure means the last call failed (missing method, transport
	// failure or remote fault).
	ResponseFailure

	// ResponseSuccess means the last call returned a value.
	ResponseSuccess
)

// String returns the state name.
func (s ResponseState) String() string {
	switch s {
	case ResponseUnset:
		return "unset"
	case ResponseFailure:
		return "failure"
	case ResponseSuccess:
		return "success"
	default:
		return fmt.Sprintf("ResponseState(%d)", int(s))
	}
}

// Response is the outcome of the most recent call on a session.
//
// The zero value is Unset. A Success may legitimately hold a falsy value
// (false, 0, "", nil); only the state distinguishes it from Failure.
type Response struct {
	state ResponseState
	value Value
	err   error
}

// Unset returns the Unset response.
func Unset() Response {
	return Response{}
}

// Failed returns a Failure response carrying its cause.
func Failed(err error) Response {
	return Response{state: ResponseFailure, err: err}
}

// Succeeded returns a Success response holding v.
func Succeeded(v Value) Response {
	return Response{state: ResponseSuccess, value: v}
}

// State returns the variant tag.
func (r Response) State() ResponseState { return r.state }

// IsUnset reports whether no call has been recorded.
func (r Response) IsUnset() bool { return r.state == ResponseUnset }

// IsFailure reports whether the last call failed.
func (r Response) IsFailure() bool { return r.state == ResponseFailure }

// IsSuccess reports whether the last call returned a value.
func (r Response) IsSuccess() bool { return r.state == ResponseSuccess }

// Value returns the payload of a Success. ok is false for other states.
func (r Response) Value() (v Value, ok bool) {
	if r.state != ResponseSuccess {
		return nil, false
	}
	return r.value, true
}

// Err returns the cause of a Failure, nil otherwise.
func (r Response) Err() error {
	if r.state != ResponseFailure {
		return nil
	}
	return r.err
}

// String renders the response for diagnostics.
func (r Response) String() string {
	switch r.state {
	case ResponseSuccess:
		return fmt.Sprintf("success(%v)", r.value)
	case ResponseFailure:
		if r.err != nil {
			return fmt.Sprintf("failure(%v)", r.err)
		}
		return "failure"
	default:
		return "unset"
	}
}
