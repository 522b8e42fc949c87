package webrtcvad

import (
	"fmt"
	"strings"
)

// Arg is one named argument of a failed call.
type Arg struct {
	Name  string
	Value any
}

// Call describes the operation that failed.
type Call struct {
	Op   string
	Args []Arg
}

func (c Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		args = append(args, fmt.Sprintf("%s=%v", arg.Name, arg.Value))
	}
	return fmt.Sprintf("%s(%s)", c.Op, strings.Join(args, ", "))
}

// ErrInit is returned when the native detector could not be initialized.
type ErrInit struct {
	Handle Handle
	Status Status
}

func (e ErrInit) InvalidHandle() bool {
	return e.Handle == HandleReleased
}

func (e ErrInit) Error() string {
	if e.InvalidHandle() {
		return fmt.Sprintf("unable to initialize the native detector: the engine returned an invalid handle (status %v)", e.Status)
	}
	return fmt.Sprintf("unable to initialize the native detector %v: status %v", e.Handle, e.Status)
}

// ErrInvalidArgument is returned when an argument is rejected locally, without
// consulting the engine.
type ErrInvalidArgument struct {
	Call
	Reason          string
	RequiredSamples int
	RequiredBytes   int
}

func (e ErrInvalidArgument) Error() string {
	return fmt.Sprintf("%v: invalid argument: %s (required: %d samples, %d bytes)", e.Call, e.Reason, e.RequiredSamples, e.RequiredBytes)
}

// ErrInvalidEnumValue is returned when the engine rejected a call and one of
// the enumerated arguments is not a value the engine recognizes.
type ErrInvalidEnumValue struct {
	Call
	Status Status
	Name   string
	Value  int
	Valid  []int
}

func (e ErrInvalidEnumValue) Error() string {
	return fmt.Sprintf("%v: invalid %s %d, valid values are %v (status %v)", e.Call, e.Name, e.Value, e.Valid, e.Status)
}

// ErrUsedAfterClose is returned by any operation on a closed Detector.
type ErrUsedAfterClose struct {
	Call
	Status Status
}

func (e ErrUsedAfterClose) Error() string {
	return fmt.Sprintf("%v: the detector is already closed (status %v)", e.Call, e.Status)
}

// ErrNativeCall is returned when the engine rejected a call and no more
// specific cause could be found.
type ErrNativeCall struct {
	Call
	Status Status
}

func (e ErrNativeCall) Error() string {
	return fmt.Sprintf("%v: the native call failed with status %v", e.Call, e.Status)
}

// diagnose classifies a failed call. The handle liveness takes precedence, then
// the enumerated arguments in the given order; otherwise the failure is opaque.
func diagnose(
	h Handle,
	call Call,
	status Status,
	enums ...enumArg,
) error {
	if h == HandleReleased {
		return ErrUsedAfterClose{Call: call, Status: status}
	}
	for _, e := range enums {
		if e.IsValid() {
			continue
		}
		return ErrInvalidEnumValue{
			Call:   call,
			Status: status,
			Name:   e.enumName(),
			Value:  e.enumInt(),
			Valid:  e.enumValidValues(),
		}
	}
	return ErrNativeCall{Call: call, Status: status}
}
