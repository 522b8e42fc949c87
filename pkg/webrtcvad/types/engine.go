package types

import (
	"fmt"
	"math"
)

// Handle is an opaque reference to the state of one native detector.
type Handle uintptr

// HandleReleased is the zero handle: either never allocated or already freed.
const HandleReleased = Handle(0)

func (h Handle) String() string {
	if h == HandleReleased {
		return "<released>"
	}
	return fmt.Sprintf("0x%x", uintptr(h))
}

// Status is the raw integer returned by a native call.
type Status int

const (
	StatusOK     = Status(0)
	StatusSpeech = Status(1)

	// StatusNotInvoked marks a failure detected before the native call was made.
	StatusNotInvoked = Status(math.MinInt32)
)

func (s Status) String() string {
	if s == StatusNotInvoked {
		return "not-invoked"
	}
	return fmt.Sprintf("%d", int(s))
}

// Engine is the set of operations of the native detection engine.
//
// An Engine is not required to be reentrant for the same Handle. Distinct handles
// may be used concurrently.
type Engine interface {
	// Create allocates a new detector. Allocation failures are not reported
	// here, they surface on the first call that uses the handle.
	Create() Handle

	// Init must be called once on a fresh handle before any other operation.
	Init(h Handle) Status

	SetMode(h Handle, mode int) Status

	// ValidRateAndFrameLength returns StatusOK if the engine accepts frames of
	// the given amount of samples at the given sample rate.
	ValidRateAndFrameLength(rate int, samples uint) Status

	// Process returns StatusSpeech if the frame contains speech, StatusOK if it
	// does not, and anything else on failure. The frame is 16-bit native-endian PCM.
	Process(h Handle, rate int, frame []byte, samples uint) Status

	// Free releases the detector. It must not be called twice on the same handle.
	Free(h Handle)
}
