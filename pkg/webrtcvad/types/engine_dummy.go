package types

import (
	"fmt"
	"sync"
)

// EngineDummy is an in-memory Engine returning scripted statuses.
// The zero value reports success for every call and "no speech" for every frame.
type EngineDummy struct {
	Locker sync.Mutex

	CreateHandle  func() Handle
	InitStatus    Status
	SetModeStatus Status
	ValidStatus   Status
	ProcessStatus Status

	// ProcessFunc overrides ProcessStatus if set.
	ProcessFunc func(h Handle, rate int, frame []byte, samples uint) Status

	Calls []string
	Freed []Handle

	lastHandle Handle
}

var _ Engine = (*EngineDummy)(nil)

func NewEngineDummy() *EngineDummy {
	return &EngineDummy{}
}

func (e *EngineDummy) record(format string, args ...any) {
	e.Calls = append(e.Calls, fmt.Sprintf(format, args...))
}

func (e *EngineDummy) Create() Handle {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	e.record("Create()")
	if e.CreateHandle != nil {
		return e.CreateHandle()
	}
	e.lastHandle++
	return e.lastHandle
}

func (e *EngineDummy) Init(h Handle) Status {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	e.record("Init(%v)", h)
	return e.InitStatus
}

func (e *EngineDummy) SetMode(h Handle, mode int) Status {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	e.record("SetMode(%v, %d)", h, mode)
	return e.SetModeStatus
}

func (e *EngineDummy) ValidRateAndFrameLength(rate int, samples uint) Status {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	e.record("ValidRateAndFrameLength(%d, %d)", rate, samples)
	return e.ValidStatus
}

func (e *EngineDummy) Process(h Handle, rate int, frame []byte, samples uint) Status {
	e.Locker.Lock()
	e.record("Process(%v, %d, %d, %d)", h, rate, len(frame), samples)
	fn, status := e.ProcessFunc, e.ProcessStatus
	e.Locker.Unlock()
	if fn != nil {
		return fn(h, rate, frame, samples)
	}
	return status
}

func (e *EngineDummy) Free(h Handle) {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	e.record("Free(%v)", h)
	e.Freed = append(e.Freed, h)
}

// CallCount returns how many recorded calls start with the given operation name.
func (e *EngineDummy) CallCount(op string) int {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	var count int
	for _, call := range e.Calls {
		if len(call) > len(op) && call[:len(op)] == op && call[len(op)] == '(' {
			count++
		}
	}
	return count
}
