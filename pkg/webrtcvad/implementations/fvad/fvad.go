//go:build fvad
// +build fvad

package fvad

import (
	"sync"
	"unsafe"

	"github.com/josharian/fvad"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/registry"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

const (
	Priority = 50
)

func init() {
	registry.RegisterEngineFactory(Priority, EngineFactory{})
}

// Engine maps the WebRTC VAD API onto libfvad. Handles are keys of a table of
// libfvad detectors.
type Engine struct {
	Locker     sync.Mutex
	Detectors  map[types.Handle]*fvad.Detector
	lastHandle types.Handle
}

var _ types.Engine = (*Engine)(nil)

func New() (*Engine, error) {
	return &Engine{
		Detectors: map[types.Handle]*fvad.Detector{},
	}, nil
}

func (e *Engine) detector(h types.Handle) *fvad.Detector {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	return e.Detectors[h]
}

func (e *Engine) Create() types.Handle {
	d := fvad.New()
	if d == nil {
		return types.HandleReleased
	}
	e.Locker.Lock()
	defer e.Locker.Unlock()
	e.lastHandle++
	e.Detectors[e.lastHandle] = d
	return e.lastHandle
}

func (e *Engine) Init(h types.Handle) types.Status {
	d := e.detector(h)
	if d == nil {
		return -1
	}
	d.Reset()
	return types.StatusOK
}

func (e *Engine) SetMode(h types.Handle, mode int) types.Status {
	d := e.detector(h)
	if d == nil {
		return -1
	}
	if err := d.SetMode(mode); err != nil {
		return -1
	}
	return types.StatusOK
}

// ValidRateAndFrameLength applies the libfvad table: 8, 16, 32 or 48 kHz and
// 10, 20 or 30 ms frames.
func (e *Engine) ValidRateAndFrameLength(rate int, samples uint) types.Status {
	switch rate {
	case 8000, 16000, 32000, 48000:
	default:
		return -1
	}
	for _, ms := range []uint{10, 20, 30} {
		if samples == uint(rate/1000)*ms {
			return types.StatusOK
		}
	}
	return -1
}

func (e *Engine) Process(h types.Handle, rate int, frame []byte, samples uint) types.Status {
	d := e.detector(h)
	if d == nil {
		return -1
	}
	if samples == 0 || uint(len(frame)) < samples*2 {
		return -1
	}
	if err := d.SetSampleRate(rate); err != nil {
		return -1
	}
	pcm := unsafe.Slice((*int16)(unsafe.Pointer(unsafe.SliceData(frame))), samples)
	isSpeech, err := d.Process(pcm)
	if err != nil {
		return -1
	}
	if isSpeech {
		return types.StatusSpeech
	}
	return types.StatusOK
}

func (e *Engine) Free(h types.Handle) {
	e.Locker.Lock()
	defer e.Locker.Unlock()
	delete(e.Detectors, h)
}
