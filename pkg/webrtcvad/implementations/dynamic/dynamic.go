//go:build linux || darwin || freebsd
// +build linux darwin freebsd

package dynamic

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

// Engine calls the WebRTC VAD C API of a shared library loaded at runtime.
type Engine struct {
	LibraryPath string

	library                 uintptr
	create                  func() uintptr
	free                    func(handle uintptr)
	init                    func(handle uintptr) int32
	setMode                 func(handle uintptr, mode int32) int32
	process                 func(handle uintptr, fs int32, frame *int16, frameLength uintptr) int32
	validRateAndFrameLength func(rate int32, frameLength uintptr) int32
}

var _ types.Engine = (*Engine)(nil)

var (
	loaded       = map[string]*Engine{}
	loadedLocker sync.Mutex
)

// Load opens the first of the candidate libraries (see SearchPaths) that
// exports the WebRTC VAD API. Libraries stay loaded for the lifetime of the
// process and are shared between the callers.
func Load(
	ctx context.Context,
	paths ...string,
) (_ret *Engine, _err error) {
	logger.Tracef(ctx, "Load(%v)", paths)
	defer func() { logger.Tracef(ctx, "/Load(%v): %v", paths, _err) }()

	searchPaths := SearchPaths(paths...)

	loadedLocker.Lock()
	defer loadedLocker.Unlock()

	var mErr *multierror.Error
	for _, path := range searchPaths {
		if engine, ok := loaded[path]; ok {
			return engine, nil
		}
		engine, err := open(path)
		logger.Debugf(ctx, "loading '%s' result is %v", path, err)
		if err != nil {
			mErr = multierror.Append(mErr, err)
			continue
		}
		loaded[path] = engine
		return engine, nil
	}

	return nil, types.ErrEngineUnavailable{
		SearchPaths: searchPaths,
		Err:         mErr.ErrorOrNil(),
	}
}

func open(path string) (*Engine, error) {
	library, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}

	e := &Engine{
		LibraryPath: path,
		library:     library,
	}
	for _, sym := range []struct {
		Name string
		Func any
	}{
		{"WebRtcVad_Create", &e.create},
		{"WebRtcVad_Free", &e.free},
		{"WebRtcVad_Init", &e.init},
		{"WebRtcVad_set_mode", &e.setMode},
		{"WebRtcVad_Process", &e.process},
		{"WebRtcVad_ValidRateAndFrameLength", &e.validRateAndFrameLength},
	} {
		addr, err := purego.Dlsym(library, sym.Name)
		if err != nil {
			purego.Dlclose(library)
			return nil, fmt.Errorf("unable to find symbol '%s' in '%s': %w", sym.Name, path, err)
		}
		purego.RegisterFunc(sym.Func, addr)
	}
	return e, nil
}

func (e *Engine) Create() types.Handle {
	return types.Handle(e.create())
}

func (e *Engine) Init(h types.Handle) types.Status {
	return types.Status(e.init(uintptr(h)))
}

func (e *Engine) SetMode(h types.Handle, mode int) types.Status {
	return types.Status(e.setMode(uintptr(h), int32(mode)))
}

func (e *Engine) ValidRateAndFrameLength(rate int, samples uint) types.Status {
	return types.Status(e.validRateAndFrameLength(int32(rate), uintptr(samples)))
}

func (e *Engine) Process(h types.Handle, rate int, frame []byte, samples uint) types.Status {
	if uint(len(frame)) < samples*2 {
		return -1
	}
	var ptr *int16
	if len(frame) > 0 {
		ptr = (*int16)(unsafe.Pointer(unsafe.SliceData(frame)))
	}
	status := e.process(uintptr(h), int32(rate), ptr, uintptr(samples))
	runtime.KeepAlive(frame)
	return types.Status(status)
}

func (e *Engine) Free(h types.Handle) {
	e.free(uintptr(h))
}
