package webrtcvad

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Detector owns one native detector handle and its configuration.
//
// The engine already validates its arguments, so the Detector does not
// duplicate those checks before a call: enumerated values and the handle
// liveness are inspected only after the engine has reported a failure. The
// only unconditional checks are the presence and the length of the audio
// frame, and whether the Detector is closed.
//
// A Detector serializes its own calls. To detect in parallel use one Detector
// per goroutine (see package pool).
type Detector struct {
	Locker sync.Mutex

	engine Engine
	handle Handle

	sampleRate  SampleRate
	frameLength FrameLength
	mode        Mode
	isClosed    bool
}

var _ io.Closer = (*Detector)(nil)

// New allocates and initializes a native detector. Without WithEngine the
// engine is discovered using NewEngineAuto.
func New(
	ctx context.Context,
	opts ...Option,
) (_ret *Detector, _err error) {
	logger.Tracef(ctx, "New")
	defer func() { logger.Tracef(ctx, "/New: %v", _err) }()

	cfg := Options(opts).config()
	engine := cfg.Engine
	if engine == nil {
		var err error
		engine, err = NewEngineAuto(ctx)
		if err != nil {
			return nil, err
		}
	}

	h := engine.Create()
	d := &Detector{
		engine:      engine,
		handle:      h,
		sampleRate:  SampleRate8kHz,
		frameLength: FrameLength10ms,
		mode:        ModeQuality,
	}
	if status := engine.Init(h); status != StatusOK || h == HandleReleased {
		d.Close()
		return nil, ErrInit{Handle: h, Status: status}
	}

	if err := d.SetMode(ctx, DefaultConfig().Mode); err != nil {
		d.Close()
		return nil, fmt.Errorf("unable to set the default mode: %w", err)
	}

	if cfg.Config != nil {
		if err := d.Configure(ctx, *cfg.Config); err != nil {
			d.Close()
			return nil, fmt.Errorf("unable to apply the configuration %#+v: %w", *cfg.Config, err)
		}
	}

	logger.Debugf(ctx, "initialized a detector %v using %T", h, engine)
	return d, nil
}

// Close frees the native detector. Subsequent calls are no-ops.
func (d *Detector) Close() error {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	if d.isClosed {
		return nil
	}
	d.isClosed = true
	if d.engine != nil && d.handle != HandleReleased {
		d.engine.Free(d.handle)
	}
	d.handle = HandleReleased
	return nil
}

// Handle returns the native handle, HandleReleased after Close.
func (d *Detector) Handle() Handle {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return d.handle
}

// IsClosed reports whether Close was called.
func (d *Detector) IsClosed() bool {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return d.isClosed
}

func (d *Detector) SampleRate() SampleRate {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return d.sampleRate
}

func (d *Detector) FrameLength() FrameLength {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return d.frameLength
}

func (d *Detector) Mode() Mode {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return d.mode
}

// Config returns a snapshot of the current configuration.
func (d *Detector) Config() Config {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return Config{
		SampleRate:  d.sampleRate,
		FrameLength: d.frameLength,
		Mode:        d.mode,
	}
}

// RequiredSamples returns the amount of samples HasSpeech expects.
func (d *Detector) RequiredSamples() int {
	return d.Config().RequiredSamples()
}

func (d *Detector) SetSampleRate(
	ctx context.Context,
	rate SampleRate,
) error {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	if err := d.validRateAndFrameLength(ctx, "SetSampleRate", rate, d.frameLength); err != nil {
		return err
	}
	d.sampleRate = rate
	return nil
}

func (d *Detector) SetFrameLength(
	ctx context.Context,
	length FrameLength,
) error {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	if err := d.validRateAndFrameLength(ctx, "SetFrameLength", d.sampleRate, length); err != nil {
		return err
	}
	d.frameLength = length
	return nil
}

func (d *Detector) SetMode(
	ctx context.Context,
	mode Mode,
) error {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	if err := d.setMode(ctx, "SetMode", mode); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// Configure applies the whole configuration or, on failure, nothing of it.
func (d *Detector) Configure(
	ctx context.Context,
	cfg Config,
) error {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	if err := d.validRateAndFrameLength(ctx, "Configure", cfg.SampleRate, cfg.FrameLength); err != nil {
		return err
	}
	if err := d.setMode(ctx, "Configure", cfg.Mode); err != nil {
		return err
	}
	d.sampleRate = cfg.SampleRate
	d.frameLength = cfg.FrameLength
	d.mode = cfg.Mode
	return nil
}

func (d *Detector) validRateAndFrameLength(
	ctx context.Context,
	op string,
	rate SampleRate,
	length FrameLength,
) error {
	samples := RequiredSamples(rate, length)
	call := Call{Op: op, Args: []Arg{
		{Name: "rate", Value: rate},
		{Name: "length", Value: length},
		{Name: "samples", Value: samples},
	}}
	if d.handle == HandleReleased {
		return diagnose(d.handle, call, StatusNotInvoked)
	}
	status := d.engine.ValidRateAndFrameLength(int(rate), uint(samples))
	if status != StatusOK {
		logger.Debugf(ctx, "%v: status %v", call, status)
		return diagnose(d.handle, call, status, rate, length)
	}
	return nil
}

func (d *Detector) setMode(
	ctx context.Context,
	op string,
	mode Mode,
) error {
	call := Call{Op: op, Args: []Arg{
		{Name: "handle", Value: d.handle},
		{Name: "mode", Value: int(mode)},
	}}
	if d.handle == HandleReleased {
		return diagnose(d.handle, call, StatusNotInvoked)
	}
	status := d.engine.SetMode(d.handle, int(mode))
	if status != StatusOK {
		logger.Debugf(ctx, "%v: status %v", call, status)
		return diagnose(d.handle, call, status, mode)
	}
	return nil
}

// HasSpeech reports whether the frame contains speech, using the current
// configuration. The frame is 16-bit native-endian mono PCM and must hold at
// least RequiredSamples samples; the extra bytes are ignored.
func (d *Detector) HasSpeech(
	ctx context.Context,
	frame []byte,
) (bool, error) {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return d.hasSpeech(ctx, "HasSpeech", frame, d.sampleRate, d.frameLength)
}

// HasSpeechWith is HasSpeech with an explicit sample rate and frame length.
// The stored configuration is neither used nor changed.
func (d *Detector) HasSpeechWith(
	ctx context.Context,
	frame []byte,
	rate SampleRate,
	length FrameLength,
) (bool, error) {
	d.Locker.Lock()
	defer d.Locker.Unlock()
	return d.hasSpeech(ctx, "HasSpeechWith", frame, rate, length)
}

func (d *Detector) hasSpeech(
	ctx context.Context,
	op string,
	frame []byte,
	rate SampleRate,
	length FrameLength,
) (_ret bool, _err error) {
	logger.Tracef(ctx, "%s, len:%d", op, len(frame))
	defer func() { logger.Tracef(ctx, "/%s, len:%d: %v %v", op, len(frame), _ret, _err) }()

	samples := RequiredSamples(rate, length)
	call := Call{Op: op, Args: []Arg{
		{Name: "handle", Value: d.handle},
		{Name: "rate", Value: rate},
		{Name: "length", Value: length},
		{Name: "frame_bytes", Value: len(frame)},
		{Name: "samples", Value: samples},
	}}

	if d.handle == HandleReleased {
		return false, diagnose(d.handle, call, StatusNotInvoked)
	}
	if frame == nil {
		return false, ErrInvalidArgument{
			Call:            call,
			Reason:          "the frame is nil",
			RequiredSamples: samples,
			RequiredBytes:   samples * BytesPerSample,
		}
	}
	if len(frame)/BytesPerSample < samples {
		return false, ErrInvalidArgument{
			Call:            call,
			Reason:          fmt.Sprintf("the frame is too short: %d < %d bytes", len(frame), samples*BytesPerSample),
			RequiredSamples: samples,
			RequiredBytes:   samples * BytesPerSample,
		}
	}

	status := d.engine.Process(d.handle, int(rate), frame[:samples*BytesPerSample], uint(samples))
	switch status {
	case StatusOK:
		return false, nil
	case StatusSpeech:
		return true, nil
	}
	return false, diagnose(d.handle, call, status, rate, length)
}
