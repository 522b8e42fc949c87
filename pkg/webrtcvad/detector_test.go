package webrtcvad

import (
	"context"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

func newTestDetector(t *testing.T, engine *types.EngineDummy, opts ...Option) *Detector {
	d, err := New(context.Background(), append(Options{WithEngine(engine)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDetectorDefaults(t *testing.T) {
	engine := types.NewEngineDummy()
	d := newTestDetector(t, engine)

	require.Equal(t, DefaultConfig(), d.Config())
	require.Equal(t, SampleRate8kHz, d.SampleRate())
	require.Equal(t, FrameLength10ms, d.FrameLength())
	require.Equal(t, ModeQuality, d.Mode())
	require.Equal(t, 80, d.RequiredSamples())
	require.Equal(t, types.Handle(1), d.Handle())
	require.False(t, d.IsClosed())
	require.Equal(t, []string{
		"Create()",
		"Init(0x1)",
		"SetMode(0x1, 0)",
	}, engine.Calls)
}

func TestDetectorHasSpeech(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	d := newTestDetector(t, engine)
	require.NoError(t, d.SetSampleRate(ctx, SampleRate8kHz))
	require.NoError(t, d.SetFrameLength(ctx, FrameLength10ms))

	frame := make([]byte, 160)

	engine.ProcessStatus = StatusSpeech
	isSpeech, err := d.HasSpeech(ctx, frame)
	require.NoError(t, err)
	require.True(t, isSpeech)

	engine.ProcessStatus = StatusOK
	isSpeech, err = d.HasSpeech(ctx, frame)
	require.NoError(t, err)
	require.False(t, isSpeech)

	require.Equal(t, 2, engine.CallCount("Process"))
	require.Contains(t, engine.Calls, "Process(0x1, 8000, 160, 80)")
}

func TestDetectorHasSpeechExtraBytesAreIgnored(t *testing.T) {
	engine := types.NewEngineDummy()
	d := newTestDetector(t, engine)

	_, err := d.HasSpeech(context.Background(), make([]byte, 1000))
	require.NoError(t, err)
	require.Contains(t, engine.Calls, "Process(0x1, 8000, 160, 80)")
}

func TestDetectorHasSpeechShortFrame(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	d := newTestDetector(t, engine)

	for _, frame := range [][]byte{nil, {}, make([]byte, 100), make([]byte, 159)} {
		_, err := d.HasSpeech(ctx, frame)
		var errInvalidArg ErrInvalidArgument
		require.ErrorAs(t, err, &errInvalidArg, spew.Sdump(frame))
		assert.Equal(t, 80, errInvalidArg.RequiredSamples)
		assert.Equal(t, 160, errInvalidArg.RequiredBytes)
		assert.Equal(t, "HasSpeech", errInvalidArg.Op)
	}
	require.Zero(t, engine.CallCount("Process"))
}

func TestDetectorHasSpeechWith(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	engine.ProcessStatus = StatusSpeech
	d := newTestDetector(t, engine)

	isSpeech, err := d.HasSpeechWith(ctx, make([]byte, 640), SampleRate16kHz, FrameLength20ms)
	require.NoError(t, err)
	require.True(t, isSpeech)
	require.Contains(t, engine.Calls, "Process(0x1, 16000, 640, 320)")
	require.Equal(t, DefaultConfig(), d.Config())

	_, err = d.HasSpeechWith(ctx, make([]byte, 600), SampleRate16kHz, FrameLength20ms)
	var errInvalidArg ErrInvalidArgument
	require.ErrorAs(t, err, &errInvalidArg)
	require.Equal(t, 640, errInvalidArg.RequiredBytes)
}

func TestDetectorHasSpeechWithOutOfRangeValues(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	engine.ProcessStatus = -1
	d := newTestDetector(t, engine)

	for _, c := range []struct {
		rate   SampleRate
		length FrameLength
	}{
		{SampleRate((1 << 52) * 1000), FrameLength(1 << 10)},
		{SampleRate(math.MaxInt), FrameLength(math.MaxInt)},
		{SampleRate8kHz, FrameLength(math.MaxInt)},
	} {
		var isSpeech bool
		var err error
		require.NotPanics(t, func() {
			isSpeech, err = d.HasSpeechWith(ctx, make([]byte, 160), c.rate, c.length)
		}, spew.Sdump(c))
		require.False(t, isSpeech)
		var errInvalidArg ErrInvalidArgument
		require.ErrorAs(t, err, &errInvalidArg, spew.Sdump(c))
		require.Equal(t, MaxSamples, errInvalidArg.RequiredSamples)
	}
	require.Zero(t, engine.CallCount("Process"))

	_, err := d.HasSpeechWith(ctx, make([]byte, 160), -8000, FrameLength10ms)
	var errEnum ErrInvalidEnumValue
	require.ErrorAs(t, err, &errEnum)
	require.Equal(t, "sample rate", errEnum.Name)
	require.Equal(t, -8000, errEnum.Value)
}

func TestDetectorHasSpeechDiagnosis(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid_sample_rate", func(t *testing.T) {
		engine := types.NewEngineDummy()
		engine.ProcessStatus = -1
		d := newTestDetector(t, engine)

		_, err := d.HasSpeechWith(ctx, make([]byte, 220), 11025, FrameLength10ms)
		var errEnum ErrInvalidEnumValue
		require.ErrorAs(t, err, &errEnum)
		require.Equal(t, "sample rate", errEnum.Name)
		require.Equal(t, 11025, errEnum.Value)
		require.Equal(t, []int{8000, 16000, 32000, 48000}, errEnum.Valid)
		require.Equal(t, Status(-1), errEnum.Status)
	})

	t.Run("invalid_frame_length", func(t *testing.T) {
		engine := types.NewEngineDummy()
		engine.ProcessStatus = -1
		d := newTestDetector(t, engine)

		_, err := d.HasSpeechWith(ctx, make([]byte, 400), SampleRate8kHz, 25)
		var errEnum ErrInvalidEnumValue
		require.ErrorAs(t, err, &errEnum)
		require.Equal(t, "frame length", errEnum.Name)
		require.Equal(t, []int{10, 20, 30}, errEnum.Valid)
	})

	t.Run("opaque", func(t *testing.T) {
		engine := types.NewEngineDummy()
		engine.ProcessStatus = 2
		d := newTestDetector(t, engine)

		_, err := d.HasSpeech(ctx, make([]byte, 160))
		var errNative ErrNativeCall
		require.ErrorAs(t, err, &errNative)
		require.Equal(t, Status(2), errNative.Status)
		require.Equal(t, "HasSpeech", errNative.Op)
		require.Contains(t, err.Error(), "rate=8000")
	})
}

func TestDetectorSetModeInvalid(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	d := newTestDetector(t, engine)

	engine.SetModeStatus = -1
	err := d.SetMode(ctx, Mode(7))
	var errEnum ErrInvalidEnumValue
	require.ErrorAs(t, err, &errEnum)
	require.Equal(t, "mode", errEnum.Name)
	require.Equal(t, 7, errEnum.Value)
	require.Equal(t, []int{0, 1, 2, 3}, errEnum.Valid)
	require.Equal(t, ModeQuality, d.Mode())

	err = d.SetMode(ctx, ModeAggressive)
	var errNative ErrNativeCall
	require.ErrorAs(t, err, &errNative)
	require.Equal(t, ModeQuality, d.Mode())

	engine.SetModeStatus = StatusOK
	require.NoError(t, d.SetMode(ctx, ModeVeryAggressive))
	require.Equal(t, ModeVeryAggressive, d.Mode())
}

func TestDetectorSetSampleRateAndFrameLengthInvalid(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	d := newTestDetector(t, engine)
	require.NoError(t, d.SetSampleRate(ctx, SampleRate16kHz))
	require.Contains(t, engine.Calls, "ValidRateAndFrameLength(16000, 160)")

	engine.ValidStatus = -1

	err := d.SetSampleRate(ctx, 44100)
	var errEnum ErrInvalidEnumValue
	require.ErrorAs(t, err, &errEnum)
	require.Equal(t, "sample rate", errEnum.Name)
	require.Equal(t, SampleRate16kHz, d.SampleRate())

	err = d.SetFrameLength(ctx, 15)
	require.ErrorAs(t, err, &errEnum)
	require.Equal(t, "frame length", errEnum.Name)
	require.Equal(t, FrameLength10ms, d.FrameLength())

	err = d.SetFrameLength(ctx, FrameLength30ms)
	var errNative ErrNativeCall
	require.ErrorAs(t, err, &errNative)
	require.Equal(t, FrameLength10ms, d.FrameLength())
}

func TestDetectorConfigure(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	d := newTestDetector(t, engine)

	cfg := Config{SampleRate: SampleRate32kHz, FrameLength: FrameLength30ms, Mode: ModeAggressive}
	require.NoError(t, d.Configure(ctx, cfg))
	require.Equal(t, cfg, d.Config())
	require.Equal(t, 960, d.RequiredSamples())

	engine.SetModeStatus = -1
	err := d.Configure(ctx, Config{SampleRate: SampleRate8kHz, FrameLength: FrameLength10ms, Mode: 9})
	var errEnum ErrInvalidEnumValue
	require.ErrorAs(t, err, &errEnum)
	require.Equal(t, cfg, d.Config())
}

func TestDetectorWithConfig(t *testing.T) {
	engine := types.NewEngineDummy()
	cfg := Config{SampleRate: SampleRate48kHz, FrameLength: FrameLength20ms, Mode: ModeLowBitrate}
	d := newTestDetector(t, engine, WithConfig(cfg))
	require.Equal(t, cfg, d.Config())
}

func TestDetectorClose(t *testing.T) {
	ctx := context.Background()
	engine := types.NewEngineDummy()
	d, err := New(ctx, WithEngine(engine))
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.Equal(t, HandleReleased, d.Handle())
	require.True(t, d.IsClosed())
	require.NoError(t, d.Close())
	require.Equal(t, []types.Handle{1}, engine.Freed)

	var errClosed ErrUsedAfterClose

	_, err = d.HasSpeech(ctx, make([]byte, 160))
	require.ErrorAs(t, err, &errClosed)
	require.Equal(t, StatusNotInvoked, errClosed.Status)

	_, err = d.HasSpeech(ctx, nil)
	require.ErrorAs(t, err, &errClosed)

	_, err = d.HasSpeechWith(ctx, make([]byte, 320), SampleRate16kHz, FrameLength10ms)
	require.ErrorAs(t, err, &errClosed)

	require.ErrorAs(t, d.SetMode(ctx, ModeAggressive), &errClosed)
	require.ErrorAs(t, d.SetSampleRate(ctx, SampleRate16kHz), &errClosed)
	require.ErrorAs(t, d.SetFrameLength(ctx, FrameLength20ms), &errClosed)
	require.ErrorAs(t, d.Configure(ctx, DefaultConfig()), &errClosed)

	require.Zero(t, engine.CallCount("Process"))
	require.Equal(t, 1, engine.CallCount("Free"))
	require.Equal(t, DefaultConfig(), d.Config())
}

func TestDetectorInitFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		engine := types.NewEngineDummy()
		engine.InitStatus = -1
		_, err := New(ctx, WithEngine(engine))
		var errInit ErrInit
		require.ErrorAs(t, err, &errInit)
		require.False(t, errInit.InvalidHandle())
		require.Equal(t, Status(-1), errInit.Status)
		require.Equal(t, []types.Handle{1}, engine.Freed)
	})

	t.Run("invalid_handle", func(t *testing.T) {
		engine := types.NewEngineDummy()
		engine.InitStatus = -1
		engine.CreateHandle = func() types.Handle { return types.HandleReleased }
		_, err := New(ctx, WithEngine(engine))
		var errInit ErrInit
		require.ErrorAs(t, err, &errInit)
		require.True(t, errInit.InvalidHandle())
		require.Empty(t, engine.Freed)
	})

	t.Run("default_mode", func(t *testing.T) {
		engine := types.NewEngineDummy()
		engine.SetModeStatus = -1
		_, err := New(ctx, WithEngine(engine))
		var errNative ErrNativeCall
		require.ErrorAs(t, err, &errNative)
		require.Equal(t, []types.Handle{1}, engine.Freed)
	})

	t.Run("config", func(t *testing.T) {
		engine := types.NewEngineDummy()
		engine.ValidStatus = -1
		_, err := New(ctx, WithEngine(engine), WithConfig(Config{SampleRate: 1234, FrameLength: FrameLength10ms}))
		var errEnum ErrInvalidEnumValue
		require.ErrorAs(t, err, &errEnum)
		require.Equal(t, []types.Handle{1}, engine.Freed)
	})
}
