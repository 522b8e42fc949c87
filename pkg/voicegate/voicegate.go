package voicegate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/iamcalledrob/circular"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad"
)

// VoiceGate is an io.Reader passing through only the frames of the backend
// reader that contain speech, plus HangoverFrames frames after each of them.
//
// The backend must provide 16-bit native-endian mono PCM in the format the
// Detector is configured for. A trailing incomplete frame is dropped.
type VoiceGate struct {
	Backend        io.Reader
	Detector       *webrtcvad.Detector
	HangoverFrames uint

	locker       sync.Mutex
	readCtx      context.Context
	frame        []byte
	outputBuffer *circular.Buffer
	hangoverLeft uint
	resultError  error
	framesTotal  uint64
	framesVoiced uint64
	framesPassed uint64
}

var _ io.Reader = (*VoiceGate)(nil)

func New(
	ctx context.Context,
	backend io.Reader,
	detector *webrtcvad.Detector,
	hangoverFrames uint,
) *VoiceGate {
	return &VoiceGate{
		Backend:        backend,
		Detector:       detector,
		HangoverFrames: hangoverFrames,
		readCtx:        ctx,
	}
}

type Stats struct {
	FramesTotal  uint64
	FramesVoiced uint64
	FramesPassed uint64
}

func (g *VoiceGate) Stats() Stats {
	g.locker.Lock()
	defer g.locker.Unlock()
	return Stats{
		FramesTotal:  g.framesTotal,
		FramesVoiced: g.framesVoiced,
		FramesPassed: g.framesPassed,
	}
}

func (g *VoiceGate) Read(p []byte) (_ret int, _err error) {
	logger.Tracef(g.readCtx, "Read, len:%d", len(p))
	defer func() { logger.Tracef(g.readCtx, "/Read, len:%d: %d, %v", len(p), _ret, _err) }()

	g.locker.Lock()
	defer g.locker.Unlock()

	for {
		if g.outputBuffer != nil {
			n, err := g.outputBuffer.Read(p)
			if n > 0 || err == nil {
				return n, nil
			}
			if !errors.Is(err, io.EOF) {
				return n, fmt.Errorf("unable to read from the circular buffer: %w", err)
			}
		}
		if g.resultError != nil {
			return 0, g.resultError
		}
		if err := g.fill(g.readCtx); err != nil {
			g.resultError = err
		}
	}
}

// fill reads one frame from the backend and queues it if it passes the gate.
func (g *VoiceGate) fill(ctx context.Context) error {
	frameSize := g.Detector.Config().RequiredBytes()
	if frameSize <= 0 {
		return fmt.Errorf("invalid frame size: %d", frameSize)
	}
	if len(g.frame) != frameSize {
		g.frame = make([]byte, frameSize)
		g.outputBuffer = circular.NewBuffer(frameSize * 2)
	}

	_, err := io.ReadFull(g.Backend, g.frame)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		logger.Debugf(ctx, "dropping the trailing incomplete frame")
		return io.EOF
	case err != nil:
		return err
	}
	g.framesTotal++

	isSpeech, err := g.Detector.HasSpeech(ctx, g.frame)
	if err != nil {
		return fmt.Errorf("unable to detect speech in frame #%d: %w", g.framesTotal-1, err)
	}
	switch {
	case isSpeech:
		g.framesVoiced++
		g.hangoverLeft = g.HangoverFrames
	case g.hangoverLeft > 0:
		g.hangoverLeft--
	default:
		return nil
	}

	w, err := g.outputBuffer.Write(g.frame)
	if err != nil {
		return fmt.Errorf("unable to write to the circular buffer: %w", err)
	}
	if w != len(g.frame) {
		return fmt.Errorf("wrote != read: %d != %d", w, len(g.frame))
	}
	g.framesPassed++
	return nil
}
