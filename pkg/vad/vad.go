package vad

import (
	"context"
	"time"

	"github.com/xaionaro-go/webrtcvad/pkg/audio"
)

type VAD interface {
	audio.AbstractAnalyzer

	// FindNextVoice scans the samples and returns the highest voice confidence
	// it met and the offset of the first chunk with confidence not below
	// confidenceThreshold (or -1 if there is none). Scanning stops as soon as
	// minDuration of voice is found.
	FindNextVoice(
		_ context.Context,
		samples []byte,
		confidenceThreshold float64,
		minDuration time.Duration,
	) (float64, time.Duration, error)
}
