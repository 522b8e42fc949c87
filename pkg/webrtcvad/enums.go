package webrtcvad

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SampleRate is a sample rate in Hz.
type SampleRate int

const (
	SampleRate8kHz  = SampleRate(8000)
	SampleRate16kHz = SampleRate(16000)
	SampleRate32kHz = SampleRate(32000)
	SampleRate48kHz = SampleRate(48000)
)

// SampleRates are the sample rates the engine accepts.
var SampleRates = []SampleRate{
	SampleRate8kHz,
	SampleRate16kHz,
	SampleRate32kHz,
	SampleRate48kHz,
}

func (r SampleRate) IsValid() bool {
	for _, valid := range SampleRates {
		if r == valid {
			return true
		}
	}
	return false
}

func (r SampleRate) String() string {
	return strconv.Itoa(int(r))
}

// Set parses values like "16000", "16k" and "16kHz".
func (r *SampleRate) Set(s string) error {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, "hz")
	multiplier := 1
	if strings.HasSuffix(v, "k") {
		v = strings.TrimSuffix(v, "k")
		multiplier = 1000
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("unable to parse sample rate '%s': %w", s, err)
	}
	*r = SampleRate(n * multiplier)
	return nil
}

func (r *SampleRate) Type() string {
	return "sample-rate"
}

func (r *SampleRate) UnmarshalText(text []byte) error {
	return r.Set(string(text))
}

// FrameLength is the duration of one frame in milliseconds.
type FrameLength int

const (
	FrameLength10ms = FrameLength(10)
	FrameLength20ms = FrameLength(20)
	FrameLength30ms = FrameLength(30)
)

// FrameLengths are the frame durations the engine accepts.
var FrameLengths = []FrameLength{
	FrameLength10ms,
	FrameLength20ms,
	FrameLength30ms,
}

func (l FrameLength) IsValid() bool {
	for _, valid := range FrameLengths {
		if l == valid {
			return true
		}
	}
	return false
}

func (l FrameLength) Duration() time.Duration {
	return time.Duration(l) * time.Millisecond
}

func (l FrameLength) String() string {
	return fmt.Sprintf("%dms", int(l))
}

// Set parses values like "20" and "20ms".
func (l *FrameLength) Set(s string) error {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "ms")
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("unable to parse frame length '%s': %w", s, err)
	}
	*l = FrameLength(n)
	return nil
}

func (l *FrameLength) Type() string {
	return "frame-length"
}

func (l *FrameLength) UnmarshalText(text []byte) error {
	return l.Set(string(text))
}

// Mode is the aggressiveness of the detector: the higher the mode, the more
// likely a frame is classified as non-speech.
type Mode int

const (
	ModeQuality = Mode(iota)
	ModeLowBitrate
	ModeAggressive
	ModeVeryAggressive
)

var Modes = []Mode{
	ModeQuality,
	ModeLowBitrate,
	ModeAggressive,
	ModeVeryAggressive,
}

func (m Mode) IsValid() bool {
	return m >= ModeQuality && m <= ModeVeryAggressive
}

func (m Mode) String() string {
	switch m {
	case ModeQuality:
		return "quality"
	case ModeLowBitrate:
		return "low-bitrate"
	case ModeAggressive:
		return "aggressive"
	case ModeVeryAggressive:
		return "very-aggressive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Set accepts either the name of a mode or its numeric value.
func (m *Mode) Set(s string) error {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, mode := range Modes {
		if v == mode.String() {
			*m = mode
			return nil
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("unknown mode '%s'", s)
	}
	*m = Mode(n)
	return nil
}

func (m *Mode) Type() string {
	return "mode"
}

func (m *Mode) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}

type enumArg interface {
	IsValid() bool
	enumName() string
	enumInt() int
	enumValidValues() []int
}

func (r SampleRate) enumName() string  { return "sample rate" }
func (l FrameLength) enumName() string { return "frame length" }
func (m Mode) enumName() string        { return "mode" }

func (r SampleRate) enumInt() int  { return int(r) }
func (l FrameLength) enumInt() int { return int(l) }
func (m Mode) enumInt() int        { return int(m) }

func (SampleRate) enumValidValues() []int  { return toInts(SampleRates) }
func (FrameLength) enumValidValues() []int { return toInts(FrameLengths) }
func (Mode) enumValidValues() []int        { return toInts(Modes) }

func toInts[T ~int](s []T) []int {
	r := make([]int, 0, len(s))
	for _, v := range s {
		r = append(r, int(v))
	}
	return r
}
