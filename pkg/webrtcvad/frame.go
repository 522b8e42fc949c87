package webrtcvad

import (
	"math"
)

// BytesPerSample is the size of one 16-bit PCM sample.
const BytesPerSample = 2

// MaxSamples is the largest amount of samples whose size in bytes fits int.
const MaxSamples = math.MaxInt / BytesPerSample

// RequiredSamples returns the amount of samples in one frame of the given
// duration at the given sample rate: floor(rate/1000) * length. Non-positive
// factors yield 0; a product beyond MaxSamples saturates to MaxSamples.
func RequiredSamples(rate SampleRate, length FrameLength) int {
	samplesPerMs := int(rate) / 1000
	if samplesPerMs <= 0 || length <= 0 {
		return 0
	}
	if samplesPerMs > MaxSamples/int(length) {
		return MaxSamples
	}
	return samplesPerMs * int(length)
}

// RequiredBytes returns the size of one frame of 16-bit samples.
func RequiredBytes(rate SampleRate, length FrameLength) int {
	return RequiredSamples(rate, length) * BytesPerSample
}
