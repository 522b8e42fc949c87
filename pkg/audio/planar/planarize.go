package planar

import (
	"fmt"

	"github.com/xaionaro-go/webrtcvad/pkg/audio"
)

// Planarize converts interleaved samples (L R L R ...) from input into planes
// (L L ... R R ...) in output. Both slices must be of the same length, a
// multiple of channels*sampleSize.
func Planarize(channels audio.Channel, sampleSize uint, output, input []byte) error {
	if channels == 0 || sampleSize == 0 {
		return fmt.Errorf("invalid layout: %d channels of %d-byte samples", channels, sampleSize)
	}
	blockSize := int(channels) * int(sampleSize)
	if len(input) < blockSize {
		return fmt.Errorf("the provided input buffer is too short: %d < %d", len(input), blockSize)
	}
	if len(input)%blockSize != 0 {
		return fmt.Errorf("expected a message length that is a multiple of %d, but received %d", blockSize, len(input))
	}
	if len(input) != len(output) {
		return fmt.Errorf("the lengths of input and output are not equal: %d != %d", len(input), len(output))
	}

	planeSize := len(input) / int(channels)
	for block := 0; block*blockSize < len(input); block++ {
		in := input[block*blockSize:]
		for ch := 0; ch < int(channels); ch++ {
			dst := output[ch*planeSize+block*int(sampleSize):]
			copy(dst[:sampleSize], in[ch*int(sampleSize):])
		}
	}
	return nil
}

// Plane returns the samples of one channel of a buffer produced by Planarize.
func Plane(channels audio.Channel, ch audio.Channel, planar []byte) []byte {
	planeSize := len(planar) / int(channels)
	return planar[int(ch)*planeSize : int(ch+1)*planeSize]
}
