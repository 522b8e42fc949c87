package voicegate

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

func newTestDetector(t *testing.T, engine types.Engine) *webrtcvad.Detector {
	d, err := webrtcvad.New(context.Background(), webrtcvad.WithEngine(engine))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestVoiceGate(t *testing.T) {
	engine := types.NewEngineDummy()
	engine.ProcessFunc = func(_ types.Handle, _ int, frame []byte, _ uint) types.Status {
		if frame[0] != 0 {
			return types.StatusSpeech
		}
		return types.StatusOK
	}
	d := newTestDetector(t, engine)

	const frameSize = 160
	input := make([]byte, frameSize*6+50)
	for idx := 0; idx < 6; idx++ {
		input[idx*frameSize+1] = byte(idx)
	}
	input[1*frameSize] = 1
	input[5*frameSize] = 1

	gate := New(context.Background(), bytes.NewReader(input), d, 1)
	output, err := io.ReadAll(gate)
	require.NoError(t, err)

	var expected []byte
	for _, idx := range []int{1, 2, 5} {
		expected = append(expected, input[idx*frameSize:(idx+1)*frameSize]...)
	}
	require.Equal(t, expected, output)
	require.Equal(t, Stats{FramesTotal: 6, FramesVoiced: 2, FramesPassed: 3}, gate.Stats())
}

func TestVoiceGateSmallReads(t *testing.T) {
	engine := types.NewEngineDummy()
	engine.ProcessStatus = types.StatusSpeech
	d := newTestDetector(t, engine)

	input := bytes.Repeat([]byte{1, 2, 3, 4}, 80)
	gate := New(context.Background(), bytes.NewReader(input), d, 0)

	var output []byte
	buf := make([]byte, 7)
	for {
		n, err := gate.Read(buf)
		output = append(output, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	require.Equal(t, input, output)
}

func TestVoiceGateDetectorError(t *testing.T) {
	engine := types.NewEngineDummy()
	engine.ProcessStatus = -3
	d := newTestDetector(t, engine)

	gate := New(context.Background(), bytes.NewReader(make([]byte, 320)), d, 0)
	_, err := io.ReadAll(gate)
	var errNative webrtcvad.ErrNativeCall
	require.ErrorAs(t, err, &errNative)

	_, err = gate.Read(make([]byte, 10))
	require.ErrorAs(t, err, &errNative)
}
