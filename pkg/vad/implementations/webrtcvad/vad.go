package webrtcvad

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/webrtcvad/pkg/audio"
	"github.com/xaionaro-go/webrtcvad/pkg/audio/planar"
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad"
)

// VAD detects voice in interleaved 16-bit native-endian PCM. Each channel has
// its own Detector, so channels are processed concurrently.
type VAD struct {
	Locker       sync.Mutex
	Detectors    []*webrtcvad.Detector
	Config       webrtcvad.Config
	ChannelCount audio.Channel
	PCMFormat    audio.PCMFormat
	Buffer       []byte
}

var _ vad.VAD = (*VAD)(nil)

func NewVAD(
	ctx context.Context,
	cfg webrtcvad.Config,
	channels audio.Channel,
	opts ...webrtcvad.Option,
) (*VAD, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid amount of channels: %d", channels)
	}
	pcmFormat, err := audio.PCMFormatS16Native()
	if err != nil {
		return nil, err
	}

	v := &VAD{
		Config:       cfg,
		ChannelCount: channels,
		PCMFormat:    pcmFormat,
		Buffer:       make([]byte, cfg.RequiredBytes()*int(channels)),
	}
	opts = append(webrtcvad.Options{webrtcvad.WithConfig(cfg)}, opts...)
	for ch := audio.Channel(0); ch < channels; ch++ {
		d, err := webrtcvad.New(ctx, opts...)
		if err != nil {
			v.Close()
			return nil, fmt.Errorf("unable to initialize the detector for channel %d: %w", ch, err)
		}
		v.Detectors = append(v.Detectors, d)
	}
	logger.Debugf(ctx, "initialized a VAD with %d channel(s), config %#+v", channels, cfg)
	return v, nil
}

func (v *VAD) Close() error {
	var mErr *multierror.Error
	for idx, d := range v.Detectors {
		if err := d.Close(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to close the detector of channel %d: %w", idx, err))
		}
	}
	return mErr.ErrorOrNil()
}

func (v *VAD) Encoding(context.Context) (audio.Encoding, error) {
	return audio.EncodingPCM{
		PCMFormat:  v.PCMFormat,
		SampleRate: audio.SampleRate(v.Config.SampleRate),
	}, nil
}

func (v *VAD) Channels(context.Context) (audio.Channel, error) {
	return v.ChannelCount, nil
}

// ChunkSize returns the size of one multichannel frame.
func (v *VAD) ChunkSize() int {
	return v.Config.RequiredBytes() * int(v.ChannelCount)
}

// FindNextVoice processes the samples frame by frame. The confidence of a
// frame is 1 if any of the channels contains speech, 0 otherwise. A trailing
// incomplete frame is ignored.
func (v *VAD) FindNextVoice(
	ctx context.Context,
	samples []byte,
	confidenceThreshold float64,
	minDuration time.Duration,
) (_conf float64, _pos time.Duration, _err error) {
	logger.Tracef(ctx, "FindNextVoice, len:%d", len(samples))
	defer func() { logger.Tracef(ctx, "/FindNextVoice, len:%d: %v %v %v", len(samples), _conf, _pos, _err) }()

	v.Locker.Lock()
	defer v.Locker.Unlock()

	var maxConfidence float64
	var foundVoiceFor time.Duration
	firstVoiceDetection := time.Duration(-1)

	chunkSize := v.ChunkSize()
	chunkDuration := v.Config.FrameLength.Duration()
	if chunkSize <= 0 {
		return 0, -1, fmt.Errorf("invalid configuration %#+v: empty frames", v.Config)
	}
	for pos := 0; ; pos++ {
		if len(samples) < chunkSize {
			return maxConfidence, firstVoiceDetection, nil
		}
		frame := samples[:chunkSize]
		samples = samples[chunkSize:]

		voiceConfidence, err := v.detect(ctx, frame)
		if err != nil {
			return maxConfidence, firstVoiceDetection, err
		}

		if voiceConfidence > maxConfidence {
			maxConfidence = voiceConfidence
		}

		if voiceConfidence >= confidenceThreshold {
			foundVoiceFor += chunkDuration
			if firstVoiceDetection < 0 {
				firstVoiceDetection = chunkDuration * time.Duration(pos)
			}
		}

		if firstVoiceDetection >= 0 && foundVoiceFor >= minDuration {
			return maxConfidence, firstVoiceDetection, nil
		}
	}
}

func (v *VAD) detect(
	ctx context.Context,
	frame []byte,
) (float64, error) {
	if v.ChannelCount == 1 {
		isSpeech, err := v.Detectors[0].HasSpeech(ctx, frame)
		if err != nil {
			return 0, fmt.Errorf("unable to detect speech: %w", err)
		}
		return confidence(isSpeech), nil
	}

	err := planar.Planarize(v.ChannelCount, v.PCMFormat.Size(), v.Buffer, frame)
	if err != nil {
		return 0, fmt.Errorf("unable to planarize the frame: %w", err)
	}

	var (
		wg     sync.WaitGroup
		locker sync.Mutex
		mErr   *multierror.Error
		result float64
	)
	for ch, d := range v.Detectors {
		ch, d := ch, d
		plane := planar.Plane(v.ChannelCount, audio.Channel(ch), v.Buffer)
		wg.Add(1)
		observability.Go(ctx, func() {
			defer wg.Done()
			isSpeech, err := d.HasSpeech(ctx, plane)
			locker.Lock()
			defer locker.Unlock()
			if err != nil {
				mErr = multierror.Append(mErr, fmt.Errorf("unable to detect speech in channel %d: %w", ch, err))
				return
			}
			if c := confidence(isSpeech); c > result {
				result = c
			}
		})
	}
	wg.Wait()

	return result, mErr.ErrorOrNil()
}

func confidence(isSpeech bool) float64 {
	if isSpeech {
		return 1
	}
	return 0
}
