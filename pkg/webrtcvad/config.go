package webrtcvad

// Config is the configuration of a Detector.
type Config struct {
	SampleRate  SampleRate  `yaml:"sample_rate"`
	FrameLength FrameLength `yaml:"frame_length"`
	Mode        Mode        `yaml:"mode"`
}

// DefaultConfig is the configuration of a freshly constructed Detector:
// the lowest sample rate, the shortest frame and the least aggressive mode.
func DefaultConfig() Config {
	return Config{
		SampleRate:  SampleRate8kHz,
		FrameLength: FrameLength10ms,
		Mode:        ModeQuality,
	}
}

func (cfg Config) RequiredSamples() int {
	return RequiredSamples(cfg.SampleRate, cfg.FrameLength)
}

func (cfg Config) RequiredBytes() int {
	return RequiredBytes(cfg.SampleRate, cfg.FrameLength)
}
