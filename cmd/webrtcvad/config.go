package main

import (
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad"
	"gopkg.in/yaml.v3"
)

type config struct {
	webrtcvad.Config `yaml:",inline"`
	Library          string `yaml:"library"`
	Hangover         uint   `yaml:"hangover"`
}

func defaultConfig() config {
	return config{
		Config: webrtcvad.DefaultConfig(),
	}
}

func readConfig(r io.Reader, cfg *config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == io.EOF {
		return nil
	}
	return err
}

func loadConfig(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open '%s': %w", path, err)
	}
	defer f.Close()
	if err := readConfig(f, cfg); err != nil {
		return fmt.Errorf("unable to parse '%s': %w", path, err)
	}
	return nil
}

type flags struct {
	*pflag.FlagSet

	LogLevel   logger.Level
	ConfigPath string
	PprofAddr  string
	OutputPath string
	Quiet      bool

	SampleRate  webrtcvad.SampleRate
	FrameLength webrtcvad.FrameLength
	Mode        webrtcvad.Mode
	Library     string
	Hangover    uint
}

func parseFlags(args []string) (*flags, error) {
	def := defaultConfig()
	f := &flags{
		FlagSet:     pflag.NewFlagSet("webrtcvad", pflag.ContinueOnError),
		LogLevel:    logger.LevelInfo,
		SampleRate:  def.SampleRate,
		FrameLength: def.FrameLength,
		Mode:        def.Mode,
	}
	f.Var(&f.LogLevel, "log-level", "Log level")
	f.StringVar(&f.ConfigPath, "config", "", "a YAML file with the detector configuration; the flags override it")
	f.StringVar(&f.PprofAddr, "net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	f.StringVarP(&f.OutputPath, "output", "o", "", "write the voiced frames (as raw PCM) to this file")
	f.BoolVarP(&f.Quiet, "quiet", "q", false, "print only the summary")
	f.Var(&f.SampleRate, "sample-rate", "the sample rate of the input: 8k, 16k, 32k or 48k")
	f.Var(&f.FrameLength, "frame-length", "the frame length: 10ms, 20ms or 30ms")
	f.Var(&f.Mode, "mode", "the aggressiveness mode: quality, low-bitrate, aggressive or very-aggressive")
	f.StringVar(&f.Library, "library", "", "the path to the WebRTC VAD shared library")
	f.UintVar(&f.Hangover, "hangover", 0, "the amount of frames passed to the output after the last voiced frame")
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// config returns the configuration file values overridden by the flags
// that were explicitly set.
func (f *flags) config() (config, error) {
	cfg := defaultConfig()
	if f.ConfigPath != "" {
		if err := loadConfig(f.ConfigPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if f.Changed("sample-rate") {
		cfg.SampleRate = f.SampleRate
	}
	if f.Changed("frame-length") {
		cfg.FrameLength = f.FrameLength
	}
	if f.Changed("mode") {
		cfg.Mode = f.Mode
	}
	if f.Changed("library") {
		cfg.Library = f.Library
	}
	if f.Changed("hangover") {
		cfg.Hangover = f.Hangover
	}
	return cfg, nil
}
