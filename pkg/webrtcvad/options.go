package webrtcvad

type Option interface {
	apply(*options)
}

type Options []Option

type options struct {
	Engine Engine
	Config *Config
}

func (s Options) config() options {
	var cfg options
	for _, opt := range s {
		opt.apply(&cfg)
	}
	return cfg
}

// OptionEngine makes the Detector use the given engine instead of
// discovering one via NewEngineAuto.
type OptionEngine struct {
	Engine
}

func (opt OptionEngine) apply(cfg *options) {
	cfg.Engine = opt.Engine
}

func WithEngine(engine Engine) OptionEngine {
	return OptionEngine{Engine: engine}
}

// OptionConfig is applied with Configure right after the initialization.
type OptionConfig Config

func (opt OptionConfig) apply(cfg *options) {
	c := Config(opt)
	cfg.Config = &c
}

func WithConfig(c Config) OptionConfig {
	return OptionConfig(c)
}
