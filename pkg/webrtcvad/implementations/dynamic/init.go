package dynamic

import (
	"context"

	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/registry"
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

const (
	Priority = 60

	// EnvLibraryPath is a list (separated by os.PathListSeparator) of shared
	// libraries to try instead of the default library names.
	EnvLibraryPath = "WEBRTCVAD_LIBRARY_PATH"
)

func init() {
	registry.RegisterEngineFactory(Priority, EngineFactory{})
}

type EngineFactory struct{}

func (EngineFactory) NewEngine(ctx context.Context) (types.Engine, error) {
	engine, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return engine, nil
}
