package fvad

import (
	"context"

	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

type EngineFactory struct{}

func (EngineFactory) NewEngine(context.Context) (types.Engine, error) {
	engine, err := New()
	if err != nil {
		return nil, err
	}
	return engine, nil
}
