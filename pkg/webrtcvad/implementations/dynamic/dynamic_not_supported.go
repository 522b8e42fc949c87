//go:build !(linux || darwin || freebsd)
// +build !linux,!darwin,!freebsd

package dynamic

import (
	"context"
	"fmt"
	"runtime"

	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

type Engine = types.EngineDummy

func Load(
	ctx context.Context,
	paths ...string,
) (*Engine, error) {
	return nil, types.ErrEngineUnavailable{
		SearchPaths: SearchPaths(paths...),
		Err:         fmt.Errorf("loading shared libraries is not supported on %s", runtime.GOOS),
	}
}
