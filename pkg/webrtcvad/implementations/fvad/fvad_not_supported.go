//go:build !fvad
// +build !fvad

package fvad

import (
	"fmt"

	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

type Engine = types.EngineDummy

func New() (*Engine, error) {
	return nil, fmt.Errorf("built without tag 'fvad'")
}
