package webrtcvad

import (
	"github.com/xaionaro-go/webrtcvad/pkg/webrtcvad/types"
)

type Engine = types.Engine
type Handle = types.Handle
type Status = types.Status
type ErrEngineUnavailable = types.ErrEngineUnavailable

const (
	HandleReleased   = types.HandleReleased
	StatusOK         = types.StatusOK
	StatusSpeech     = types.StatusSpeech
	StatusNotInvoked = types.StatusNotInvoked
)
