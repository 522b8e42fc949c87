package audio

import (
	"context"
	"io"
)

// AbstractAnalyzer is the common part of the analyzers consuming PCM audio.
type AbstractAnalyzer interface {
	io.Closer

	Encoding(context.Context) (Encoding, error)
	Channels(context.Context) (Channel, error)
}
