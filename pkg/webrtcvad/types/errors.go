package types

import (
	"fmt"
	"strings"
)

// ErrEngineUnavailable is returned when no native engine could be loaded.
type ErrEngineUnavailable struct {
	// SearchPaths are the locations (files or library names) that were tried.
	SearchPaths []string
	Err         error
}

func (e ErrEngineUnavailable) Error() string {
	var b strings.Builder
	b.WriteString("the WebRTC VAD engine is unavailable")
	if len(e.SearchPaths) > 0 {
		fmt.Fprintf(&b, " (searched: %s)", strings.Join(e.SearchPaths, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e ErrEngineUnavailable) Unwrap() error {
	return e.Err
}
