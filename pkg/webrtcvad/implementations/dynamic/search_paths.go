package dynamic

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultLibraryNames are the names passed to the system loader when neither
// explicit paths nor EnvLibraryPath are given.
func DefaultLibraryNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libwebrtcvad.dylib", "libwebrtc_vad.dylib"}
	case "windows":
		return []string{"webrtcvad.dll", "webrtc_vad.dll"}
	default:
		return []string{"libwebrtcvad.so", "libwebrtcvad.so.0", "libwebrtc_vad.so"}
	}
}

// SearchPaths returns the candidates Load tries, in order.
func SearchPaths(paths ...string) []string {
	if len(paths) > 0 {
		return paths
	}
	if env := os.Getenv(EnvLibraryPath); env != "" {
		var result []string
		for _, path := range filepath.SplitList(env) {
			if path != "" {
				result = append(result, path)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return DefaultLibraryNames()
}
