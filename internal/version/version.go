package version

import "runtime/debug"

// Get reports the VCS revision baked into the binary, or "unknown" when the
// build carries no VCS metadata.
func Get() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}

	return "unknown"
}
