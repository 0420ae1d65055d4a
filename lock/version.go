package lock

// Version information for the tasklock primitives.
const (
	// Version is the current version of the library.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the library.
type Info struct {
	// Version is the library version string.
	Version string

	// Fairness names the wakeup ordering policy.
	Fairness string

	// Debug indicates whether acquisition-site diagnostics are enabled.
	Debug bool
}

// GetInfo returns information about the library.
//
// Example:
//
//	info := lock.GetInfo()
//	fmt.Printf("tasklock %s (%s wakeup order)\n", info.Version, info.Fairness)
func GetInfo() Info {
	return Info{
		Version:  Version,
		Fairness: "FIFO",
		Debug:    debugEnabled(),
	}
}
