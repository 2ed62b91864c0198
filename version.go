package tika

// Version is the current version of the go-tika library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version of this library
	Version string
	// ServerVersion is the Tika server version targeted by default
	ServerVersion string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:       Version,
		ServerVersion: DefaultVersion,
	}
}
