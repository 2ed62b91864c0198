package tika

import (
	"errors"
	"os"
	"os/exec"
	"unicode/utf8"
)

// Source tags where the runnable server artifact comes from. The tag
// decides the invocation strategy: system executables run directly,
// jar artifacts run through the Java runtime with a classpath argument.
type Source int

const (
	// SourceUnresolved is the zero value before resolution has run
	SourceUnresolved Source = iota
	// SourceEnvironment is a jar path supplied via configuration or the
	// TIKA_SERVER_JAR environment variable
	SourceEnvironment
	// SourceSystem is a server executable found on the search path
	SourceSystem
	// SourceRemote is the to-be-downloaded placeholder; it carries a URL
	// instead of a local path
	SourceRemote
	// SourceDownloaded is a jar fetched from the remote URL
	SourceDownloaded
)

// Source string constants
const (
	sourceUnresolvedStr  = "unresolved"
	sourceEnvironmentStr = "environment"
	sourceSystemStr      = "system"
	sourceRemoteStr      = "remote"
	sourceDownloadedStr  = "downloaded"
)

// String returns the string representation of Source
func (s Source) String() string {
	switch s {
	case SourceEnvironment:
		return sourceEnvironmentStr
	case SourceSystem:
		return sourceSystemStr
	case SourceRemote:
		return sourceRemoteStr
	case SourceDownloaded:
		return sourceDownloadedStr
	case SourceUnresolved:
		fallthrough
	default:
		return sourceUnresolvedStr
	}
}

// Location is where the runnable server artifact is. It is never
// mutated, only replaced wholesale: a SourceRemote placeholder becomes
// a SourceDownloaded location after a successful fetch.
type Location struct {
	// Source tags the origin and therefore the invocation strategy
	Source Source
	// Path is the local filesystem path; empty for SourceRemote
	Path string
	// URL is the download URL; set only for SourceRemote
	URL string
}

// Resolved reports whether resolution has produced a location. A
// SourceRemote placeholder counts as resolved: "must be downloaded" is
// a valid terminal value, not an error.
func (l Location) Resolved() bool {
	return l.Source != SourceUnresolved
}

// Local reports whether the artifact is on local disk.
func (l Location) Local() bool {
	return l.Path != ""
}

// Exists reports whether the local artifact path exists on disk.
// Existence is checked here, lazily, never during resolution, so that
// a configured-but-missing artifact yields a clear diagnostic instead
// of a silent fallthrough.
func (l Location) Exists() bool {
	if l.Path == "" {
		return false
	}
	_, err := os.Stat(l.Path)
	return err == nil
}

// environArtifact validates an environment-supplied artifact value.
// A set-but-undecodable value is a fatal configuration error, not a
// fallback trigger.
func environArtifact(value string) (Location, error) {
	if !utf8.ValidString(value) {
		return Location{}, newError(KindConfig, "resolve artifact", EnvServerArtifact,
			errors.New("environment value is not valid UTF-8"))
	}
	return Location{Source: SourceEnvironment, Path: value}, nil
}

// resolveArtifact decides where the runnable artifact comes from, with
// fixed, total precedence: configured pointer > system executable >
// remote-download placeholder. It never touches the network; the only
// side effects are environment and filesystem metadata probes. It
// never fails for a missing artifact: the placeholder is the terminal
// "nothing installed" value.
func resolveArtifact(cfg *Config) Location {
	if cfg.Artifact.Resolved() {
		return cfg.Artifact
	}
	if path, err := exec.LookPath(ServerExecutable); err == nil {
		return Location{Source: SourceSystem, Path: path}
	}
	return Location{Source: SourceRemote, URL: DownloadURL(cfg.Version)}
}
