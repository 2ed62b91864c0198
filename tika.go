package tika

import (
	"fmt"
	"time"
)

// Environment variables read once at construction time
const (
	// EnvVersion selects the Tika server version used for download URLs
	EnvVersion = "TIKA_VERSION"

	// EnvServerArtifact points at a server jar on local disk. When set,
	// it takes precedence over any system-installed executable.
	EnvServerArtifact = "TIKA_SERVER_JAR"

	// EnvTranslator selects the translator class used by translate calls
	EnvTranslator = "TIKA_TRANSLATOR"

	// EnvServerEndpoint points at a pre-existing remote server endpoint
	EnvServerEndpoint = "TIKA_SERVER_ENDPOINT"
)

// Server invocation and readiness constants
const (
	// DefaultVersion is the Tika server version used when EnvVersion is unset
	DefaultVersion = "1.20"

	// DefaultBindAddress is the bind address for managed local servers
	DefaultBindAddress = "127.0.0.1:9998"

	// DefaultEndpoint is the endpoint assumed for remote-only clients
	// when EnvServerEndpoint is unset
	DefaultEndpoint = "http://localhost:9998"

	// ServerExecutable is the name probed on PATH for a system-installed
	// server. It is invoked directly, without a Java runtime.
	ServerExecutable = "tika-rest-server"

	// ServerEntryClass is the JVM entry point used when the server runs
	// from a jar artifact
	ServerEntryClass = "org.apache.tika.server.TikaServerCli"

	// DefaultJavaPath is the runtime interpreter used for jar artifacts
	DefaultJavaPath = "java"

	// ReadyBanner is the log-line substring the server emits on stderr
	// once it accepts requests. Matched as a substring, never as a full line.
	ReadyBanner = "Started Apache Tika server at"

	// DefaultStartTimeout bounds the readiness scan when the caller's
	// context carries no deadline
	DefaultStartTimeout = 30 * time.Second

	// DefaultStopTimeout bounds the wait for a terminated server to exit
	DefaultStopTimeout = 10 * time.Second

	// DefaultWatchDebounce is the debounce time for artifact file watching
	DefaultWatchDebounce = 25 * time.Millisecond
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode = 0o755

	// FileMode is the default mode for downloaded artifacts
	FileMode = 0o644
)

// downloadURLTemplate is parameterized only by the server version.
const downloadURLTemplate = "http://search.maven.org/remotecontent?filepath=org/apache/tika/tika-server/%s/tika-server-%s.jar"

// DownloadURL returns the remote artifact URL for a server version.
func DownloadURL(version string) string {
	return fmt.Sprintf(downloadURLTemplate, version, version)
}

// artifactFileName is the deterministic on-disk name for a downloaded
// artifact within the storage directory.
func artifactFileName(version string) string {
	return fmt.Sprintf("tika-server-%s.jar", version)
}
