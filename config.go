package tika

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config is the build-time configuration for a Client. It is read-only
// after construction except the Artifact field, which is replaced
// exactly once after a successful download (single writer, only inside
// StartServer).
type Config struct {
	// Version is the server version, used to form download URLs
	Version string
	// StorageDir is where downloaded artifacts are stored
	StorageDir string
	// Artifact is the resolved artifact location; the zero value means
	// resolution runs on the first StartServer
	Artifact Location
	// Translator is the translator class used by Translate
	Translator Translator
	// Verbose releases server output to the parent's console once the
	// server is ready; when false, captured pipes persist for the
	// process lifetime
	Verbose bool
	// JavaPath is the runtime interpreter used for jar artifacts
	JavaPath string
	// StartTimeout bounds the readiness scan when the caller's context
	// has no deadline
	StartTimeout time.Duration
	// StopTimeout bounds the wait for a terminated server to exit
	StopTimeout time.Duration
}

// DefaultConfig reads the TIKA_* environment variables once and applies
// documented defaults. Environment access happens only here, never ad
// hoc, so the rest of the library stays testable without mutating the
// process environment.
func DefaultConfig() (Config, error) {
	cfg := Config{
		Version:      DefaultVersion,
		StorageDir:   os.TempDir(),
		Translator:   TranslatorLingo24,
		JavaPath:     DefaultJavaPath,
		StartTimeout: DefaultStartTimeout,
		StopTimeout:  DefaultStopTimeout,
	}

	if v := os.Getenv(EnvVersion); v != "" {
		cfg.Version = v
	}
	if v := os.Getenv(EnvTranslator); v != "" {
		cfg.Translator = Translator(v)
	}
	if v, ok := os.LookupEnv(EnvServerArtifact); ok && v != "" {
		loc, err := environArtifact(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Artifact = loc
	}

	return cfg, nil
}

// Option configures a Client
type Option func(*Client)

// WithVersion sets the server version used for download URLs
func WithVersion(version string) Option {
	return func(c *Client) {
		c.config.Version = version
	}
}

// WithStorageDir sets the directory where downloaded artifacts are stored
func WithStorageDir(dir string) Option {
	return func(c *Client) {
		c.config.StorageDir = dir
	}
}

// WithArtifactPath points the client at a server jar on local disk,
// overriding resolution entirely
func WithArtifactPath(path string) Option {
	return func(c *Client) {
		c.config.Artifact = Location{Source: SourceEnvironment, Path: path}
	}
}

// WithTranslator sets the translator class used by Translate
func WithTranslator(t Translator) Option {
	return func(c *Client) {
		c.config.Translator = t
	}
}

// WithVerbose releases server output to the parent's console once the
// server is ready
func WithVerbose(verbose bool) Option {
	return func(c *Client) {
		c.config.Verbose = verbose
	}
}

// WithJavaPath sets the runtime interpreter used for jar artifacts
func WithJavaPath(path string) Option {
	return func(c *Client) {
		c.config.JavaPath = path
	}
}

// WithStartTimeout bounds the readiness scan when the caller's context
// has no deadline
func WithStartTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.StartTimeout = d
	}
}

// WithStopTimeout bounds the wait for a terminated server to exit
func WithStopTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.StopTimeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// WithLogger replaces the logger used for server output and diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
