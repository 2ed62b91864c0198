package tika

import (
	"os"
	"path/filepath"
	"testing"
)

// installStubExecutable drops an executable named ServerExecutable into
// a fresh directory and returns that directory for use as PATH.
func installStubExecutable(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ServerExecutable)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestResolvePrecedence(t *testing.T) {
	stubDir := installStubExecutable(t)

	t.Run("environment beats system executable", func(t *testing.T) {
		t.Setenv("PATH", stubDir)
		t.Setenv(EnvServerArtifact, "/opt/tika/tika-server.jar")

		cfg, err := DefaultConfig()
		if err != nil {
			t.Fatal(err)
		}

		loc := resolveArtifact(&cfg)
		if loc.Source != SourceEnvironment {
			t.Errorf("Source = %v, want SourceEnvironment", loc.Source)
		}
		if loc.Path != "/opt/tika/tika-server.jar" {
			t.Errorf("Path = %q", loc.Path)
		}
	})

	t.Run("environment wins even when the path is missing", func(t *testing.T) {
		t.Setenv("PATH", stubDir)
		t.Setenv(EnvServerArtifact, "/does/not/exist.jar")

		cfg, err := DefaultConfig()
		if err != nil {
			t.Fatal(err)
		}

		loc := resolveArtifact(&cfg)
		if loc.Source != SourceEnvironment {
			t.Errorf("Source = %v, want SourceEnvironment", loc.Source)
		}
		// Existence is the caller's lazy check, not the resolver's.
		if loc.Exists() {
			t.Error("Exists() = true for a missing path")
		}
	})

	t.Run("system executable beats download", func(t *testing.T) {
		t.Setenv("PATH", stubDir)

		cfg := Config{Version: DefaultVersion}
		loc := resolveArtifact(&cfg)
		if loc.Source != SourceSystem {
			t.Fatalf("Source = %v, want SourceSystem", loc.Source)
		}
		if loc.Path != filepath.Join(stubDir, ServerExecutable) {
			t.Errorf("Path = %q", loc.Path)
		}
		if !loc.Exists() {
			t.Error("Exists() = false for the stub executable")
		}
	})

	t.Run("neither yields the download placeholder", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())

		cfg := Config{Version: "1.20"}
		loc := resolveArtifact(&cfg)
		if loc.Source != SourceRemote {
			t.Fatalf("Source = %v, want SourceRemote", loc.Source)
		}
		if loc.URL != DownloadURL("1.20") {
			t.Errorf("URL = %q, want %q", loc.URL, DownloadURL("1.20"))
		}
		// The placeholder is a resolved terminal value, not an error.
		if !loc.Resolved() {
			t.Error("Resolved() = false for the placeholder")
		}
		if loc.Local() {
			t.Error("Local() = true for the placeholder")
		}
	})
}

func TestResolveIsStable(t *testing.T) {
	// Resolution is a pure function of its inputs: same conditions,
	// same answer.
	t.Setenv("PATH", installStubExecutable(t))

	cfg := Config{Version: DefaultVersion}
	first := resolveArtifact(&cfg)
	second := resolveArtifact(&cfg)
	if first != second {
		t.Errorf("resolveArtifact not stable: %+v vs %+v", first, second)
	}
}

func TestEnvironArtifactUndecodable(t *testing.T) {
	_, err := environArtifact("/opt/tika/\xff\xfe.jar")
	if err == nil {
		t.Fatal("expected error for a non-UTF-8 value")
	}
	if got := KindOf(err); got != KindConfig {
		t.Errorf("kind = %v, want KindConfig", got)
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		source Source
		want   string
	}{
		{SourceUnresolved, "unresolved"},
		{SourceEnvironment, "environment"},
		{SourceSystem, "system"},
		{SourceRemote, "remote"},
		{SourceDownloaded, "downloaded"},
		{Source(42), "unresolved"},
	}

	for _, tt := range tests {
		if got := tt.source.String(); got != tt.want {
			t.Errorf("Source(%d).String() = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("1.20")
	want := "http://search.maven.org/remotecontent?filepath=org/apache/tika/tika-server/1.20/tika-server-1.20.jar"
	if got != want {
		t.Errorf("DownloadURL = %q, want %q", got, want)
	}
}
