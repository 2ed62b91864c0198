package tika

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// installServerStub writes a shell script named ServerExecutable into a
// fresh directory and points PATH at it, so resolution finds a "system
// installed" server whose behavior the test controls.
func installServerStub(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ServerExecutable)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// readyStub emits the readiness banner on stderr, then idles until
// terminated.
const readyStub = `#!/bin/sh
echo "server launched"
echo "INFO  Started Apache Tika server at http://localhost/" >&2
exec sleep 60
`

// crashStub exits before ever becoming ready.
const crashStub = `#!/bin/sh
echo "FATAL could not bind address" >&2
exit 3
`

// hangStub never emits the banner and never exits on its own.
const hangStub = `#!/bin/sh
exec sleep 60
`

func newManagedTestClient(t *testing.T, addr string) *Client {
	t.Helper()
	client, err := NewManaged(addr, WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStartStopLifecycle(t *testing.T) {
	installServerStub(t, readyStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.StartServer(ctx); err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	if !client.ServerLive() {
		t.Error("ServerLive() = false after successful start")
	}
	if got := client.Config().Artifact.Source; got != SourceSystem {
		t.Errorf("Artifact.Source = %v, want SourceSystem", got)
	}

	if err := client.StopServer(); err != nil {
		t.Fatalf("StopServer: %v", err)
	}
	if client.ServerLive() {
		t.Error("ServerLive() = true after stop")
	}

	// Stopping twice never errors and still means "no live process".
	if err := client.StopServer(); err != nil {
		t.Fatalf("second StopServer: %v", err)
	}
	if client.ServerLive() {
		t.Error("ServerLive() = true after double stop")
	}
}

func TestStopWithoutStart(t *testing.T) {
	installServerStub(t, readyStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	if err := client.StopServer(); err != nil {
		t.Fatalf("StopServer with no process: %v", err)
	}
	if client.ServerLive() {
		t.Error("ServerLive() = true with no process")
	}
}

func TestStartRemoteOnly(t *testing.T) {
	client, err := NewRemote("http://localhost:9998")
	if err != nil {
		t.Fatal(err)
	}

	err = client.StartServer(context.Background())
	if err == nil {
		t.Fatal("expected error starting a remote-only client")
	}
	if !errors.Is(err, ErrRemoteOnly) {
		t.Errorf("error = %v, want ErrRemoteOnly", err)
	}
	if got := KindOf(err); got != KindConfig {
		t.Errorf("kind = %v, want KindConfig", got)
	}
	if client.ServerLive() {
		t.Error("ServerLive() = true for remote-only client")
	}
}

func TestStartWhileRunning(t *testing.T) {
	installServerStub(t, readyStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	ctx := context.Background()
	if err := client.StartServer(ctx); err != nil {
		t.Fatal(err)
	}

	err := client.StartServer(ctx)
	if err == nil {
		t.Fatal("expected error starting twice")
	}
	if got := KindOf(err); got != KindConfig {
		t.Errorf("kind = %v, want KindConfig", got)
	}

	if err := client.StopServer(); err != nil {
		t.Fatal(err)
	}
}

func TestStartExitBeforeBanner(t *testing.T) {
	installServerStub(t, crashStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	err := client.StartServer(context.Background())
	if err == nil {
		t.Fatal("expected error when the server dies during boot")
	}
	if !errors.Is(err, ErrServerNotReady) {
		t.Errorf("error = %v, want ErrServerNotReady", err)
	}
	if got := KindOf(err); got != KindNetwork {
		t.Errorf("kind = %v, want KindNetwork", got)
	}
	if client.ServerLive() {
		t.Error("ServerLive() = true after failed start")
	}
}

func TestStartTimeout(t *testing.T) {
	installServerStub(t, hangStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := client.StartServer(ctx)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if got := KindOf(err); got != KindNetwork {
		t.Errorf("kind = %v, want KindNetwork", got)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if client.ServerLive() {
		t.Error("ServerLive() = true after timed-out start")
	}
}

func TestRestartWithNewAddress(t *testing.T) {
	installServerStub(t, readyStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	ctx := context.Background()
	if err := client.StartServer(ctx); err != nil {
		t.Fatal(err)
	}

	if err := client.RestartServer(ctx, "127.0.0.1:19999"); err != nil {
		t.Fatalf("RestartServer: %v", err)
	}
	if got := client.Endpoint().String(); got != "http://127.0.0.1:19999" {
		t.Errorf("Endpoint() = %q, want http://127.0.0.1:19999", got)
	}
	if !client.ServerLive() {
		t.Error("ServerLive() = false after restart")
	}

	if err := client.StopServer(); err != nil {
		t.Fatal(err)
	}
}

func TestRestartInvalidAddress(t *testing.T) {
	installServerStub(t, readyStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	err := client.RestartServer(context.Background(), "not-an-address")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := KindOf(err); got != KindAddrParse {
		t.Errorf("kind = %v, want KindAddrParse", got)
	}
}

func TestStartArtifactMissing(t *testing.T) {
	// A configured-but-missing artifact is a configuration error with
	// the offending path, never a silent fallthrough to other sources.
	installServerStub(t, readyStub)
	client, err := NewManaged("127.0.0.1:19998",
		WithArtifactPath("/does/not/exist/tika-server.jar"))
	if err != nil {
		t.Fatal(err)
	}

	err = client.StartServer(context.Background())
	if err == nil {
		t.Fatal("expected error for a missing artifact")
	}
	if !errors.Is(err, ErrArtifactMissing) {
		t.Errorf("error = %v, want ErrArtifactMissing", err)
	}
	if got := KindOf(err); got != KindConfig {
		t.Errorf("kind = %v, want KindConfig", got)
	}
}

func TestCloseStopsServer(t *testing.T) {
	installServerStub(t, readyStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	if err := client.StartServer(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if client.ServerLive() {
		t.Error("ServerLive() = true after Close")
	}
}

func TestServerOutputSilent(t *testing.T) {
	installServerStub(t, readyStub)
	client := newManagedTestClient(t, "127.0.0.1:19998")

	if out := client.ServerOutput(); out != nil {
		t.Error("ServerOutput() non-nil before start")
	}

	if err := client.StartServer(context.Background()); err != nil {
		t.Fatal(err)
	}
	if out := client.ServerOutput(); out == nil {
		t.Error("ServerOutput() nil for a silent managed server")
	}

	if err := client.StopServer(); err != nil {
		t.Fatal(err)
	}
	if out := client.ServerOutput(); out != nil {
		t.Error("ServerOutput() non-nil after stop")
	}
}
