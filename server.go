package tika

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// serverState tracks the supervisor state machine
type serverState int

const (
	// stateNoProcess means no locally managed process is running
	stateNoProcess serverState = iota
	// stateStarting means the process is spawned but not yet ready
	stateStarting
	// stateReady means the readiness banner has been observed
	stateReady
	// stateStopping means termination is in progress
	stateStopping
)

// String returns the string representation of serverState
func (s serverState) String() string {
	switch s {
	case stateStarting:
		return "starting"
	case stateReady:
		return "ready"
	case stateStopping:
		return "stopping"
	case stateNoProcess:
		fallthrough
	default:
		return "no process"
	}
}

// serverProcess is the handle for a live managed child process. Its
// absence on the client is the authoritative "no server running" signal.
type serverProcess struct {
	cmd *exec.Cmd

	// stdout is the captured stdout pipe, retained only in silent mode.
	// It is valid until the process exits.
	stdout io.ReadCloser

	// forward drains or forwards the stderr stream after readiness
	forward *errgroup.Group

	// done closes once the process has been reaped
	done    chan struct{}
	waitErr error
}

// exited reports whether the child has been reaped
func (s *serverProcess) exited() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// StartServer resolves the server artifact, downloading it first when
// resolution produced only a remote placeholder, spawns the server
// bound to the client's local address, and blocks until the readiness
// banner appears on the child's stderr.
//
// The call is valid only when no managed process is running, and fails
// with a configuration error on remote-only clients. The blocking scan
// is bounded by ctx; when ctx has no deadline, the configured
// StartTimeout applies. On any failure the half-started process is
// terminated and reaped, so no child outlives the error.
//
// Stream policy: stderr is always piped for the readiness scan. When
// verbose, scanned lines are echoed through the logger and, once ready,
// the remaining stderr flows to the parent's console. When silent, the
// captured stdout pipe stays available via ServerOutput and stderr is
// drained for the process lifetime.
func (c *Client) StartServer(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(ctx)
}

func (c *Client) startLocked(ctx context.Context) error {
	if !c.mode.Managed() {
		return newError(KindConfig, "start", c.endpoint.String(), ErrRemoteOnly)
	}
	if c.srv != nil && !c.srv.exited() {
		return newError(KindConfig, "start", c.mode.BindAddr().String(),
			errors.New("server already running"))
	}
	c.srv = nil

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.config.StartTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.StartTimeout)
		defer cancel()
	}

	loc := resolveArtifact(&c.config)
	if loc.Source == SourceRemote {
		downloaded, _, err := c.downloadArtifact(ctx, loc)
		if err != nil {
			return err
		}
		loc = downloaded
	}
	// The only write to the artifact location after construction.
	c.config.Artifact = loc

	if !loc.Exists() {
		return newError(KindConfig, "start", loc.Path, ErrArtifactMissing)
	}

	path, args, err := buildInvocation(&c.config, loc, c.mode.BindAddr())
	if err != nil {
		return err
	}

	cmd := exec.Command(path, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return newError(KindIO, "start", path, err)
	}
	var stdout io.ReadCloser
	if c.config.Verbose {
		cmd.Stdout = os.Stdout
	} else {
		stdout, err = cmd.StdoutPipe()
		if err != nil {
			return newError(KindIO, "start", path, err)
		}
	}

	c.state = stateStarting
	if err := cmd.Start(); err != nil {
		c.state = stateNoProcess
		return newError(KindIO, "start", path, err)
	}

	c.logger.Debug("tika server starting",
		"path", path, "pid", cmd.Process.Pid, "addr", c.mode.BindAddr().String())

	lines := bufio.NewReader(stderr)
	if err := c.scanForReady(ctx, lines); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		c.state = stateNoProcess
		return err
	}

	srv := &serverProcess{cmd: cmd, stdout: stdout, done: make(chan struct{})}

	// Consume the rest of stderr from the same buffered reader so no
	// lines the scanner read ahead are lost.
	srv.forward = &errgroup.Group{}
	if c.config.Verbose {
		srv.forward.Go(func() error {
			_, err := io.Copy(os.Stderr, lines)
			return err
		})
	} else {
		srv.forward.Go(func() error {
			_, err := io.Copy(io.Discard, lines)
			return err
		})
	}

	// Reap the child exactly once, after its pipes have drained.
	go func() {
		_ = srv.forward.Wait()
		srv.waitErr = srv.cmd.Wait()
		close(srv.done)
	}()

	c.srv = srv
	c.state = stateReady

	c.logger.Debug("tika server ready", "pid", cmd.Process.Pid, "endpoint", c.endpoint.String())
	return nil
}

// scanForReady reads stderr line by line until the readiness banner
// appears as a substring, the stream closes, or ctx expires. A closed
// stream means the process exited during boot, reported as a network
// error.
func (c *Client) scanForReady(ctx context.Context, r *bufio.Reader) error {
	target := c.mode.BindAddr().String()

	done := make(chan error, 1)
	go func() {
		for {
			line, err := r.ReadString('\n')
			if len(line) > 0 {
				line = strings.TrimRight(line, "\r\n")
				if c.config.Verbose {
					c.logger.Info("tika server", "line", line)
				}
				if strings.Contains(line, ReadyBanner) {
					done <- nil
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					done <- newError(KindNetwork, "start", target, ErrServerNotReady)
				} else {
					done <- newError(KindIO, "start", target, err)
				}
				return
			}
		}
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return newError(KindNetwork, "start", target, ctx.Err())
	}
}

// StopServer terminates the managed server and waits for it to exit.
// Calling it with no process present succeeds trivially. Even when
// termination fails, the process handle is cleared; the supervisor does
// not retry.
func (c *Client) StopServer() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *Client) stopLocked() error {
	if c.srv == nil {
		return nil
	}
	srv := c.srv
	c.srv = nil
	c.state = stateStopping
	defer func() { c.state = stateNoProcess }()

	pid := srv.cmd.Process.Pid

	var stopErr error
	if err := srv.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		stopErr = newError(KindIO, "stop", srv.cmd.Path, err)
	}

	stopTimeout := c.config.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}

	select {
	case <-srv.done:
	case <-time.After(stopTimeout):
		_ = srv.cmd.Process.Kill()
		<-srv.done
	}

	if srv.stdout != nil {
		_ = srv.stdout.Close()
	}

	c.logger.Debug("tika server stopped", "pid", pid)
	return stopErr
}

// RestartServer stops the managed server, rebinding it to newAddr when
// one is supplied, then starts it again. The endpoint is re-derived
// wholesale from the new address.
func (c *Client) RestartServer(ctx context.Context, newAddr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mode.Managed() {
		return newError(KindConfig, "restart", c.endpoint.String(), ErrRemoteOnly)
	}
	if err := c.stopLocked(); err != nil {
		return err
	}
	if newAddr != "" {
		mode, err := ManagedLocal(newAddr)
		if err != nil {
			return err
		}
		c.mode = mode
		c.endpoint = mode.Endpoint()
	}
	return c.startLocked(ctx)
}

// ServerLive reports whether a locally managed server process is
// running. Remote-only clients always report false; use Ping for
// endpoint-level liveness.
func (c *Client) ServerLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.srv != nil && c.state == stateReady && !c.srv.exited()
}

// ServerOutput returns the captured stdout of the managed server. It is
// non-nil only while a silent-mode server is live; verbose servers
// write to the parent's stdout directly.
func (c *Client) ServerOutput() io.Reader {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.srv == nil {
		return nil
	}
	return c.srv.stdout
}

// Close releases the client, stopping any managed server. A stop
// failure during teardown is logged, never propagated, so Close is safe
// on every exit path.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stopLocked(); err != nil {
		c.logger.Error("stopping tika server during close", "error", err)
	}
	return nil
}
