package tika

import (
	"errors"
	"net/netip"
	"strconv"
)

// buildInvocation constructs the executable path and arguments for a
// resolved artifact bound to addr. System executables run directly;
// jar artifacts run through the Java runtime with a classpath argument
// followed by the server entry point. Host and port arguments are
// appended in both cases.
func buildInvocation(cfg *Config, loc Location, addr netip.AddrPort) (string, []string, error) {
	hostPort := []string{
		"--host", addr.Addr().String(),
		"--port", strconv.Itoa(int(addr.Port())),
	}

	switch loc.Source {
	case SourceSystem:
		return loc.Path, hostPort, nil

	case SourceEnvironment, SourceDownloaded:
		args := make([]string, 0, 3+len(hostPort))
		args = append(args, "-cp", loc.Path, ServerEntryClass)
		args = append(args, hostPort...)
		return cfg.JavaPath, args, nil

	default:
		return "", nil, newError(KindConfig, "start", loc.Path,
			errors.New("artifact location is not runnable"))
	}
}
