package tika

import (
	"errors"
	"net/netip"
	"net/url"
)

// modeKind tags the operating mode
type modeKind int

const (
	// modeManagedLocal spawns and supervises a local server process
	modeManagedLocal modeKind = iota
	// modeRemoteOnly issues requests against a pre-existing endpoint
	modeRemoteOnly
)

// Mode determines whether the client owns a local server process bound
// to a chosen address, or only talks to an already running endpoint.
// A Mode is immutable; RestartServer replaces it wholesale when a new
// bind address is supplied.
type Mode struct {
	kind modeKind
	addr netip.AddrPort
	url  *url.URL
}

// ManagedLocal returns a Mode in which the client spawns a local server
// bound to addr, given as "host:port".
func ManagedLocal(addr string) (Mode, error) {
	ap, err := netip.ParseAddrPort(addr)
	if err != nil {
		return Mode{}, newError(KindAddrParse, "parse address", addr, err)
	}
	return Mode{kind: modeManagedLocal, addr: ap}, nil
}

// RemoteOnly returns a Mode in which the client only issues requests
// against endpoint and never owns a process.
func RemoteOnly(endpoint string) (Mode, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return Mode{}, newError(KindURLParse, "parse endpoint", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Mode{}, newError(KindURLParse, "parse endpoint", endpoint,
			errors.New("endpoint requires a scheme and host"))
	}
	return Mode{kind: modeRemoteOnly, url: u}, nil
}

// DefaultMode returns the default operating mode: a managed local
// server bound to DefaultBindAddress.
func DefaultMode() Mode {
	return Mode{
		kind: modeManagedLocal,
		addr: netip.MustParseAddrPort(DefaultBindAddress),
	}
}

// Managed reports whether the client owns the server process.
func (m Mode) Managed() bool {
	return m.kind == modeManagedLocal
}

// BindAddr returns the local bind address. It is the zero AddrPort for
// remote-only modes.
func (m Mode) BindAddr() netip.AddrPort {
	return m.addr
}

// Endpoint derives the base URL for all HTTP operations. The URL is
// rebuilt wholesale; scheme, host, and port are never updated
// individually.
func (m Mode) Endpoint() *url.URL {
	if m.kind == modeRemoteOnly {
		u := *m.url
		return &u
	}
	return &url.URL{Scheme: "http", Host: m.addr.String()}
}
