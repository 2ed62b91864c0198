// Package tika provides a native Go client for the Apache Tika server,
// including full lifecycle management of a locally supervised server
// process.
//
// The core functionality centers around the Client type. A remote-only
// client issues requests against an endpoint somebody else runs:
//
//	client, err := tika.NewRemote("http://localhost:9998")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mime, err := client.DetectMime(context.Background(), file)
//
// # Managed Servers
//
// A managed client owns a local server process: it resolves where the
// server artifact comes from (a configured jar, a system-installed
// executable, or a fresh download), spawns it bound to a chosen
// address, and watches the child's log stream for the readiness banner
// before returning:
//
//	client, err := tika.NewManaged("127.0.0.1:9998")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.StartServer(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := client.Tika(ctx, document)
//
// StartServer blocks until the server is ready; bound the wait with a
// context deadline or the WithStartTimeout option. Close tears the
// server down and never propagates stop failures, so it is safe to
// defer unconditionally.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - Deterministic artifact resolution (configured pointer beats
//     system executable beats download, always in that order)
//   - No internal retries anywhere; recovery policy belongs to the caller
//   - Typed, classified errors (Kind) so callers can react to
//     configuration, I/O, network, and parse failures differently
//   - One HTTP round trip per operation
//
// Request operations are safe for concurrent use once the endpoint is
// established. Server lifecycle operations are serialized internally.
package tika
