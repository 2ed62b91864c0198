package tika

import (
	"context"
	"net/http"
	"time"
)

// Ping probes the endpoint with a cheap GET against the server's
// greeting resource. It reports endpoint-level liveness, which is the
// only liveness a remote-only client can observe.
func (c *Client) Ping(ctx context.Context) error {
	u, err := c.EndpointURL("tika")
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return newError(KindURLParse, "ping", u.String(), err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return newError(KindNetwork, "ping", u.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus(resp, "ping")
}

// WaitLive polls the endpoint until it answers or ctx expires. Useful
// for remote endpoints that are booting outside this client's control;
// managed servers are already ready when StartServer returns.
func (c *Client) WaitLive(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return newError(KindNetwork, "wait", c.endpoint.String(), ctx.Err())
		case <-ticker.C:
		}
	}
}
