package tika

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// downloadArtifact fetches the artifact at loc.URL into the storage
// directory under its deterministic file name and returns the
// SourceDownloaded location plus the number of bytes written. The write
// is atomic: a partially transferred artifact never lands at the final
// path. One attempt only; retry policy belongs to the caller.
func (c *Client) downloadArtifact(ctx context.Context, loc Location) (Location, int64, error) {
	dest := filepath.Join(c.config.StorageDir, artifactFileName(c.config.Version))

	if err := os.MkdirAll(c.config.StorageDir, DirMode); err != nil {
		return Location{}, 0, newError(KindIO, "download", c.config.StorageDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URL, nil)
	if err != nil {
		return Location{}, 0, newError(KindURLParse, "download", loc.URL, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Location{}, 0, newError(KindNetwork, "download", loc.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Location{}, 0, newError(KindNetwork, "download", loc.URL,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	pending, err := renameio.TempFile("", dest)
	if err != nil {
		return Location{}, 0, newError(KindIO, "download", dest, err)
	}
	defer func() { _ = pending.Cleanup() }()

	written, err := io.Copy(pending, resp.Body)
	if err != nil {
		// A path error came from the disk side of the copy; anything
		// else is the response body stream.
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return Location{}, 0, newError(KindIO, "download", dest, err)
		}
		return Location{}, 0, newError(KindNetwork, "download", loc.URL, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return Location{}, 0, newError(KindIO, "download", dest, err)
	}

	c.logger.Debug("tika server artifact downloaded",
		"url", loc.URL, "path", dest, "bytes", written)

	return Location{Source: SourceDownloaded, Path: dest}, written, nil
}
