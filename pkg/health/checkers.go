package health

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// HTTPGetCheck returns a CheckFunc that performs a GET against url and
// reports unavailable on transport failure or a 5xx status. 4xx statuses
// count as available: the endpoint answered, it just rejected the probe.
func HTTPGetCheck(client *http.Client, url string) CheckFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "build probe request")
		}

		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "probe")
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

		if resp.StatusCode >= 500 {
			return errors.Errorf("probe returned status %d", resp.StatusCode)
		}
		return nil
	}
}
