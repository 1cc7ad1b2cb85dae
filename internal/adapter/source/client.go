package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"valutatrade-hub/internal/domain/model"
)

// fetchJSON issues one GET and decodes the body into out, classifying
// failures by layer: transport and non-2xx problems are unavailability,
// HTTP 429 is rate limiting, an undecodable body is malformed data.
func fetchJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: HTTP 429", model.ErrSourceRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d", model.ErrSourceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceMalformed, err)
	}

	return nil
}
