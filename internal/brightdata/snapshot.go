package brightdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ssemenov/jobscout/internal/util"

	"go.uber.org/zap"
)

const (
	snapshotPath = "/datasets/v3/snapshot"
)

// WaitForSnapshot polls the snapshot endpoint at a fixed interval until the
// provider reports the collection as ready and returns the collected listings.
// 202 means the snapshot is still building; any other non-200 status aborts the
// wait. The context bounds the whole wait, including an optional deadline set
// by the caller.
func (c *Client) WaitForSnapshot(ctx context.Context, snapshotID string) (*Listings, error) {
	apiURLSnapshot := fmt.Sprintf("%s%s/%s", c.APIURL, snapshotPath, snapshotID)
	q := url.Values{}
	q.Set("format", "json")

	c.logger.Info("polling snapshot", zap.String("snapshot_id", snapshotID))

	for {
		status, body, err := c.get(ctx, apiURLSnapshot, q)
		if err != nil {
			return nil, fmt.Errorf("snapshot request: %w", err)
		}

		switch status {
		case http.StatusOK:
			var items []Listing
			if err := json.Unmarshal(body, &items); err != nil {
				return nil, fmt.Errorf("decode snapshot: %w", err)
			}

			c.logger.Info("snapshot is ready",
				zap.String("snapshot_id", snapshotID),
				zap.Int("count", len(items)),
			)

			return &Listings{Items: items}, nil
		case http.StatusAccepted:
			c.logger.Info("snapshot not ready yet",
				zap.String("snapshot_id", snapshotID),
				zap.Duration("retry_in", c.PollInterval),
			)

			if err := util.WaitFor(ctx, c.PollInterval); err != nil {
				return nil, fmt.Errorf("waiting for snapshot: %w", err)
			}
		default:
			return nil, fmt.Errorf("snapshot polling failed: status %d: %s", status, util.TruncateForLog(string(body), 200))
		}
	}
}
