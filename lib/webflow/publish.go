package webflow

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
)

// PublishItem requests publication of an item. Older sites only accept the
// publish call on the previous api version, so the bases are tried in
// order; the last error is returned when both reject.
func (c *Client) PublishItem(ctx context.Context, collectionID, itemID string) error {
	ctx, span := tracer.Start(ctx, "PublishItem")
	defer span.End()

	bases := []string{c.baseUrl, c.legacyUrl}

	var lastErr error
	for i, base := range bases {
		res, err := c.Http.R().
			SetContext(ctx).
			SetBody(map[string]any{}).
			Post(fmt.Sprintf("%s/collections/%s/items/%s/publish", base, collectionID, itemID))
		if err != nil {
			lastErr = err
			continue
		}
		if err := responseError(res); err != nil {
			lastErr = err
			if i < len(bases)-1 {
				slog.WarnContext(ctx, "publish rejected, trying previous api version", "err", err)
			}
			continue
		}
		return nil
	}

	span.SetStatus(codes.Error, "publish rejected on every api version")
	return lastErr
}
