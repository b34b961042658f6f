package webflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// UploadImage downloads the binary at imageURL and uploads it as a named
// asset, returning the asset id. Every call produces a new asset, there
// is no dedup.
func (c *Client) UploadImage(ctx context.Context, imageURL, filename string) (string, error) {
	ctx, span := tracer.Start(ctx, "UploadImage")
	defer span.End()

	res, err := c.download.R().
		SetContext(ctx).
		Get(imageURL)
	if err != nil {
		span.SetStatus(codes.Error, "image download failed")
		return "", err
	}
	if err := responseError(res); err != nil {
		span.SetStatus(codes.Error, "image download rejected")
		return "", err
	}

	mimeType := res.Header().Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	uploadRes, err := c.Http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"fileName": filename,
			"fileData": base64.StdEncoding.EncodeToString(res.Body()),
			"mimeType": mimeType,
		}).
		Post(fmt.Sprintf("%s/assets", c.baseUrl))
	if err != nil {
		span.SetStatus(codes.Error, "asset upload failed")
		return "", err
	}
	if err := responseError(uploadRes); err != nil {
		span.SetStatus(codes.Error, "asset upload rejected")
		return "", err
	}

	var asset struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(uploadRes.Body(), &asset); err != nil {
		return "", err
	}
	return asset.ID, nil
}
