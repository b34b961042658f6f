package webflow

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

type Field struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Type       string `json:"type"`
	IsRequired bool   `json:"isRequired"`
}

type Collection struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// GetCollection fetches the collection schema (field definitions).
func (c *Client) GetCollection(ctx context.Context, collectionID string) (*Collection, error) {
	ctx, span := tracer.Start(ctx, "GetCollection")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/collections/%s", c.baseUrl, collectionID))
	if err != nil {
		span.SetStatus(codes.Error, "schema request failed")
		return nil, err
	}
	if err := responseError(res); err != nil {
		span.SetStatus(codes.Error, "schema rejected")
		return nil, err
	}

	var collection Collection
	if err := json.Unmarshal(res.Body(), &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}
