package webflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// Item is a record of a collection, an opaque id plus field-slug keyed data.
type Item struct {
	ID        string         `json:"id"`
	FieldData map[string]any `json:"fieldData"`
}

// Name returns the trimmed value of the item's name field.
func (i Item) Name() string {
	name, _ := i.FieldData["name"].(string)
	return strings.TrimSpace(name)
}

type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type ItemList struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// decodeItem handles both response shapes the api produces for single
// items: a bare item object or an items array wrapping one.
func decodeItem(body []byte) (*Item, error) {
	var list ItemList
	if err := json.Unmarshal(body, &list); err == nil && len(list.Items) > 0 {
		return &list.Items[0], nil
	}

	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem adds a new item to the collection and returns it.
func (c *Client) CreateItem(ctx context.Context, collectionID string, fields map[string]any) (*Item, error) {
	ctx, span := tracer.Start(ctx, "CreateItem")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"items": []map[string]any{{"fieldData": fields}},
		}).
		Post(fmt.Sprintf("%s/collections/%s/items", c.baseUrl, collectionID))
	if err != nil {
		span.SetStatus(codes.Error, "create request failed")
		return nil, err
	}
	if err := responseError(res); err != nil {
		span.SetStatus(codes.Error, "create rejected")
		return nil, err
	}

	return decodeItem(res.Body())
}

// GetItem fetches a single item by id.
func (c *Client) GetItem(ctx context.Context, collectionID, itemID string) (*Item, error) {
	ctx, span := tracer.Start(ctx, "GetItem")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/collections/%s/items/%s", c.baseUrl, collectionID, itemID))
	if err != nil {
		span.SetStatus(codes.Error, "get request failed")
		return nil, err
	}
	if err := responseError(res); err != nil {
		span.SetStatus(codes.Error, "get rejected")
		return nil, err
	}

	return decodeItem(res.Body())
}

// GetItems fetches one page of the collection.
func (c *Client) GetItems(ctx context.Context, collectionID string, limit, offset int) (ItemList, error) {
	ctx, span := tracer.Start(ctx, "GetItems")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("offset", strconv.Itoa(offset)).
		Get(fmt.Sprintf("%s/collections/%s/items", c.baseUrl, collectionID))
	if err != nil {
		span.SetStatus(codes.Error, "list request failed")
		return ItemList{}, err
	}
	if err := responseError(res); err != nil {
		span.SetStatus(codes.Error, "list rejected")
		return ItemList{}, err
	}

	var list ItemList
	if err := json.Unmarshal(res.Body(), &list); err != nil {
		return ItemList{}, err
	}
	return list, nil
}

// UpdateItem merges the given fields over the item's current field data
// (new fields win) and applies the result. The api has accepted two
// different patch shapes over time, so they are tried in order; a shape
// is only retried on a client error. The last error is returned when
// every shape fails.
func (c *Client) UpdateItem(ctx context.Context, collectionID, itemID string, fields map[string]any) (*Item, error) {
	ctx, span := tracer.Start(ctx, "UpdateItem")
	defer span.End()

	existing, err := c.GetItem(ctx, collectionID, itemID)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch existing item")
		return nil, err
	}

	merged := map[string]any{}
	for k, v := range existing.FieldData {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	attempts := []struct {
		name string
		body map[string]any
	}{
		{"fieldData", map[string]any{"fieldData": merged}},
		{"items array", map[string]any{
			"items": []map[string]any{{"id": itemID, "fieldData": merged}},
		}},
	}

	var lastErr error
	for _, attempt := range attempts {
		res, err := c.Http.R().
			SetContext(ctx).
			SetBody(attempt.body).
			Patch(fmt.Sprintf("%s/collections/%s/items/%s", c.baseUrl, collectionID, itemID))
		if err != nil {
			span.SetStatus(codes.Error, "update request failed")
			return nil, err
		}
		if err := responseError(res); err != nil {
			lastErr = err

			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.IsClientError() {
				slog.WarnContext(
					ctx, "update shape rejected, trying next",
					"shape", attempt.name,
					"status", apiErr.StatusCode,
				)
				continue
			}
			span.SetStatus(codes.Error, "update rejected")
			return nil, err
		}

		return decodeItem(res.Body())
	}

	span.SetStatus(codes.Error, "every update shape rejected")
	return nil, lastErr
}

// FindItemByName pages through the collection until an item whose name
// field matches (trimmed, exact) is found. Exhausting the collection or
// hitting an error both report "not found", never an error.
func (c *Client) FindItemByName(ctx context.Context, collectionID, name string) *Item {
	ctx, span := tracer.Start(ctx, "FindItemByName")
	defer span.End()

	name = strings.TrimSpace(name)
	limit := 100
	offset := 0

	for {
		list, err := c.GetItems(ctx, collectionID, limit, offset)
		if err != nil {
			slog.WarnContext(ctx, "item lookup failed, treating as not found", "name", name, "err", err)
			return nil
		}
		if len(list.Items) == 0 {
			return nil
		}

		for _, item := range list.Items {
			if item.Name() == name {
				found := item
				return &found
			}
		}

		// a short page is the end of the collection even when the
		// server omits pagination totals
		if len(list.Items) < limit {
			return nil
		}

		offset += limit
		if list.Pagination.Total != 0 && offset >= list.Pagination.Total {
			return nil
		}
	}
}
