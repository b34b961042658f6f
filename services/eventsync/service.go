package eventsync

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"time"

	"szenesync/lib/scrapers/hessenszene"
	"szenesync/lib/textutil"
	"szenesync/lib/webflow"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/eventsync")

// ConfigError reports a missing required config value.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required config value: %s", e.Field)
}

type Config struct {
	// SourceURL is the listing page to scrape.
	SourceURL string `json:"source_url"`
	// CollectionID is the cms collection the events are synced into.
	CollectionID string `json:"collection_id"`
	APIToken     string `json:"api_token"`
	SiteID       string `json:"site_id"`
	// AutoPublish publishes freshly created items, updates stay drafts
	// until the next site publish.
	AutoPublish bool `json:"auto_publish"`
	// UploadImages mirrors scraped event images into the asset library.
	UploadImages bool `json:"upload_images"`
	// DelayMs is slept after every detail fetch and every item write,
	// 0 means the default of 1000.
	DelayMs int `json:"delay_ms"`
}

func (c Config) Validate() error {
	if c.SourceURL == "" {
		return &ConfigError{Field: "source_url"}
	}
	if c.CollectionID == "" {
		return &ConfigError{Field: "collection_id"}
	}
	if c.APIToken == "" {
		return &ConfigError{Field: "api_token"}
	}
	return nil
}

// EventResult is the per-event line of a sync report.
type EventResult struct {
	Name   string `json:"name"`
	ItemID string `json:"itemId,omitempty"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionFailed  = "failed"
)

type Report struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Failed  int           `json:"failed"`
	Events  []EventResult `json:"events"`
}

type Service struct {
	config  Config
	scraper *hessenszene.Client
	webflow *webflow.Client
	delay   time.Duration
}

func NewService(config Config, scraper *hessenszene.Client, wf *webflow.Client) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	delayMs := config.DelayMs
	if delayMs == 0 {
		delayMs = 1000
	}

	return &Service{
		config:  config,
		scraper: scraper,
		webflow: wf,
		delay:   time.Duration(delayMs) * time.Millisecond,
	}, nil
}

// RunSync scrapes the listing, enriches each row with its detail page and
// pushes every event into the collection, creating or updating by name.
// A failing event is recorded in the report and never aborts the rest;
// only a failing listing fetch aborts the whole run.
func (s *Service) RunSync(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "RunSync")
	defer span.End()

	listing, err := s.scraper.FetchListing(ctx, s.config.SourceURL)
	if err != nil {
		span.SetStatus(codes.Error, "listing fetch failed")
		return Report{}, err
	}
	slog.InfoContext(ctx, "scraped listing", "events", len(listing))

	merged := make([]MergedEvent, 0, len(listing))
	for _, event := range listing {
		ev := MergedEvent{Listing: event}
		if event.Link != "" {
			detail, err := s.scraper.FetchDetail(ctx, event.Link)
			if err != nil {
				// listing data alone is still enough to sync the event
				slog.WarnContext(ctx, "detail fetch failed, syncing listing data only",
					"event", event.Name, "err", err)
			} else {
				ev.Detail = detail
			}
			time.Sleep(s.delay)
		}
		merged = append(merged, ev)
	}

	report := Report{Total: len(merged)}
	for _, ev := range merged {
		result := s.syncEvent(ctx, ev)
		report.Events = append(report.Events, result)
		switch result.Action {
		case ActionCreated:
			report.Created++
		case ActionUpdated:
			report.Updated++
		default:
			report.Failed++
		}
		time.Sleep(s.delay)
	}

	slog.InfoContext(ctx, "sync finished",
		"total", report.Total,
		"created", report.Created,
		"updated", report.Updated,
		"failed", report.Failed)
	return report, nil
}

func (s *Service) syncEvent(ctx context.Context, ev MergedEvent) EventResult {
	ctx, span := tracer.Start(ctx, "syncEvent")
	defer span.End()

	name := ev.DisplayName()
	payload := BuildPayload(ev)

	if s.config.UploadImages && ev.Detail.ImageURL != "" {
		imageURL := FormatImageURL(ev.Detail.ImageURL)
		assetID, err := s.webflow.UploadImage(ctx, imageURL, assetFilename(name, imageURL))
		if err != nil {
			// the hotlinked imageurl field still points at the original
			slog.WarnContext(ctx, "image upload failed", "event", name, "err", err)
		} else {
			payload["event-bild"] = assetID
		}
	}

	existing := s.webflow.FindItemByName(ctx, s.config.CollectionID, name)
	if existing != nil {
		item, err := s.webflow.UpdateItem(ctx, s.config.CollectionID, existing.ID, payload)
		if err != nil {
			span.SetStatus(codes.Error, "update failed")
			slog.ErrorContext(ctx, "failed to update item", "event", name, "err", err)
			return EventResult{Name: name, ItemID: existing.ID, Action: ActionFailed, Error: err.Error()}
		}
		slog.InfoContext(ctx, "updated item", "event", name, "item", item.ID)
		return EventResult{Name: name, ItemID: item.ID, Action: ActionUpdated}
	}

	item, err := s.webflow.CreateItem(ctx, s.config.CollectionID, payload)
	if err != nil {
		span.SetStatus(codes.Error, "create failed")
		slog.ErrorContext(ctx, "failed to create item", "event", name, "err", err)
		return EventResult{Name: name, Action: ActionFailed, Error: err.Error()}
	}
	slog.InfoContext(ctx, "created item", "event", name, "item", item.ID)

	if s.config.AutoPublish {
		if err := s.webflow.PublishItem(ctx, s.config.CollectionID, item.ID); err != nil {
			// the item exists, it just stays a draft
			slog.WarnContext(ctx, "created item but publish failed", "event", name, "err", err)
		}
	}

	return EventResult{Name: name, ItemID: item.ID, Action: ActionCreated}
}

// assetFilename builds a unique asset name so repeated syncs never
// collide in the asset library.
func assetFilename(name, imageURL string) string {
	ext := ".jpg"
	if parsed, err := url.Parse(imageURL); err == nil {
		if e := path.Ext(parsed.Path); e != "" {
			ext = e
		}
	}

	slug := textutil.Slugify(name)
	if slug == "" {
		slug = "event"
	}
	return slug + "-" + uuid.NewString() + ext
}
