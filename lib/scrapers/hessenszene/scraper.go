package hessenszene

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"szenesync/lib/htmlutil"
	"szenesync/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/hessenszene")

// Origin is the base origin of hessen-szene.de, relative event links and
// image paths are resolved against it.
const Origin = "https://www.hessen-szene.de"

// Venue is attached to every scraped listing row.
const Venue = "trauma im g-werk"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// FetchError reports that a page could not be retrieved at all, as opposed
// to retrieved-but-partially-unparsable which degrades to empty fields.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Event is one row of the listing table.
type Event struct {
	Date      string // DD.MM.YY
	DayOfWeek string
	Time      string
	Name      string
	Link      string // absolute detail page url, may be empty
	ID        string // numeric id from the detail link, may be empty
	Location  string
	Category  string
	Venue     string
	ScrapedAt time.Time
}

// Detail holds the supplementary fields of a detail page. Every field
// defaults to the empty string when its selector finds no match.
type Detail struct {
	Title        string
	FullDateTime string
	StartTime    string
	Category     string
	FullLocation string // html fragment
	ImageURL     string
	ImageAlt     string
	Description  string
	Price        string
	Hotline      string
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to Origin. Tests point it at a fixture server.
	BaseUrl string
	// Timeout bounds every request, defaults to 30s.
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = Origin
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/hessenszene/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

var listingDateRegex = regexp.MustCompile(`\d{2}\.\d{2}\.\d{2}`)
var eventIdRegex = regexp.MustCompile(`eventDate%5D=(\d+)`)

// FetchListing retrieves the listing page and parses the event table into
// document order. Rows without both a name and a date are skipped; a
// malformed row never aborts the remaining rows.
func (c *Client) FetchListing(ctx context.Context, pageURL string) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "FetchListing")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch listing")
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		span.SetStatus(codes.Error, "listing returned non-2xx")
		return nil, &FetchError{URL: pageURL, StatusCode: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse listing html")
		return nil, err
	}

	scrapedAt := time.Now().UTC()

	var events []Event
	doc.Find("table.table tbody tr").Each(func(i int, row *goquery.Selection) {
		event, ok := c.parseRow(ctx, i, row, scrapedAt)
		if !ok {
			return
		}
		events = append(events, event)
	})

	return events, nil
}

func (c *Client) parseRow(ctx context.Context, index int, row *goquery.Selection, scrapedAt time.Time) (Event, bool) {
	cells := row.Find("td")
	if cells.Length() < 5 {
		slog.WarnContext(ctx, "skipping malformed listing row", "row", index, "cells", cells.Length())
		return Event{}, false
	}

	dateCell := cells.Eq(0)
	date := listingDateRegex.FindString(dateCell.Text())

	dayOfWeek := ""
	br := dateCell.Find("br").First()
	if len(br.Nodes) > 0 {
		dayOfWeek = htmlutil.TextAfterNode(br.Nodes[0])
	}

	anchor := cells.Eq(2).Find("a").First()
	name := strings.TrimSpace(anchor.Text())
	href := anchor.AttrOr("href", "")

	link := ""
	id := ""
	if href != "" {
		ref, err := url.Parse(href)
		if err == nil {
			link = c.BaseUrl.ResolveReference(ref).String()
		} else {
			slog.WarnContext(ctx, "skipping unparsable event link", "row", index, "href", href)
		}
		groups := eventIdRegex.FindStringSubmatch(href)
		if len(groups) == 2 {
			id = groups[1]
		}
	}

	// a row only counts as an event when it carries both a name and a date
	if name == "" || date == "" {
		return Event{}, false
	}

	return Event{
		Date:      date,
		DayOfWeek: dayOfWeek,
		Time:      strings.TrimSpace(cells.Eq(1).Text()),
		Name:      name,
		Link:      link,
		ID:        id,
		Location:  htmlutil.CollapseWhitespace(cells.Eq(3).Text()),
		Category:  strings.TrimSpace(cells.Eq(4).Text()),
		Venue:     Venue,
		ScrapedAt: scrapedAt,
	}, true
}

var hotlineRegex = regexp.MustCompile(`Hotline: (\d+)`)

// FetchDetail retrieves one detail page. Missing selectors are not errors,
// the corresponding fields simply stay empty.
func (c *Client) FetchDetail(ctx context.Context, detailURL string) (Detail, error) {
	ctx, span := tracer.Start(ctx, "FetchDetail")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(detailURL)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch detail page")
		return Detail{}, &FetchError{URL: detailURL, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		span.SetStatus(codes.Error, "detail page returned non-2xx")
		return Detail{}, &FetchError{URL: detailURL, StatusCode: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse detail html")
		return Detail{}, err
	}

	image := doc.Find(".single-event-image img").First()
	fullLocation, _ := doc.Find(".event-single-view-contact .col:last-child p").Html()

	hotline := ""
	groups := hotlineRegex.FindStringSubmatch(doc.Find(".event-single-view-contact p").Text())
	if len(groups) == 2 {
		hotline = groups[1]
	}

	return Detail{
		Title:        strings.TrimSpace(doc.Find("h1.pb-2").Text()),
		FullDateTime: strings.TrimSpace(doc.Find(".event-single-view-datetime strong").Text()),
		StartTime:    strings.TrimSpace(doc.Find(".event-single-view-time p").Text()),
		Category:     strings.TrimSpace(strings.ReplaceAll(doc.Find(".event-single-view-category").Text(), "Kategorie:", "")),
		FullLocation: fullLocation,
		ImageURL:     image.AttrOr("src", ""),
		ImageAlt:     image.AttrOr("alt", ""),
		Description:  strings.TrimSpace(doc.Find(".event-single-view-desc").Text()),
		Price:        strings.TrimSpace(doc.Find(".event-single-view-fee p").Text()),
		Hotline:      hotline,
	}, nil
}
