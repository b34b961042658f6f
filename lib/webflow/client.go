package webflow

import (
	"fmt"
	"time"

	"szenesync/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("webflow")

const BaseURL = "https://api.webflow.com/v2"

// LegacyBaseURL is the previous API version, only used as a publish fallback.
const LegacyBaseURL = "https://api.webflow.com/v1"

const downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// APIError carries the upstream status and body of a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webflow api: status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

type Client struct {
	baseUrl   string
	legacyUrl string
	Http      *resty.Client
	// download fetches image binaries from third-party hosts, so it must
	// not carry the api auth headers.
	download *resty.Client
}

type ClientOptions struct {
	APIToken string
	// SiteID is required for site-scoped api tokens.
	SiteID string
	// BaseUrl/LegacyBaseUrl default to the public api, tests point them
	// at fixture servers.
	BaseUrl       string
	LegacyBaseUrl string
	// Timeout bounds every request, defaults to 30s.
	Timeout time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = BaseURL
	}
	if opts.LegacyBaseUrl == "" {
		opts.LegacyBaseUrl = LegacyBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	client := resty.New()
	client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", opts.APIToken))
	client.SetHeader("Content-Type", "application/json")
	if opts.SiteID != "" {
		client.SetHeader("X-Webflow-Site", opts.SiteID)
	}
	client.SetTimeout(opts.Timeout)
	telemetry.InstrumentResty(client, "webflow/http")

	download := resty.New()
	download.SetHeader("user-agent", downloadUserAgent)
	download.SetTimeout(opts.Timeout)
	telemetry.InstrumentResty(download, "webflow/download")

	return &Client{
		baseUrl:   opts.BaseUrl,
		legacyUrl: opts.LegacyBaseUrl,
		Http:      client,
		download:  download,
	}
}

func responseError(res *resty.Response) error {
	if res.StatusCode() >= 200 && res.StatusCode() < 300 {
		return nil
	}
	return &APIError{
		StatusCode: res.StatusCode(),
		Body:       res.String(),
	}
}
