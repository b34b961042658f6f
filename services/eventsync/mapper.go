package eventsync

import (
	"fmt"
	"regexp"
	"strings"

	"szenesync/lib/htmlutil"
	"szenesync/lib/scrapers/hessenszene"
	"szenesync/lib/textutil"
)

// DefaultPrice is used when a detail page carries no fee information.
const DefaultPrice = "Eintritt frei"

// MergedEvent pairs a listing row with its detail page. The detail may be
// the zero value when the row had no link or the detail fetch failed.
type MergedEvent struct {
	Listing hessenszene.Event
	Detail  hessenszene.Detail
}

// DisplayName prefers the detail page title over the listing name.
func (e MergedEvent) DisplayName() string {
	if title := strings.TrimSpace(e.Detail.Title); title != "" {
		return title
	}
	return strings.TrimSpace(e.Listing.Name)
}

// Category prefers the detail page category over the listing column.
func (e MergedEvent) Category() string {
	if e.Detail.Category != "" {
		return e.Detail.Category
	}
	return e.Listing.Category
}

var germanMonths = map[string]string{
	"Januar":    "01",
	"Februar":   "02",
	"März":      "03",
	"April":     "04",
	"Mai":       "05",
	"Juni":      "06",
	"Juli":      "07",
	"August":    "08",
	"September": "09",
	"Oktober":   "10",
	"November":  "11",
	"Dezember":  "12",
}

// \w does not cover umlauts, the month name needs \p{L}
var fullDateRegex = regexp.MustCompile(`(\d{1,2})\.\s*(\p{L}+)\s*(\d{4})`)
var clockTimeRegex = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// FormatEventDate builds the ISO-8601 timestamp for the date field. The
// verbose detail string ("Dienstag, 28. Oktober 2025, 18:30 Uhr") is
// preferred; when it cannot be parsed the listing date (DD.MM.YY) becomes
// a midnight timestamp. When both fail ok is false and the field is
// written as null so the cms shows no date rather than a wrong one.
func FormatEventDate(fullDateTime, listingDate string) (string, bool) {
	if fullDateTime != "" {
		clean := htmlutil.CollapseWhitespace(fullDateTime)

		date := fullDateRegex.FindStringSubmatch(clean)
		clock := clockTimeRegex.FindStringSubmatch(clean)
		if date != nil && clock != nil {
			if month, ok := germanMonths[date[2]]; ok {
				return fmt.Sprintf(
					"%s-%s-%sT%s:%s:00.000Z",
					date[3], month, pad2(date[1]), pad2(clock[1]), clock[2],
				), true
			}
		}
	}

	parts := strings.Split(listingDate, ".")
	if len(parts) == 3 && parts[0] != "" && parts[1] != "" && parts[2] != "" {
		return fmt.Sprintf(
			"20%s-%s-%sT00:00:00.000Z",
			parts[2], pad2(parts[1]), pad2(parts[0]),
		), true
	}

	return "", false
}

// FormatImageURL makes a scraped image path absolute. Already-absolute
// urls pass through untouched, empty stays empty.
func FormatImageURL(raw string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "/"):
		return hessenszene.Origin + raw
	default:
		return hessenszene.Origin + "/" + raw
	}
}

func fallbackDescription(ev MergedEvent) string {
	return fmt.Sprintf(
		"%s\n\nDatum: %s\nZeit: %s\nOrt: %s\nKategorie: %s",
		ev.DisplayName(),
		ev.Listing.Date,
		ev.Listing.Time,
		ev.Listing.Location,
		ev.Category(),
	)
}

// BuildPayload maps a merged event onto the collection's field slugs.
func BuildPayload(ev MergedEvent) map[string]any {
	name := ev.DisplayName()

	price := strings.TrimSpace(ev.Detail.Price)
	if price == "" {
		price = DefaultPrice
	}

	description := ev.Detail.Description
	if description == "" {
		description = fallbackDescription(ev)
	}

	var eventDate any
	if formatted, ok := FormatEventDate(ev.Detail.FullDateTime, ev.Listing.Date); ok {
		eventDate = formatted
	}

	return map[string]any{
		"name":           name,
		"slug":           textutil.Slugify(name),
		"uhrzeit":        ev.Listing.Time,
		"event-datum":    eventDate,
		"preis":          price,
		"eintritt-frei":  strings.Contains(strings.ToLower(price), "frei"),
		"blog-rich-text": description,
		"imageurl":       FormatImageURL(ev.Detail.ImageURL),
		"kategorie":      ev.Category(),
		"tag":            ev.Listing.DayOfWeek,
	}
}
