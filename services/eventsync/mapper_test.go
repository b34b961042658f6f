package eventsync

import (
	"testing"

	"szenesync/lib/scrapers/hessenszene"

	"github.com/stretchr/testify/require"
)

func TestFormatEventDate(t *testing.T) {
	cases := []struct {
		name         string
		fullDateTime string
		listingDate  string
		want         string
		ok           bool
	}{
		{
			name:         "verbose detail string",
			fullDateTime: "Dienstag, 28. Oktober 2025, 18:30 Uhr",
			listingDate:  "28.10.25",
			want:         "2025-10-28T18:30:00.000Z",
			ok:           true,
		},
		{
			name:         "detail string with line break",
			fullDateTime: "Dienstag, 28. Oktober 2025,\n18:30 Uhr",
			want:         "2025-10-28T18:30:00.000Z",
			ok:           true,
		},
		{
			name:         "umlaut month and single digits",
			fullDateTime: "Dienstag, 3. März 2026, 9:05 Uhr",
			want:         "2026-03-03T09:05:00.000Z",
			ok:           true,
		},
		{
			name:        "listing fallback is midnight",
			listingDate: "28.10.25",
			want:        "2025-10-28T00:00:00.000Z",
			ok:          true,
		},
		{
			name:         "unparsable detail falls back to listing",
			fullDateTime: "irgendwann im Herbst",
			listingDate:  "01.11.25",
			want:         "2025-11-01T00:00:00.000Z",
			ok:           true,
		},
		{
			name:         "detail without a time falls back to listing",
			fullDateTime: "Dienstag, 28. Oktober 2025",
			listingDate:  "28.10.25",
			want:         "2025-10-28T00:00:00.000Z",
			ok:           true,
		},
		{
			name: "nothing parsable",
			ok:   false,
		},
		{
			name:        "broken listing date",
			listingDate: "28.10",
			ok:          false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FormatEventDate(tc.fullDateTime, tc.listingDate)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFormatImageURL(t *testing.T) {
	require.Equal(t, "", FormatImageURL(""))
	require.Equal(t,
		"https://cdn.example.com/a.jpg",
		FormatImageURL("https://cdn.example.com/a.jpg"))
	require.Equal(t,
		hessenszene.Origin+"/fileadmin/events/a.jpg",
		FormatImageURL("/fileadmin/events/a.jpg"))
	require.Equal(t,
		hessenszene.Origin+"/fileadmin/events/a.jpg",
		FormatImageURL("fileadmin/events/a.jpg"))
}

func TestBuildPayloadFull(t *testing.T) {
	ev := MergedEvent{
		Listing: hessenszene.Event{
			Date:      "28.10.25",
			DayOfWeek: "Dienstag",
			Time:      "18:30",
			Name:      "Jazz im G-Werk",
			Location:  "Marburg",
			Category:  "Musik",
			Venue:     hessenszene.Venue,
		},
		Detail: hessenszene.Detail{
			Title:        "Jazz im G-Werk – Herbstkonzert",
			FullDateTime: "Dienstag, 28. Oktober 2025, 18:30 Uhr",
			Category:     "Konzert",
			ImageURL:     "/fileadmin/events/jazz.jpg",
			Description:  "Ein Abend voller Jazz.",
			Price:        "12 €",
		},
	}

	payload := BuildPayload(ev)
	require.Equal(t, "Jazz im G-Werk – Herbstkonzert", payload["name"])
	require.Equal(t, "jazz-im-g-werk-herbstkonzert", payload["slug"])
	require.Equal(t, "18:30", payload["uhrzeit"])
	require.Equal(t, "2025-10-28T18:30:00.000Z", payload["event-datum"])
	require.Equal(t, "12 €", payload["preis"])
	require.Equal(t, false, payload["eintritt-frei"])
	require.Equal(t, "Ein Abend voller Jazz.", payload["blog-rich-text"])
	require.Equal(t, hessenszene.Origin+"/fileadmin/events/jazz.jpg", payload["imageurl"])
	require.Equal(t, "Konzert", payload["kategorie"])
	require.Equal(t, "Dienstag", payload["tag"])
}

func TestBuildPayloadDefaults(t *testing.T) {
	ev := MergedEvent{
		Listing: hessenszene.Event{
			Date:      "01.11.25",
			DayOfWeek: "Samstag",
			Time:      "20:00",
			Name:      "Offene Bühne",
			Location:  "Marburg",
			Category:  "Kleinkunst",
		},
	}

	payload := BuildPayload(ev)
	require.Equal(t, "Offene Bühne", payload["name"])
	require.Equal(t, DefaultPrice, payload["preis"])
	require.Equal(t, true, payload["eintritt-frei"])
	require.Equal(t, "2025-11-01T00:00:00.000Z", payload["event-datum"])
	require.Equal(t, "", payload["imageurl"])
	require.Equal(t, "Kleinkunst", payload["kategorie"])
	require.Equal(t,
		"Offene Bühne\n\nDatum: 01.11.25\nZeit: 20:00\nOrt: Marburg\nKategorie: Kleinkunst",
		payload["blog-rich-text"])
}

func TestBuildPayloadFreeFlagFromExplicitPrice(t *testing.T) {
	ev := MergedEvent{
		Listing: hessenszene.Event{Name: "Stadtfest", Date: "02.05.26"},
		Detail:  hessenszene.Detail{Price: "Eintritt frei!"},
	}
	payload := BuildPayload(ev)
	require.Equal(t, "Eintritt frei!", payload["preis"])
	require.Equal(t, true, payload["eintritt-frei"])
}

func TestBuildPayloadNullDateWhenUnparsable(t *testing.T) {
	ev := MergedEvent{
		Listing: hessenszene.Event{Name: "Irgendwas"},
	}
	payload := BuildPayload(ev)
	require.Nil(t, payload["event-datum"])
}
