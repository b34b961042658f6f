package hessenszene

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

const listingFixture = `<!DOCTYPE html>
<html><body>
<table class="table">
<tbody>
<tr>
	<td>Di. 28.10.25<br>Dienstag</td>
	<td>18:30</td>
	<td><a href="/veranstaltungen?tx_events%5BeventDate%5D=4711">Jazz im G-Werk</a></td>
	<td>Trauma im
		G-Werk, Marburg</td>
	<td>Konzert</td>
</tr>
<tr>
	<td>demn&auml;chst</td>
	<td></td>
	<td><a href="/ohne-datum">Ohne Datum</a></td>
	<td>Ort</td>
	<td>Party</td>
</tr>
<tr>
	<td>29.10.25<br>Mittwoch</td>
	<td>20:00</td>
	<td></td>
	<td>Ort</td>
	<td>Kino</td>
</tr>
<tr><td>kaputt</td></tr>
</tbody>
</table>
</body></html>`

const detailFixture = `<!DOCTYPE html>
<html><body>
<h1 class="pb-2">Jazz im G-Werk – Herbstkonzert</h1>
<div class="event-single-view-datetime"><strong>Dienstag, 28. Oktober 2025,
18:30 Uhr</strong></div>
<div class="event-single-view-time"><p>Beginn: 18:30 Uhr</p></div>
<div class="event-single-view-category">Kategorie: Konzert</div>
<div class="event-single-view-contact">
	<p>Hotline: 064215555</p>
	<div class="col"><p>Veranstalter</p></div>
	<div class="col"><p>G-Werk<br>Aff&ouml;llerwiesen 3a</p></div>
</div>
<div class="single-event-image"><img src="/fileadmin/jazz.jpg" alt="Jazzb&uuml;hne"></div>
<div class="event-single-view-desc">Ein Abend voller Jazz.</div>
<div class="event-single-view-fee"><p>Eintritt frei</p></div>
</body></html>`

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingFixture))
	})
	mux.HandleFunc("/veranstaltungen", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailFixture))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(ClientOptions{
		BaseUrl: baseURL,
		Timeout: time.Second * 5,
	})
	require.NoError(t, err)
	return client
}

func TestFetchListing(t *testing.T) {
	srv := newFixtureServer(t)
	client := newTestClient(t, srv.URL)

	events, err := client.FetchListing(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	// rows without both a name and a date are filtered out
	require.Len(t, events, 1)

	want := Event{
		Date:      "28.10.25",
		DayOfWeek: "Dienstag",
		Time:      "18:30",
		Name:      "Jazz im G-Werk",
		Link:      srv.URL + "/veranstaltungen?tx_events%5BeventDate%5D=4711",
		ID:        "4711",
		Location:  "Trauma im G-Werk, Marburg",
		Category:  "Konzert",
		Venue:     Venue,
	}
	diff := cmp.Diff(want, events[0], cmpopts.IgnoreFields(Event{}, "ScrapedAt"))
	require.Empty(t, diff)
	require.False(t, events[0].ScrapedAt.IsZero())
}

func TestFetchListingStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.FetchListing(context.Background(), srv.URL+"/")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
}

func TestFetchDetail(t *testing.T) {
	srv := newFixtureServer(t)
	client := newTestClient(t, srv.URL)

	detail, err := client.FetchDetail(context.Background(), srv.URL+"/veranstaltungen?tx_events%5BeventDate%5D=4711")
	require.NoError(t, err)

	require.Equal(t, "Jazz im G-Werk – Herbstkonzert", detail.Title)
	require.Equal(t, "Dienstag, 28. Oktober 2025,\n18:30 Uhr", detail.FullDateTime)
	require.Equal(t, "Beginn: 18:30 Uhr", detail.StartTime)
	require.Equal(t, "Konzert", detail.Category)
	require.Contains(t, detail.FullLocation, "Afföllerwiesen")
	require.Equal(t, "/fileadmin/jazz.jpg", detail.ImageURL)
	require.Equal(t, "Jazzbühne", detail.ImageAlt)
	require.Equal(t, "Ein Abend voller Jazz.", detail.Description)
	require.Equal(t, "Eintritt frei", detail.Price)
	require.Equal(t, "064215555", detail.Hotline)
}

func TestFetchDetailMissingSelectors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>nichts hier</p></body></html>"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	detail, err := client.FetchDetail(context.Background(), srv.URL+"/irgendwas")
	require.NoError(t, err)
	require.Equal(t, Detail{}, detail)
}
