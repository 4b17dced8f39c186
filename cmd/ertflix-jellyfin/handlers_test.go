package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/doingodswork/ertflix-jellyfin/pkg/catalog"
	"github.com/doingodswork/ertflix-jellyfin/pkg/ertflix"
	"github.com/doingodswork/ertflix-jellyfin/pkg/jellyfin"
)

var testIdentity = jellyfin.Identity{
	ServerID:     "server-id",
	ServerName:   "Ertflix Adapter",
	LocalAddress: "http://localhost:25860",
	UserName:     "ertflix",
}

const (
	testPageContent = `{
		"sectionContents": [
			{"sectionId": 11, "toplistCodename": "ert-oles-oi-tainies", "tilesIds": [{"id": "1", "codename": "movieA", "originEntityId": 100}]},
			{"sectionId": 12},
			{"sectionId": 13, "toplistCodename": "ert-seires-plereis", "tilesIds": [{"id": "2", "codename": "showB", "originEntityId": 200}]}
		]
	}`
	testTiles = `[
		{"id": "1", "codename": "movieA", "originEntityId": 100, "title": "Movie A", "year": 2020},
		{"id": "2", "codename": "showB", "originEntityId": 200}
	]`
)

// newTestUpstream creates an ERTFLIX API fake that serves the page content and answers tile requests with the given tiles.
func newTestUpstream(t *testing.T, pageContent, tiles string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/InsysGoPage/GetPageContent":
			w.Write([]byte(pageContent))
		case "/v2/Tile/GetTiles":
			var req struct {
				RequestedTiles []struct {
					ID string `json:"id"`
				} `json:"requestedTiles"`
			}
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &req))
			// Only respond with the requested tiles
			result := []json.RawMessage{}
			for _, requested := range req.RequestedTiles {
				for _, tile := range gjson.Parse(tiles).Array() {
					if tile.Get("id").String() == requested.ID {
						result = append(result, json.RawMessage(tile.Raw))
					}
				}
			}
			resBody, err := json.Marshal(result)
			require.NoError(t, err)
			w.Write(resBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestApp(t *testing.T, upstreamURL string) *fiber.App {
	opts := ertflix.DefaultClientOpts
	opts.BaseURL = upstreamURL
	opts.MaxRetries = 0
	client, err := ertflix.NewClient(opts, zap.NewNop())
	require.NoError(t, err)
	service, err := catalog.NewService(client, catalog.DefaultOptions, nil, zap.NewNop())
	require.NoError(t, err)
	return newApp(service, testIdentity, zap.NewNop())
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, "http://localhost:1")
	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "OK", body)
}

func TestMoviesHandler(t *testing.T) {
	upstream := newTestUpstream(t, testPageContent, testTiles)
	defer upstream.Close()
	app := newTestApp(t, upstream.URL)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/movies", nil))
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[{"id": "1", "title": "Movie A", "year": 2020, "genre": [], "description": ""}]`, body)
}

func TestTVShowsHandler(t *testing.T) {
	upstream := newTestUpstream(t, testPageContent, testTiles)
	defer upstream.Close()
	app := newTestApp(t, upstream.URL)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/tv", nil))
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[{"id": "2", "title": "showB", "seasons": []}]`, body)
}

func TestPipelineFailures(t *testing.T) {
	tests := []struct {
		name        string
		pageContent string
		path        string
	}{
		{"decode error", `{"foo": "bar"}`, "/movies"},
		{"section not found", `{"sectionContents": [{"sectionId": 1, "toplistCodename": "foo", "tilesIds": [{"id": "1"}]}]}`, "/tv"},
		{"empty section", `{"sectionContents": [{"sectionId": 1, "toplistCodename": "ert-oles-oi-tainies"}]}`, "/movies"},
		{"collections decode error", `[`, "/UserViews"},
		{"collection entries not found", `{"sectionContents": []}`, "/Items?ParentId=5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newTestUpstream(t, tt.pageContent, testTiles)
			defer upstream.Close()
			app := newTestApp(t, upstream.URL)

			status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusInternalServerError, status)
			require.Empty(t, body)
		})
	}
}

func TestUpstreamUnreachable(t *testing.T) {
	upstream := newTestUpstream(t, testPageContent, testTiles)
	upstreamURL := upstream.URL
	upstream.Close()
	app := newTestApp(t, upstreamURL)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/movies", nil))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Empty(t, body)
}

func TestSystemInfoHandler(t *testing.T) {
	app := newTestApp(t, "http://localhost:1")
	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/System/Info/Public", nil))
	require.Equal(t, http.StatusOK, status)
	expected := `{
		"LocalAddress": "http://localhost:25860",
		"ServerName": "Ertflix Adapter",
		"Version": "10.8.0",
		"ProductName": "Jellyfin Server",
		"OperatingSystem": "Linux",
		"Id": "server-id",
		"StartupWizardCompleted": true
	}`
	require.JSONEq(t, expected, body)

	// Routes are case-insensitive
	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/system/info/public", nil))
	require.Equal(t, http.StatusOK, status)
}

func TestAuthHandler(t *testing.T) {
	app := newTestApp(t, "http://localhost:1")

	// Missing header
	req := httptest.NewRequest(http.MethodPost, "/Users/AuthenticateByName", nil)
	status, body := doRequest(t, app, req)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotEmpty(t, body)

	// Header without any known key
	req = httptest.NewRequest(http.MethodPost, "/Users/AuthenticateByName", nil)
	req.Header.Set("X-Emby-Authorization", "foo")
	status, _ = doRequest(t, app, req)
	require.Equal(t, http.StatusBadRequest, status)

	// Valid header
	req = httptest.NewRequest(http.MethodPost, "/Users/AuthenticateByName", strings.NewReader(`{"Username": "alice", "Pw": "secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Emby-Authorization", `MediaBrowser Client="Infuse", Device="AppleTV", DeviceId="xyz", Version="1.0"`)
	status, body = doRequest(t, app, req)
	require.Equal(t, http.StatusOK, status)
	res := gjson.Parse(body)
	require.Equal(t, "alice", res.Get("User.Name").String())
	require.Equal(t, testIdentity.UserID("alice"), res.Get("User.Id").String())
	require.Equal(t, "server-id", res.Get("ServerId").String())
	require.NotEmpty(t, res.Get("AccessToken").String())
	require.Equal(t, "Infuse", res.Get("SessionInfo.Client").String())
	require.Equal(t, "AppleTV", res.Get("SessionInfo.DeviceName").String())
	require.Equal(t, "xyz", res.Get("SessionInfo.DeviceId").String())
	require.Equal(t, "1.0", res.Get("SessionInfo.ApplicationVersion").String())

	// Authorization header as fallback, garbage body leads to the default user
	req = httptest.NewRequest(http.MethodPost, "/Users/AuthenticateByName", strings.NewReader(`{`))
	req.Header.Set("Authorization", `MediaBrowser Client="Jellyfin Web", Device="Firefox", DeviceId="abc", Version="10.8.0"`)
	status, body = doRequest(t, app, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ertflix", gjson.Get(body, "User.Name").String())
}

func TestUserViewsHandler(t *testing.T) {
	upstream := newTestUpstream(t, testPageContent, testTiles)
	defer upstream.Close()
	app := newTestApp(t, upstream.URL)

	for _, path := range []string{"/UserViews?userId=foo", "/Users/foo/Views"} {
		status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, status)
		res := gjson.Parse(body)
		require.Equal(t, int64(2), res.Get("TotalRecordCount").Int())
		require.Equal(t, int64(0), res.Get("StartIndex").Int())
		items := res.Get("Items").Array()
		require.Len(t, items, 2)
		require.Equal(t, "ert-oles-oi-tainies", items[0].Get("Name").String())
		require.Equal(t, "11", items[0].Get("Id").String())
		require.Equal(t, jellyfin.Etag("11", "ert-oles-oi-tainies"), items[0].Get("Etag").String())
		require.Equal(t, "CollectionFolder", items[0].Get("Type").String())
		require.Equal(t, "13", items[1].Get("Id").String())
	}
}

func TestItemsHandler(t *testing.T) {
	upstream := newTestUpstream(t, testPageContent, testTiles)
	defer upstream.Close()
	app := newTestApp(t, upstream.URL)

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/Items", nil))
	require.Equal(t, http.StatusBadRequest, status)
	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/Items?ParentId=foo", nil))
	require.Equal(t, http.StatusBadRequest, status)

	for _, path := range []string{"/Items?ParentId=11", "/Users/foo/Items?ParentId=11"} {
		status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, status)
		res := gjson.Parse(body)
		require.Equal(t, int64(1), res.Get("TotalRecordCount").Int())
		require.Equal(t, "Movie A", res.Get("Items.0.Name").String())
		require.Equal(t, "1", res.Get("Items.0.Id").String())
		require.Equal(t, "11", res.Get("Items.0.ParentId").String())
	}
}

func TestMetricsHandler(t *testing.T) {
	upstream := newTestUpstream(t, testPageContent, testTiles)
	defer upstream.Close()
	app := newTestApp(t, upstream.URL)

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/movies", nil))
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "ertflix_upstream_requests_total")
}

func TestCachedMovies(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/InsysGoPage/GetPageContent" {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(testPageContent))
			return
		}
		w.Write([]byte(`[{"id": "1", "codename": "movieA"}]`))
	}))
	defer upstream.Close()

	opts := ertflix.DefaultClientOpts
	opts.BaseURL = upstream.URL
	client, err := ertflix.NewClient(opts, zap.NewNop())
	require.NoError(t, err)
	serviceOpts := catalog.DefaultOptions
	serviceOpts.CacheAge = time.Hour
	service, err := catalog.NewService(client, serviceOpts, catalog.NewInMemoryCache(), zap.NewNop())
	require.NoError(t, err)
	app := newApp(service, testIdentity, zap.NewNop())

	for i := 0; i < 3; i++ {
		status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/movies", nil))
		require.Equal(t, http.StatusOK, status)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
