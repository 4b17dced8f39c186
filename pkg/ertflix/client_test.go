package ertflix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, server *httptest.Server, maxRetries int) *Client {
	opts := DefaultClientOpts
	opts.BaseURL = server.URL
	opts.Timeout = 2 * time.Second
	opts.MaxRetries = maxRetries
	opts.RetryDelay = time.Millisecond
	client, err := NewClient(opts, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	opts := DefaultClientOpts
	opts.BaseURL = ""
	_, err := NewClient(opts, zap.NewNop())
	require.Error(t, err)

	opts = DefaultClientOpts
	opts.ExtraHeaders = []string{"X-Foo"}
	_, err = NewClient(opts, zap.NewNop())
	require.Error(t, err)

	opts = DefaultClientOpts
	opts.ExtraHeaders = []string{"X-Foo: bar", ""}
	client, err := NewClient(opts, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, map[string]string{"X-Foo": "bar"}, client.extraHeaders)
}

func TestFetchCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, pageContentPath, r.URL.Path)
		query := r.URL.Query()
		require.Equal(t, "www", query.Get("platformCodename"))
		require.Equal(t, "mainpage", query.Get("pageCodename"))
		require.Equal(t, "100", query.Get("limit"))
		require.Equal(t, apiHeadersParam, query.Get("$headers"))
		require.Equal(t, "https://www.ertflix.gr", r.Header.Get("Origin"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Write([]byte(`{
			"sectionContents": [
				{"sectionId": 1, "toplistCodename": "ert-oles-oi-tainies", "tilesIds": [{"id": "a", "codename": "movie-a", "originEntityId": 10}]},
				{"sectionId": 2}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	sections, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)

	expected := []Section{
		{
			SectionID:       1,
			ToplistCodename: "ert-oles-oi-tainies",
			TileRefs:        []TileRef{{ID: "a", Codename: "movie-a", OriginEntityID: 10}},
		},
		{SectionID: 2},
	}
	require.True(t, cmp.Equal(expected, sections), cmp.Diff(expected, sections))
	require.False(t, sections[1].HasToplist())
}

func TestFetchCatalogDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"sectionContents": [`},
		{"missing sectionContents", `{"foo": []}`},
		{"sectionContents not an array", `{"sectionContents": {}}`},
		{"wrong field type", `{"sectionContents": [{"sectionId": "one"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server, 0)
			_, err := client.FetchCatalog(context.Background())
			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %v", err)
		})
	}
}

func TestFetchCatalogTransportErrorRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server, 2)
	_, err := client.FetchCatalog(context.Background())
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %v", err)
	require.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	// First attempt plus two retries
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchCatalogNoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server, 3)
	_, err := client.FetchCatalog(context.Background())
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchCatalogRetrySucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"sectionContents": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 1)
	sections, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Empty(t, sections)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchCatalogTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"sectionContents": []}`))
	}))
	defer server.Close()

	opts := DefaultClientOpts
	opts.BaseURL = server.URL
	opts.Timeout = 20 * time.Millisecond
	opts.MaxRetries = 0
	client, err := NewClient(opts, zap.NewNop())
	require.NoError(t, err)

	_, err = client.FetchCatalog(context.Background())
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %v", err)
}

func TestFetchCatalogCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sectionContents": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.FetchCatalog(ctx)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %v", err)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestFetchSection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, sectionContentPath, r.URL.Path)
		require.Equal(t, "ert-seires-plereis", r.URL.Query().Get("sectionCodename"))
		require.Equal(t, "1000", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"sectionId": 7, "toplistCodename": "ert-seires-plereis", "tilesIds": [{"id": "s1", "codename": "show-1", "originEntityId": 1}]}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	sections, err := client.FetchSection(context.Background(), "ert-seires-plereis")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, []string{"s1"}, sections[0].TileIDs())
}

func TestFetchSectionNotAnArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sectionId": 7}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	_, err := client.FetchSection(context.Background(), "foo")
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestResolveTiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, tilesPath, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req tilesRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "www", req.PlatformCodename)
		require.Equal(t, []requestedTile{{ID: "a"}, {ID: "b"}}, req.RequestedTiles)

		// Different order than requested
		w.Write([]byte(`[
			{"id": "b", "codename": "movie-b", "originEntityId": 2},
			{"id": "a", "codename": "movie-a", "originEntityId": 1, "title": "Movie A", "year": 2020, "description": "Foo"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	tiles, err := client.ResolveTiles(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	require.Equal(t, "b", tiles[0].ID)
	require.Nil(t, tiles[0].Title)
	require.Nil(t, tiles[0].Year)
	require.Equal(t, "a", tiles[1].ID)
	require.Equal(t, "Movie A", *tiles[1].Title)
	require.Equal(t, 2020, *tiles[1].Year)
	require.Equal(t, "Foo", *tiles[1].Description)
}

func TestResolveTilesMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"codename": "movie-b"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	_, err := client.ResolveTiles(context.Background(), []string{"b"})
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestResolveTilesEmpty(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	tiles, err := client.ResolveTiles(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, tiles)
	require.Empty(t, tiles)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestExtraHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "bar", r.Header.Get("X-Foo"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	opts := DefaultClientOpts
	opts.BaseURL = server.URL
	opts.ExtraHeaders = []string{"X-Foo: bar"}
	client, err := NewClient(opts, zap.NewNop())
	require.NoError(t, err)

	_, err = client.FetchSection(context.Background(), "foo")
	require.NoError(t, err)
}
