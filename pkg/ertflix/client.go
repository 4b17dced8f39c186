package ertflix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	pageContentPath    = "/v1/InsysGoPage/GetPageContent"
	sectionContentPath = "/v1/InsysGoPage/GetSectionContent"
	tilesPath          = "/v2/Tile/GetTiles"

	// Makes the API respond with camelCase keys and ISO dates
	apiHeadersParam = `{"X-Api-Date-Format":"iso","X-Api-Camel-Case":true}`
)

type ClientOptions struct {
	BaseURL          string
	PlatformCodename string
	PageCodename     string
	// Number of sections requested from the page content endpoint.
	// Should be large enough to get all sections with a single page.
	PageLimit int
	// Number of tiles requested from the section content endpoint.
	// The API's own default is too small to get a whole section.
	SectionLimit int
	Timeout      time.Duration
	// Number of retries after the first attempt, per request.
	MaxRetries   int
	RetryDelay   time.Duration
	ExtraHeaders []string
}

var DefaultClientOpts = ClientOptions{
	BaseURL:          "https://api.app.ertflix.gr",
	PlatformCodename: "www",
	PageCodename:     "mainpage",
	PageLimit:        100,
	SectionLimit:     1000,
	Timeout:          30 * time.Second,
	MaxRetries:       3,
	RetryDelay:       250 * time.Millisecond,
}

// Client is a client for the ERTFLIX catalog API.
// It only takes care of transport and deserialization.
// Deciding which sections are relevant is up to the caller.
type Client struct {
	baseURL          string
	platformCodename string
	pageCodename     string
	pageLimit        int
	sectionLimit     int
	httpClient       *http.Client
	maxRetries       int
	retryDelay       time.Duration
	extraHeaders     map[string]string
	logger           *zap.Logger
}

func NewClient(opts ClientOptions, logger *zap.Logger) (*Client, error) {
	// Precondition check
	if opts.BaseURL == "" {
		return nil, errors.New("opts.BaseURL must not be empty")
	}
	if opts.PlatformCodename == "" {
		return nil, errors.New("opts.PlatformCodename must not be empty")
	}
	if opts.MaxRetries < 0 {
		return nil, errors.New("opts.MaxRetries must not be negative")
	}
	for _, extraHeader := range opts.ExtraHeaders {
		if extraHeader != "" {
			colonIndex := strings.Index(extraHeader, ":")
			if colonIndex <= 0 || colonIndex == len(extraHeader)-1 {
				return nil, errors.New("opts.ExtraHeaders elements must have a format like \"X-Foo: bar\"")
			}
		}
	}

	extraHeaderMap := make(map[string]string, len(opts.ExtraHeaders))
	for _, extraHeader := range opts.ExtraHeaders {
		if extraHeader != "" {
			extraHeaderParts := strings.SplitN(extraHeader, ":", 2)
			extraHeaderMap[strings.TrimSpace(extraHeaderParts[0])] = strings.TrimSpace(extraHeaderParts[1])
		}
	}

	if opts.PageCodename == "" {
		opts.PageCodename = DefaultClientOpts.PageCodename
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = DefaultClientOpts.PageLimit
	}
	if opts.SectionLimit <= 0 {
		opts.SectionLimit = DefaultClientOpts.SectionLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultClientOpts.Timeout
	}
	// A constant backoff requires a positive duration
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultClientOpts.RetryDelay
	}

	return &Client{
		baseURL:          strings.TrimSuffix(opts.BaseURL, "/"),
		platformCodename: opts.PlatformCodename,
		pageCodename:     opts.PageCodename,
		pageLimit:        opts.PageLimit,
		sectionLimit:     opts.SectionLimit,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries:   opts.MaxRetries,
		retryDelay:   opts.RetryDelay,
		extraHeaders: extraHeaderMap,
		logger:       logger,
	}, nil
}

// FetchCatalog fetches all sections of the configured page.
func (c *Client) FetchCatalog(ctx context.Context) ([]Section, error) {
	params := c.baseParams()
	params.Set("pageCodename", c.pageCodename)
	params.Set("limit", strconv.Itoa(c.pageLimit))
	params.Set("page", "1")
	reqURL := c.baseURL + pageContentPath + "?" + params.Encode()

	resBody, err := c.do(ctx, "pageContent", http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(resBody) {
		return nil, c.decodeError("pageContent", reqURL, errors.New("invalid JSON"))
	}
	sectionContents := gjson.GetBytes(resBody, "sectionContents")
	if !sectionContents.IsArray() {
		return nil, c.decodeError("pageContent", reqURL, errors.New("no \"sectionContents\" array in response"))
	}
	var sections []Section
	if err = json.Unmarshal([]byte(sectionContents.Raw), &sections); err != nil {
		return nil, c.decodeError("pageContent", reqURL, err)
	}

	c.logger.Debug("Fetched catalog", zap.String("pageCodename", c.pageCodename), zap.Int("sectionCount", len(sections)))
	return sections, nil
}

// FetchSection fetches the full content of the section with the given codename.
func (c *Client) FetchSection(ctx context.Context, codename string) ([]Section, error) {
	params := c.baseParams()
	params.Set("sectionCodename", codename)
	params.Set("limit", strconv.Itoa(c.sectionLimit))
	params.Set("page", "1")
	reqURL := c.baseURL + sectionContentPath + "?" + params.Encode()

	resBody, err := c.do(ctx, "sectionContent", http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var sections []Section
	if err = c.decodeArray("sectionContent", reqURL, resBody, &sections); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched section", zap.String("codename", codename), zap.Int("sectionCount", len(sections)))
	return sections, nil
}

// ResolveTiles fetches the tiles with the given IDs with a single batch request.
// The order of the result is the order of the API response, which isn't necessarily the order of ids.
func (c *Client) ResolveTiles(ctx context.Context, ids []string) ([]Tile, error) {
	// Precondition check
	if len(ids) == 0 {
		return []Tile{}, nil
	}

	reqBody := tilesRequest{
		PlatformCodename: c.platformCodename,
		RequestedTiles:   make([]requestedTile, 0, len(ids)),
	}
	for _, id := range ids {
		reqBody.RequestedTiles = append(reqBody.RequestedTiles, requestedTile{ID: id})
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("Couldn't marshal tiles request: %w", err)
	}
	reqURL := c.baseURL + tilesPath + "?" + c.baseParams().Encode()

	resBody, err := c.do(ctx, "tiles", http.MethodPost, reqURL, reqBytes)
	if err != nil {
		return nil, err
	}

	var tiles []Tile
	if err = c.decodeArray("tiles", reqURL, resBody, &tiles); err != nil {
		return nil, err
	}
	for i, tile := range tiles {
		if tile.ID == "" {
			return nil, c.decodeError("tiles", reqURL, fmt.Errorf("tile at index %v has no \"id\"", i))
		}
	}

	c.logger.Debug("Resolved tiles", zap.Int("requested", len(ids)), zap.Int("resolved", len(tiles)))
	return tiles, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("platformCodename", c.platformCodename)
	params.Set("$headers", apiHeadersParam)
	return params
}

// do sends the request and retries it in case of temporary transport errors.
func (c *Client) do(ctx context.Context, endpoint, method, reqURL string, body []byte) ([]byte, error) {
	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewConstant(c.retryDelay))
	attempt := 0
	var resBody []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var err error
		resBody, err = c.send(ctx, endpoint, method, reqURL, body)
		if err == nil {
			return nil
		}
		var tErr *TransportError
		if errors.As(err, &tErr) && tErr.temporary() {
			c.logger.Debug("Request to ERTFLIX failed", zap.Error(err), zap.String("endpoint", endpoint), zap.Int("attempt", attempt))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		var tErr *TransportError
		if !errors.As(err, &tErr) {
			// Context canceled or expired between attempts, or the request couldn't be built
			return nil, &TransportError{Op: endpoint, URL: reqURL, Err: err}
		}
		return nil, err
	}
	return resBody, nil
}

func (c *Client) send(ctx context.Context, endpoint, method, reqURL string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("Couldn't create %v request: %w", method, err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	MetricRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		MetricRequests.WithLabelValues(endpoint, outcomeTransport).Inc()
		return nil, &TransportError{Op: endpoint, URL: reqURL, Err: err}
	}
	defer res.Body.Close()

	// Check server response
	if res.StatusCode < 200 || res.StatusCode > 299 {
		MetricRequests.WithLabelValues(endpoint, outcomeTransport).Inc()
		return nil, &TransportError{Op: endpoint, URL: reqURL, StatusCode: res.StatusCode}
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		MetricRequests.WithLabelValues(endpoint, outcomeTransport).Inc()
		return nil, &TransportError{Op: endpoint, URL: reqURL, Err: fmt.Errorf("Couldn't read response body: %w", err)}
	}
	MetricRequests.WithLabelValues(endpoint, outcomeOK).Inc()
	return resBody, nil
}

// setHeaders makes the request look like one from the ERTFLIX website.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:142.0) Gecko/20100101 Firefox/142.0")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("Origin", "https://www.ertflix.gr")
	req.Header.Set("DNT", "1")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Cache-Control", "no-cache")
	for headerKey, headerVal := range c.extraHeaders {
		req.Header.Set(headerKey, headerVal)
	}
}

func (c *Client) decodeArray(endpoint, reqURL string, resBody []byte, target interface{}) error {
	if !gjson.ValidBytes(resBody) {
		return c.decodeError(endpoint, reqURL, errors.New("invalid JSON"))
	}
	if !gjson.ParseBytes(resBody).IsArray() {
		return c.decodeError(endpoint, reqURL, errors.New("response is not a JSON array"))
	}
	if err := json.Unmarshal(resBody, target); err != nil {
		return c.decodeError(endpoint, reqURL, err)
	}
	return nil
}

func (c *Client) decodeError(endpoint, reqURL string, err error) error {
	MetricRequests.WithLabelValues(endpoint, outcomeDecode).Inc()
	return &DecodeError{Op: endpoint, URL: reqURL, Err: err}
}
