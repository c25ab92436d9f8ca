// Package itunes talks to the iTunes Search API and maps its
// heterogeneous results into the canonical media model.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

const defaultBaseURL = "https://itunes.apple.com"

// searchLimit caps every query; the API itself tops out at 200 but the
// product only ever renders one page.
const searchLimit = 50

// Result is one raw entry from the search endpoint. Tracks and
// collections populate disjoint field sets, so everything is optional
// and the normalizer resolves the precedence explicitly.
type Result struct {
	WrapperType *string `json:"wrapperType,omitempty"`
	Kind        *string `json:"kind,omitempty"`

	// Track-based items (songs, music videos, episodes)
	TrackID      *int64   `json:"trackId,omitempty"`
	TrackName    *string  `json:"trackName,omitempty"`
	TrackPrice   *float64 `json:"trackPrice,omitempty"`
	TrackViewURL *string  `json:"trackViewUrl,omitempty"`

	// Collection-based items (albums, audiobooks, podcasts)
	CollectionID      *int64   `json:"collectionId,omitempty"`
	CollectionName    *string  `json:"collectionName,omitempty"`
	CollectionPrice   *float64 `json:"collectionPrice,omitempty"`
	CollectionViewURL *string  `json:"collectionViewUrl,omitempty"`

	// Common fields
	ArtistID      *int64  `json:"artistId,omitempty"`
	ArtistName    *string `json:"artistName,omitempty"`
	ArtistViewURL *string `json:"artistViewUrl,omitempty"`

	// Artwork URLs (different sizes)
	ArtworkURL30  *string `json:"artworkUrl30,omitempty"`
	ArtworkURL60  *string `json:"artworkUrl60,omitempty"`
	ArtworkURL100 *string `json:"artworkUrl100,omitempty"`
	ArtworkURL600 *string `json:"artworkUrl600,omitempty"`

	// Additional metadata
	PrimaryGenreName *string `json:"primaryGenreName,omitempty"`
	ReleaseDate      *string `json:"releaseDate,omitempty"`
	Currency         *string `json:"currency,omitempty"`
	PreviewURL       *string `json:"previewUrl,omitempty"`
	Description      *string `json:"description,omitempty"`
	LongDescription  *string `json:"longDescription,omitempty"`

	// Podcast specific
	FeedURL    *string `json:"feedUrl,omitempty"`
	TrackCount *int    `json:"trackCount,omitempty"`
}

type searchResponse struct {
	ResultCount int      `json:"resultCount"`
	Results     []Result `json:"results"`
}

// StatusError is returned when the provider answers with a non-2xx
// status. The orchestrator maps it to an upstream-failure response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("itunes api error: status %d", e.StatusCode)
}

// Client queries the iTunes Search API. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a search client. baseURL may be empty to use the
// public endpoint; tests point it at an httptest server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 12 * time.Second},
	}
}

// Search runs one keyword query, capped at searchLimit results across
// all media categories. A non-2xx response yields a *StatusError; no
// retries are attempted.
func (c *Client) Search(ctx context.Context, term string) ([]Result, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, errors.Wrap(err, "itunes: parse base url")
	}
	q := u.Query()
	q.Set("term", term)
	q.Set("limit", strconv.Itoa(searchLimit))
	q.Set("media", "all")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "itunes: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "itunes: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "itunes: read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, errors.Wrap(err, "itunes: decode")
	}

	return sr.Results, nil
}
