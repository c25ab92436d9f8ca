package itunes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "hello adele", r.URL.Query().Get("term"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "all", r.URL.Query().Get("media"))

		response := `{
			"resultCount": 2,
			"results": [
				{"wrapperType": "track", "kind": "song", "trackId": 420075073,
				 "trackName": "Hello", "artistName": "Adele", "trackPrice": 1.29,
				 "currency": "USD", "artworkUrl100": "https://example.com/100.jpg",
				 "releaseDate": "2015-10-23T07:00:00Z"},
				{"wrapperType": "collection", "collectionId": 1544494091,
				 "collectionName": "25", "artistName": "Adele", "collectionPrice": 9.99}
			]
		}`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	results, err := client.Search(context.Background(), "hello adele")
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].TrackID)
	assert.Equal(t, int64(420075073), *results[0].TrackID)
	require.NotNil(t, results[0].TrackPrice)
	assert.Equal(t, 1.29, *results[0].TrackPrice)
	assert.Nil(t, results[0].CollectionID)

	assert.Nil(t, results[1].TrackID)
	require.NotNil(t, results[1].CollectionID)
	assert.Equal(t, int64(1544494091), *results[1].CollectionID)
}

func TestSearchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestSearchEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount": 0, "results": []}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	results, err := client.Search(context.Background(), "zzzzzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}
