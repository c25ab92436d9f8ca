package models

import "time"

// UnknownArtist is the sentinel used when the upstream result carries
// no artist name at all.
const UnknownArtist = "Unknown Artist"

// MediaItem is the canonical, normalized form of a catalog entry.
//
// Both track-shaped and collection-shaped upstream results are mapped
// into this structure first, then we write to the DB from this
// representation. Nullable fields are pointers so that "absent" survives
// a JSON round-trip as null. TrackPrice especially: a stored price of 0
// (verified free) must stay distinct from "no price known".
type MediaItem struct {
	TrackID          int64      `json:"trackId"`          // unique key; trackId or collectionId upstream
	TrackName        string     `json:"trackName"`        // trackName or collectionName upstream
	ArtistName       string     `json:"artistName"`       // defaults to UnknownArtist
	ArtworkURL       *string    `json:"artworkUrl"`       // largest available resolution
	CollectionName   *string    `json:"collectionName"`
	Kind             string     `json:"kind"`             // "collection" is remapped to "album"
	TrackPrice       *float64   `json:"trackPrice"`
	Currency         *string    `json:"currency"`
	PrimaryGenreName *string    `json:"primaryGenreName"`
	TrackViewURL     *string    `json:"trackViewUrl"`
	PreviewURL       *string    `json:"previewUrl"`
	ReleaseDate      *time.Time `json:"releaseDate"`
	SearchTerm       string     `json:"searchTerm"` // last term that surfaced this record
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// SearchResponse is the envelope returned by the search endpoint on
// success. Failures carry only {success:false, error} and never a data
// field, so the two shapes are emitted separately by the handler.
type SearchResponse struct {
	Success bool        `json:"success"`
	Data    []MediaItem `json:"data"`
	Count   int         `json:"count"`
	Term    string      `json:"term"`
	Cached  bool        `json:"cached"`
	Error   string      `json:"error,omitempty"`
}
