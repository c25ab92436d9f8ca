package itunes

import (
	"time"

	"tunescout/pkg/models"
)

// releaseDateLayouts are tried in order; the API normally emits RFC3339
// but older catalog entries carry bare dates.
var releaseDateLayouts = []string{time.RFC3339, "2006-01-02"}

// Normalize maps one raw result into the canonical record. It returns
// ok=false when the entry has no usable identity (neither trackId nor
// collectionId) or no usable name; such entries are skipped, never an
// error. The precedence rules:
//
//   - id:      trackId, then collectionId
//   - name:    trackName, then collectionName
//   - kind:    kind, then wrapperType, then "unknown"; "collection" becomes "album"
//   - artwork: largest resolution available (600, 100, 60, 30)
//   - price:   trackPrice, then collectionPrice; 0 is a real (free) price,
//     only a missing field maps to null
//   - view:    trackViewUrl, then collectionViewUrl, then artistViewUrl
//   - date:    unparseable releaseDate becomes null, never a failure
func Normalize(r Result, searchTerm string) (models.MediaItem, bool) {
	id := coalesceInt64(r.TrackID, r.CollectionID)
	if id == nil {
		return models.MediaItem{}, false
	}

	name := coalesceStr(r.TrackName, r.CollectionName)
	if name == nil {
		return models.MediaItem{}, false
	}

	kind := "unknown"
	if k := coalesceStr(r.Kind, r.WrapperType); k != nil {
		kind = *k
	}
	if kind == "collection" {
		kind = "album"
	}

	artist := models.UnknownArtist
	if r.ArtistName != nil {
		artist = *r.ArtistName
	}

	var releaseDate *time.Time
	if r.ReleaseDate != nil {
		for _, layout := range releaseDateLayouts {
			if t, err := time.Parse(layout, *r.ReleaseDate); err == nil {
				releaseDate = &t
				break
			}
		}
	}

	return models.MediaItem{
		TrackID:          *id,
		TrackName:        *name,
		ArtistName:       artist,
		ArtworkURL:       coalesceStr(r.ArtworkURL600, r.ArtworkURL100, r.ArtworkURL60, r.ArtworkURL30),
		CollectionName:   r.CollectionName,
		Kind:             kind,
		TrackPrice:       coalesceFloat64(r.TrackPrice, r.CollectionPrice),
		Currency:         r.Currency,
		PrimaryGenreName: r.PrimaryGenreName,
		TrackViewURL:     coalesceStr(r.TrackViewURL, r.CollectionViewURL, r.ArtistViewURL),
		PreviewURL:       r.PreviewURL,
		ReleaseDate:      releaseDate,
		SearchTerm:       searchTerm,
	}, true
}

// NormalizeAll maps a raw batch, silently dropping entries Normalize
// rejects. A partial or malformed upstream entry never fails the batch.
func NormalizeAll(results []Result, searchTerm string) []models.MediaItem {
	out := make([]models.MediaItem, 0, len(results))
	for _, r := range results {
		item, ok := Normalize(r, searchTerm)
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

func coalesceStr(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func coalesceInt64(vals ...*int64) *int64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func coalesceFloat64(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
