package search

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"tunescout/internal/itunes"
	"tunescout/pkg/models"
)

// ErrEmptyTerm rejects blank input before any I/O happens.
var ErrEmptyTerm = errors.New("search term is required")

// ErrUpstream and ErrStore mark where a failed search died, so the
// handler can pick the right status class without inspecting internals.
var (
	ErrUpstream = errors.New("upstream catalog failure")
	ErrStore    = errors.New("store failure")
)

// Searcher fetches raw results from the catalog provider.
type Searcher interface {
	Search(ctx context.Context, term string) ([]itunes.Result, error)
}

// Store persists normalized records and returns their stored state.
type Store interface {
	UpsertAll(ctx context.Context, items []models.MediaItem) ([]models.MediaItem, error)
}

// Result is one completed search: the stored records, the trimmed term
// that was actually searched, and whether the cache served it.
type Result struct {
	Items  []models.MediaItem
	Term   string
	Cached bool
}

// Service orchestrates a search request: validate, consult the cache,
// fetch upstream on a miss, normalize, upsert, fill the cache, respond.
type Service struct {
	Upstream Searcher
	Store    Store
	Cache    *Cache
}

func NewService(upstream Searcher, store Store, cache *Cache) *Service {
	return &Service{Upstream: upstream, Store: store, Cache: cache}
}

// Search runs one query end to end. The cache is only filled after a
// successful upsert, so a failed search never leaves un-persisted data
// servable. The returned items are the store's rows, timestamps and
// all, not the normalizer's intermediates.
func (s *Service) Search(ctx context.Context, rawTerm string) (Result, error) {
	term := strings.TrimSpace(rawTerm)
	if term == "" {
		return Result{}, ErrEmptyTerm
	}

	if items, ok := s.Cache.Get(term); ok {
		zlog.Debug().Str("term", term).Int("count", len(items)).Msg("cache hit")
		return Result{Items: items, Term: term, Cached: true}, nil
	}

	raw, err := s.Upstream.Search(ctx, term)
	if err != nil {
		return Result{}, errors.Mark(errors.Wrap(err, "search catalog"), ErrUpstream)
	}

	// A batch where every entry was rejected is still a successful,
	// cacheable empty result.
	normalized := itunes.NormalizeAll(raw, term)

	stored, err := s.Store.UpsertAll(ctx, normalized)
	if err != nil {
		return Result{}, errors.Mark(errors.Wrap(err, "persist results"), ErrStore)
	}

	s.Cache.Set(term, stored)

	zlog.Debug().
		Str("term", term).
		Int("raw", len(raw)).
		Int("stored", len(stored)).
		Msg("search ingested")

	return Result{Items: stored, Term: term, Cached: false}, nil
}
