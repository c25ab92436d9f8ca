// Package media owns the persisted catalog: the upsert layer that the
// search pipeline writes through, and the read API the browse endpoints
// serve from.
package media

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"tunescout/pkg/models"
)

const mediaColumns = `track_id, track_name, artist_name, artwork_url, collection_name,
	kind, track_price, currency, primary_genre_name, track_view_url,
	preview_url, release_date, search_term, created_at, updated_at`

// timeLayout keeps sub-second precision so back-to-back upserts still
// order by updated_at.
const timeLayout = time.RFC3339Nano

type Repo struct {
	DB *sql.DB

	// now is the clock used for created_at/updated_at; tests override it.
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db, now: time.Now}
}

// UpsertAll writes the whole batch in one transaction keyed by track_id.
// Existing rows get every mutable column replaced and updated_at
// refreshed; created_at survives from the first insertion. The stored
// rows are re-read and returned so callers see server-assigned
// timestamps rather than their own input. A failure anywhere rolls the
// whole batch back.
func (r *Repo) UpsertAll(ctx context.Context, items []models.MediaItem) ([]models.MediaItem, error) {
	if len(items) == 0 {
		return []models.MediaItem{}, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO media (`+mediaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
		  track_name = excluded.track_name,
		  artist_name = excluded.artist_name,
		  artwork_url = excluded.artwork_url,
		  collection_name = excluded.collection_name,
		  kind = excluded.kind,
		  track_price = excluded.track_price,
		  currency = excluded.currency,
		  primary_genre_name = excluded.primary_genre_name,
		  track_view_url = excluded.track_view_url,
		  preview_url = excluded.preview_url,
		  release_date = excluded.release_date,
		  search_term = excluded.search_term,
		  updated_at = excluded.updated_at
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare upsert")
	}
	defer stmt.Close()

	now := r.now().UTC().Format(timeLayout)
	ids := make([]int64, 0, len(items))

	for _, m := range items {
		var releaseDate any
		if m.ReleaseDate != nil {
			releaseDate = m.ReleaseDate.UTC().Format(timeLayout)
		}

		if _, err := stmt.ExecContext(
			ctx,
			m.TrackID,
			m.TrackName,
			m.ArtistName,
			m.ArtworkURL,
			m.CollectionName,
			m.Kind,
			m.TrackPrice,
			m.Currency,
			m.PrimaryGenreName,
			m.TrackViewURL,
			m.PreviewURL,
			releaseDate,
			m.SearchTerm,
			now,
			now,
		); err != nil {
			return nil, errors.Wrapf(err, "exec upsert for %d", m.TrackID)
		}
		ids = append(ids, m.TrackID)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit tx")
	}

	return r.GetByTrackIDs(ctx, ids)
}

// GetByTrackIDs loads the stored rows for the given keys, in the order
// the keys were given. Missing keys are skipped.
func (r *Repo) GetByTrackIDs(ctx context.Context, ids []int64) ([]models.MediaItem, error) {
	if len(ids) == 0 {
		return []models.MediaItem{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+mediaColumns+`
		FROM media
		WHERE track_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query by ids")
	}
	defer rows.Close()

	byID := make(map[int64]models.MediaItem, len(ids))
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		byID[m.TrackID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows err")
	}

	out := make([]models.MediaItem, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetByID returns one record, or nil when the key is unknown.
func (r *Repo) GetByID(ctx context.Context, id int64) (*models.MediaItem, error) {
	items, err := r.GetByTrackIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ListQuery filters the browse endpoints.
type ListQuery struct {
	Q      string // keyword search in name/artist
	Kind   string
	Limit  int
	Offset int
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count scan")
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.MediaItem, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list query")
	}
	defer rows.Close()

	out := make([]models.MediaItem, 0, q.Limit)
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows err")
	}
	return out, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + mediaColumns + ` FROM media`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM media`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(track_name) LIKE ? OR LOWER(artist_name) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if strings.TrimSpace(q.Kind) != "" {
		where = append(where, "LOWER(kind) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Kind)))
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY track_name ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}

func scanItem(rows *sql.Rows) (models.MediaItem, error) {
	var (
		m           models.MediaItem
		artworkURL  sql.NullString
		collection  sql.NullString
		trackPrice  sql.NullFloat64
		currency    sql.NullString
		genre       sql.NullString
		viewURL     sql.NullString
		previewURL  sql.NullString
		releaseDate sql.NullString
		createdAt   string
		updatedAt   string
	)

	if err := rows.Scan(
		&m.TrackID, &m.TrackName, &m.ArtistName, &artworkURL, &collection,
		&m.Kind, &trackPrice, &currency, &genre, &viewURL,
		&previewURL, &releaseDate, &m.SearchTerm, &createdAt, &updatedAt,
	); err != nil {
		return models.MediaItem{}, errors.Wrap(err, "scan media row")
	}

	m.ArtworkURL = nullableStr(artworkURL)
	m.CollectionName = nullableStr(collection)
	m.Currency = nullableStr(currency)
	m.PrimaryGenreName = nullableStr(genre)
	m.TrackViewURL = nullableStr(viewURL)
	m.PreviewURL = nullableStr(previewURL)
	if trackPrice.Valid {
		m.TrackPrice = &trackPrice.Float64
	}

	if releaseDate.Valid {
		if t, err := time.Parse(timeLayout, releaseDate.String); err == nil {
			m.ReleaseDate = &t
		}
	}

	var err error
	if m.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return models.MediaItem{}, errors.Wrap(err, "parse created_at")
	}
	if m.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return models.MediaItem{}, errors.Wrap(err, "parse updated_at")
	}

	return m, nil
}

func nullableStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
