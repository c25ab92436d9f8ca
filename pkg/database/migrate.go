package database

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// schema is applied on every start; statements are idempotent so an
// already-migrated database is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS media (
  track_id           INTEGER PRIMARY KEY,
  track_name         TEXT NOT NULL,
  artist_name        TEXT NOT NULL,
  artwork_url        TEXT,
  collection_name    TEXT,
  kind               TEXT NOT NULL,
  track_price        REAL,
  currency           TEXT,
  primary_genre_name TEXT,
  track_view_url     TEXT,
  preview_url        TEXT,
  release_date       TEXT,
  search_term        TEXT NOT NULL,
  created_at         TEXT NOT NULL,
  updated_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_media_search_term ON media (search_term);
CREATE INDEX IF NOT EXISTS idx_media_kind ON media (kind);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}
