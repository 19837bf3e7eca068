package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// InsertContent seeds a content record at version 1.
func InsertContent(t *testing.T, db *sql.DB, kind model.ContentKind, id, ownerID string) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO contents (id, kind, owner_id) VALUES (?, ?, ?)`,
		id, kind, ownerID,
	); err != nil {
		t.Fatalf("insert content %s: %v", id, err)
	}
}

// InsertMedia seeds a media item; updatedAt lets backlog queries see it as stale.
func InsertMedia(t *testing.T, db *sql.DB, kind model.ContentKind, contentID, mediaID, location string, mk model.MediaKind, updatedAt time.Time) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO media_items (id, content_id, content_kind, location, media_kind, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		mediaID, contentID, kind, location, mk, updatedAt, updatedAt,
	); err != nil {
		t.Fatalf("insert media %s: %v", mediaID, err)
	}
}
