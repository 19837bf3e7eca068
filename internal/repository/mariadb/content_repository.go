package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type ContentRepository struct {
	db *sql.DB
}

// compile-time check: *ContentRepository must satisfy port.ContentRepository
var _ port.ContentRepository = (*ContentRepository)(nil)

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetByID loads a content record with its media items. It returns sql.ErrNoRows
// when no record of that kind exists.
func (r *ContentRepository) GetByID(ctx context.Context, kind model.ContentKind, id string) (*model.Content, error) {
	logger.Debugf(ctx, "fetching %s #%s from the database...", kind, id)

	const contentQuery = `
      SELECT id, kind, owner_id, is_short_form, version, created_at, updated_at
      FROM contents
      WHERE id = ? AND kind = ?
    `
	var c model.Content
	if err := r.db.QueryRowContext(ctx, contentQuery, id, kind).Scan(
		&c.ID, &c.Kind, &c.OwnerID, &c.IsShortForm, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const mediaQuery = `
      SELECT id, content_id, location, media_kind, alt_text, created_at, updated_at
      FROM media_items
      WHERE content_id = ? AND content_kind = ?
      ORDER BY created_at, id
    `
	rows, err := r.db.QueryContext(ctx, mediaQuery, id, kind)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m model.MediaItem
		var alt sql.NullString
		if err := rows.Scan(&m.ID, &m.ContentID, &m.Location, &m.Kind, &alt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if alt.Valid {
			a := alt.String
			m.AltText = &a
		}
		c.Media = append(c.Media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}

// UpdateMediaLocation swaps the location only while the item still sits at oldLocation.
func (r *ContentRepository) UpdateMediaLocation(ctx context.Context, mediaID, oldLocation, newLocation string) (bool, error) {
	logger.Infof(ctx, "moving media #%s from %q to %q...", mediaID, oldLocation, newLocation)

	const query = `
      UPDATE media_items
      SET location = ?
      WHERE id = ? AND location = ?
    `
	res, err := r.db.ExecContext(ctx, query, newLocation, mediaID, oldLocation)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateShortForm writes the flag and bumps the version, only if the record is still at expectedVersion.
func (r *ContentRepository) UpdateShortForm(ctx context.Context, kind model.ContentKind, contentID string, isShortForm bool, expectedVersion int64) (bool, error) {
	logger.Infof(ctx, "setting short-form=%t on %s #%s (version %d)...", isShortForm, kind, contentID, expectedVersion)

	const query = `
      UPDATE contents
      SET is_short_form = ?, version = version + 1
      WHERE id = ? AND kind = ? AND version = ?
    `
	res, err := r.db.ExecContext(ctx, query, isShortForm, contentID, kind, expectedVersion)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListPendingVideosBefore returns video items still located under tempPrefix
// whose row was last touched before the given time.
func (r *ContentRepository) ListPendingVideosBefore(ctx context.Context, tempPrefix string, before time.Time) ([]model.PendingVideo, error) {
	logger.Infof(ctx, "listing videos under %q not moved since %s...", tempPrefix, before.Format(time.RFC3339))

	const query = `
      SELECT m.id, m.location, c.id, c.kind, c.owner_id
      FROM media_items m
      JOIN contents c ON c.id = m.content_id AND c.kind = m.content_kind
      WHERE m.media_kind = 'video'
        AND m.location LIKE ?
        AND m.updated_at < ?
      ORDER BY m.updated_at
    `
	rows, err := r.db.QueryContext(ctx, query, prefixPattern(tempPrefix), before)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.PendingVideo
	for rows.Next() {
		var p model.PendingVideo
		if err := rows.Scan(&p.MediaID, &p.Location, &p.ContentID, &p.ContentKind, &p.OwnerID); err != nil {
			return nil, fmt.Errorf("scan pending video: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContentRepository) ListLocationsUnder(ctx context.Context, prefix string) ([]string, error) {
	const query = `SELECT location FROM media_items WHERE location LIKE ?`
	rows, err := r.db.QueryContext(ctx, query, prefixPattern(prefix))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("scan media location: %w", err)
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// prefixPattern turns a directory into a LIKE pattern matching everything below it.
func prefixPattern(dir string) string {
	dir = strings.TrimRight(filepath.Clean(dir), string(filepath.Separator)) + string(filepath.Separator)
	esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return esc.Replace(dir) + "%"
}
