// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video provides the PostgreSQL implementation for the catalog's data access.

It utilizes advanced Postgres features to deliver a high-performance browse experience:
  - Full-Text Search: Uses 'websearch_to_tsquery' over title and description.
  - Window Functions: Calculates total result counts without a separate 'COUNT' query.
  - Atomic Counters: View counts are incremented in a single UPDATE round-trip.
*/
package video

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/pkg/slice"
)

// # PostgreSQL Repository

// videoRepository implements the [VideoRepository] interface using pgx.
type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository constructs a PostgreSQL backed video store.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

// videoColumns lists the hydrated columns in scan order.
func videoColumns(alias string) string {
	table := schema.ContentVideo
	columns := []string{
		table.ID, table.OwnerID, table.Title, table.Slug, table.Description,
		table.VideoURL, table.VideoAssetID, table.ThumbURL, table.ThumbAssetID,
		table.Duration, table.ViewCount, table.IsPublished, table.PublishedAt,
		table.CreatedAt, table.UpdatedAt,
	}
	prefixed := slice.Map(columns, func(column string) string { return alias + "." + column })
	return strings.Join(prefixed, ", ")
}

// scanVideo hydrates a Video from a row selected with videoColumns.
func scanVideo(row pgx.Row, extra ...any) (*Video, error) {
	video := &Video{}
	targets := []any{
		&video.ID, &video.OwnerID, &video.Title, &video.Slug, &video.Description,
		&video.VideoURL, &video.VideoAssetID, &video.ThumbURL, &video.ThumbAssetID,
		&video.Duration, &video.ViewCount, &video.IsPublished, &video.PublishedAt,
		&video.CreatedAt, &video.UpdatedAt,
	}
	targets = append(targets, extra...)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return video, nil
}

/*
List retrieves videos matching the filter with the total match count.

Description: Published-only by default; IncludeUnpublished widens the scope
for owners and moderators. Search uses Postgres web-search semantics.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Video: Slice of videos
  - int: Total matching videos
  - error: Storage failures
*/
func (repository *videoRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Video, int, error) {
	table := schema.ContentVideo

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s v
		WHERE v.%s IS NULL
	`, videoColumns("v"), table.Table, table.DeletedAt))

	if !filter.IncludeUnpublished {
		queryBuilder.WriteString(fmt.Sprintf(" AND v.%s = TRUE", table.IsPublished))
	}

	if filter.OwnerID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND v.%s = $%d", table.OwnerID, argID))
		args = append(args, filter.OwnerID)
		argID++
	} else if len(filter.OwnerIDs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND v.%s = ANY($%d)", table.OwnerID, argID))
		args = append(args, filter.OwnerIDs)
		argID++
	}

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND to_tsvector('simple', v.%s || ' ' || v.%s) @@ websearch_to_tsquery('simple', $%d)",
			table.Title, table.Description, argID,
		))
		args = append(args, filter.Search)
		argID++
	}

	// Ordering
	switch filter.Sort {
	case "views":
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY v.%s DESC", table.ViewCount))
	case "oldest":
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY v.%s ASC", table.CreatedAt))
	default:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY v.%s DESC", table.CreatedAt))
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	var totalCount int
	for rows.Next() {
		video, err := scanVideo(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_video_repo_scan_failed: %w", err)
		}
		videos = append(videos, video)
	}

	return videos, totalCount, nil
}

/*
FindByID returns the video with the given ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Video: Hydrated metadata
  - error: apperr.NotFound or database failures
*/
func (repository *videoRepository) FindByID(context context.Context, id string) (*Video, error) {
	table := schema.ContentVideo
	query := fmt.Sprintf(`SELECT %s FROM %s v WHERE v.%s = $1 AND v.%s IS NULL`,
		videoColumns("v"), table.Table, table.ID, table.DeletedAt)

	video, err := scanVideo(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, fmt.Errorf("postgres_video_repo_find_by_id_failed: %w", err)
	}
	return video, nil
}

/*
FindBySlug returns the video with the given slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Video: Hydrated metadata
  - error: apperr.NotFound or database failures
*/
func (repository *videoRepository) FindBySlug(context context.Context, slug string) (*Video, error) {
	table := schema.ContentVideo
	query := fmt.Sprintf(`SELECT %s FROM %s v WHERE v.%s = $1 AND v.%s IS NULL`,
		videoColumns("v"), table.Table, table.Slug, table.DeletedAt)

	video, err := scanVideo(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, fmt.Errorf("postgres_video_repo_find_by_slug_failed: %w", err)
	}
	return video, nil
}

/*
Create persists a new video row.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: Constraint or connectivity failures
*/
func (repository *videoRepository) Create(context context.Context, video *Video) error {
	table := schema.ContentVideo
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		table.Table,
		table.ID, table.OwnerID, table.Title, table.Slug, table.Description,
		table.VideoURL, table.VideoAssetID, table.ThumbURL, table.ThumbAssetID,
		table.Duration, table.IsPublished, table.PublishedAt,
		table.CreatedAt, table.UpdatedAt,
	)

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		video.ID, video.OwnerID, video.Title, video.Slug, video.Description,
		video.VideoURL, video.VideoAssetID, video.ThumbURL, video.ThumbAssetID,
		video.Duration, video.IsPublished, video.PublishedAt,
		video.CreatedAt, video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_create_failed: %w", err)
	}
	return nil
}

/*
Update persists metadata changes to an existing video.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: Update failures
*/
func (repository *videoRepository) Update(context context.Context, video *Video) error {
	table := schema.ContentVideo
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1 AND %s IS NULL`,
		table.Table,
		table.Title, table.Slug, table.Description, table.ThumbURL,
		table.ThumbAssetID, table.IsPublished, table.PublishedAt,
		table.ID, table.DeletedAt,
	)

	video.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		video.ID, video.Title, video.Slug, video.Description, video.ThumbURL,
		video.ThumbAssetID, video.IsPublished, video.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_update_failed: %w", err)
	}
	return nil
}

/*
SoftDelete marks a video as deleted.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - error: Execution failures
*/
func (repository *videoRepository) SoftDelete(context context.Context, id string) error {
	table := schema.ContentVideo
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		table.Table, table.DeletedAt, table.ID, table.DeletedAt)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_soft_delete_failed: %w", err)
	}
	return nil
}

/*
IncrementViewCount atomically bumps the view counter.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - delta: int64

Returns:
  - error: Execution failures
*/
func (repository *videoRepository) IncrementViewCount(context context.Context, id string, delta int64) error {
	table := schema.ContentVideo
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + $2 WHERE %s = $1`,
		table.Table, table.ViewCount, table.ViewCount, table.ID)

	_, err := repository.pool.Exec(context, query, id, delta)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_increment_views_failed: %w", err)
	}
	return nil
}

/*
OwnerOf resolves the owner id of a video.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - string: Owner user id
  - error: apperr.NotFound or database failures
*/
func (repository *videoRepository) OwnerOf(context context.Context, id string) (string, error) {
	table := schema.ContentVideo
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		table.OwnerID, table.Table, table.ID, table.DeletedAt)

	var ownerID string
	err := repository.pool.QueryRow(context, query, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("Video")
		}
		return "", fmt.Errorf("postgres_video_repo_owner_of_failed: %w", err)
	}
	return ownerID, nil
}
