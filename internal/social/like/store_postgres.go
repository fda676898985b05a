// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/core/video"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # PostgreSQL Repository

// likeRepository implements the [LikeRepository] interface using pgx.
type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository constructs a PostgreSQL backed like store.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &likeRepository{pool: pool}
}

func (repository *likeRepository) Add(context context.Context, userID string, kind TargetKind, targetID string) (bool, error) {
	like := schema.SocialLike
	// The (userid, targetkind, targetid) unique index makes double likes a no-op.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (%s, %s, %s) DO NOTHING`,
		like.Table,
		like.ID, like.UserID, like.TargetKind, like.TargetID, like.CreatedAt,
		like.UserID, like.TargetKind, like.TargetID,
	)

	tag, err := repository.pool.Exec(context, query, uuid.New(), userID, string(kind), targetID)
	if err != nil {
		return false, fmt.Errorf("postgres_like_repo_add_failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *likeRepository) Remove(context context.Context, userID string, kind TargetKind, targetID string) (bool, error) {
	like := schema.SocialLike
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3`,
		like.Table, like.UserID, like.TargetKind, like.TargetID)

	tag, err := repository.pool.Exec(context, query, userID, string(kind), targetID)
	if err != nil {
		return false, fmt.Errorf("postgres_like_repo_remove_failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *likeRepository) Count(context context.Context, kind TargetKind, targetID string) (int64, error) {
	like := schema.SocialLike
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = $2`,
		like.Table, like.TargetKind, like.TargetID)

	var count int64
	if err := repository.pool.QueryRow(context, query, string(kind), targetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_like_repo_count_failed: %w", err)
	}
	return count, nil
}

func (repository *likeRepository) Exists(context context.Context, userID string, kind TargetKind, targetID string) (bool, error) {
	like := schema.SocialLike
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3)`,
		like.Table, like.UserID, like.TargetKind, like.TargetID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, userID, string(kind), targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_like_repo_exists_failed: %w", err)
	}
	return exists, nil
}

func (repository *likeRepository) ListLikedVideos(context context.Context, userID string, limit, offset int) ([]*video.Video, int, error) {
	like := schema.SocialLike
	content := schema.ContentVideo
	query := fmt.Sprintf(`
		SELECT
			v.%s, v.%s, v.%s, v.%s, v.%s,
			v.%s, v.%s, v.%s, v.%s,
			v.%s, v.%s, v.%s, v.%s,
			v.%s, v.%s,
			COUNT(*) OVER() AS total_count
		FROM %s l
		JOIN %s v ON v.%s = l.%s
		WHERE l.%s = $1 AND l.%s = $2
		  AND v.%s IS NULL AND v.%s = TRUE
		ORDER BY l.%s DESC
		LIMIT $3 OFFSET $4`,
		content.ID, content.OwnerID, content.Title, content.Slug, content.Description,
		content.VideoURL, content.VideoAssetID, content.ThumbURL, content.ThumbAssetID,
		content.Duration, content.ViewCount, content.IsPublished, content.PublishedAt,
		content.CreatedAt, content.UpdatedAt,
		like.Table,
		content.Table, content.ID, like.TargetID,
		like.UserID, like.TargetKind,
		content.DeletedAt, content.IsPublished,
		like.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, string(TargetVideo), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_like_repo_list_videos_failed: %w", err)
	}
	defer rows.Close()

	var videos []*video.Video
	var totalCount int
	for rows.Next() {
		entry := &video.Video{}
		err := rows.Scan(
			&entry.ID, &entry.OwnerID, &entry.Title, &entry.Slug, &entry.Description,
			&entry.VideoURL, &entry.VideoAssetID, &entry.ThumbURL, &entry.ThumbAssetID,
			&entry.Duration, &entry.ViewCount, &entry.IsPublished, &entry.PublishedAt,
			&entry.CreatedAt, &entry.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_like_repo_scan_failed: %w", err)
		}
		videos = append(videos, entry)
	}

	return videos, totalCount, nil
}
