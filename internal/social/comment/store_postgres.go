// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
)

// # PostgreSQL Repository

// commentRepository implements the [CommentRepository] interface using pgx.
type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs a PostgreSQL backed comment store.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

// commentSelect joins the account table so reads carry author fields.
func commentSelect() string {
	comment := schema.SocialComment
	account := schema.UserAccount
	return fmt.Sprintf(`
		SELECT
			c.%s, c.%s, c.%s, c.%s,
			CASE WHEN c.%s THEN '' ELSE c.%s END AS body,
			c.%s, c.%s, c.%s,
			a.%s, a.%s, a.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s`,
		comment.ID, comment.VideoID, comment.UserID, comment.ParentID,
		comment.IsDeleted, comment.Body,
		comment.IsDeleted, comment.CreatedAt, comment.UpdatedAt,
		account.Username, account.DisplayName, account.AvatarURL,
		comment.Table,
		account.Table, account.ID, comment.UserID,
	)
}

// scanComment hydrates a Comment from a row selected with commentSelect.
func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	entry := &Comment{}
	targets := []any{
		&entry.ID, &entry.VideoID, &entry.UserID, &entry.ParentID,
		&entry.Body,
		&entry.IsDeleted, &entry.CreatedAt, &entry.UpdatedAt,
		&entry.AuthorUsername, &entry.AuthorDisplay, &entry.AuthorAvatarURL,
	}
	targets = append(targets, extra...)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return entry, nil
}

func (repository *commentRepository) ListByVideo(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error) {
	comment := schema.SocialComment
	account := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT
			c.%s, c.%s, c.%s, c.%s,
			CASE WHEN c.%s THEN '' ELSE c.%s END AS body,
			c.%s, c.%s, c.%s,
			a.%s, a.%s, a.%s,
			COUNT(*) OVER() AS total_count
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC
		LIMIT $2 OFFSET $3`,
		comment.ID, comment.VideoID, comment.UserID, comment.ParentID,
		comment.IsDeleted, comment.Body,
		comment.IsDeleted, comment.CreatedAt, comment.UpdatedAt,
		account.Username, account.DisplayName, account.AvatarURL,
		comment.Table,
		account.Table, account.ID, comment.UserID,
		comment.VideoID, comment.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, videoID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	var totalCount int
	for rows.Next() {
		entry, err := scanComment(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, entry)
	}

	return comments, totalCount, nil
}

func (repository *commentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	comment := schema.SocialComment
	query := commentSelect() + fmt.Sprintf(` WHERE c.%s = $1`, comment.ID)

	entry, err := scanComment(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}
	return entry, nil
}

func (repository *commentRepository) Create(context context.Context, entry *Comment) error {
	comment := schema.SocialComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.Table,
		comment.ID, comment.VideoID, comment.UserID, comment.ParentID,
		comment.Body, comment.CreatedAt, comment.UpdatedAt,
	)

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.VideoID, entry.UserID, entry.ParentID,
		entry.Body, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		// A broken FK means the video or parent comment is gone.
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Video")
		}
		return fmt.Errorf("postgres_comment_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *commentRepository) UpdateBody(context context.Context, id, body string) error {
	comment := schema.SocialComment
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s = FALSE`,
		comment.Table, comment.Body, comment.UpdatedAt, comment.ID, comment.IsDeleted)

	_, err := repository.pool.Exec(context, query, id, body)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}
	return nil
}

func (repository *commentRepository) SoftDelete(context context.Context, id string) error {
	comment := schema.SocialComment
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = '', %s = NOW() WHERE %s = $1`,
		comment.Table, comment.IsDeleted, comment.Body, comment.UpdatedAt, comment.ID)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}
	return nil
}

func (repository *commentRepository) OwnerOf(context context.Context, id string) (string, error) {
	comment := schema.SocialComment
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = FALSE`,
		comment.UserID, comment.Table, comment.ID, comment.IsDeleted)

	var ownerID string
	err := repository.pool.QueryRow(context, query, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("Comment")
		}
		return "", fmt.Errorf("postgres_comment_repo_owner_of_failed: %w", err)
	}
	return ownerID, nil
}
