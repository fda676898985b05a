// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
)

// # PostgreSQL Repository

// postRepository implements the [PostRepository] interface using pgx.
type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository constructs a PostgreSQL backed post store.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

// scanPost hydrates a Post from a joined row.
func scanPost(row pgx.Row, extra ...any) (*Post, error) {
	entry := &Post{}
	targets := []any{
		&entry.ID, &entry.UserID, &entry.Body, &entry.CreatedAt, &entry.UpdatedAt,
		&entry.AuthorUsername, &entry.AuthorDisplay, &entry.AuthorAvatarURL,
	}
	targets = append(targets, extra...)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return entry, nil
}

func (repository *postRepository) ListByAuthor(context context.Context, userID string, limit, offset int) ([]*Post, int, error) {
	post := schema.SocialPost
	account := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT
			p.%s, p.%s, p.%s, p.%s, p.%s,
			a.%s, a.%s, a.%s,
			COUNT(*) OVER() AS total_count
		FROM %s p
		JOIN %s a ON a.%s = p.%s
		WHERE p.%s = $1 AND p.%s IS NULL
		ORDER BY p.%s DESC
		LIMIT $2 OFFSET $3`,
		post.ID, post.UserID, post.Body, post.CreatedAt, post.UpdatedAt,
		account.Username, account.DisplayName, account.AvatarURL,
		post.Table,
		account.Table, account.ID, post.UserID,
		post.UserID, post.DeletedAt,
		post.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_post_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	var totalCount int
	for rows.Next() {
		entry, err := scanPost(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_post_repo_scan_failed: %w", err)
		}
		posts = append(posts, entry)
	}

	return posts, totalCount, nil
}

func (repository *postRepository) FindByID(context context.Context, id string) (*Post, error) {
	post := schema.SocialPost
	account := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT
			p.%s, p.%s, p.%s, p.%s, p.%s,
			a.%s, a.%s, a.%s
		FROM %s p
		JOIN %s a ON a.%s = p.%s
		WHERE p.%s = $1 AND p.%s IS NULL`,
		post.ID, post.UserID, post.Body, post.CreatedAt, post.UpdatedAt,
		account.Username, account.DisplayName, account.AvatarURL,
		post.Table,
		account.Table, account.ID, post.UserID,
		post.ID, post.DeletedAt,
	)

	entry, err := scanPost(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("postgres_post_repo_find_failed: %w", err)
	}
	return entry, nil
}

func (repository *postRepository) Create(context context.Context, entry *Post) error {
	post := schema.SocialPost
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		post.Table,
		post.ID, post.UserID, post.Body, post.CreatedAt, post.UpdatedAt,
	)

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.UserID, entry.Body, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *postRepository) UpdateBody(context context.Context, id, body string) error {
	post := schema.SocialPost
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		post.Table, post.Body, post.UpdatedAt, post.ID, post.DeletedAt)

	_, err := repository.pool.Exec(context, query, id, body)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_update_failed: %w", err)
	}
	return nil
}

func (repository *postRepository) SoftDelete(context context.Context, id string) error {
	post := schema.SocialPost
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		post.Table, post.DeletedAt, post.ID, post.DeletedAt)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_delete_failed: %w", err)
	}
	return nil
}

func (repository *postRepository) OwnerOf(context context.Context, id string) (string, error) {
	post := schema.SocialPost
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		post.UserID, post.Table, post.ID, post.DeletedAt)

	var ownerID string
	err := repository.pool.QueryRow(context, query, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("Post")
		}
		return "", fmt.Errorf("postgres_post_repo_owner_of_failed: %w", err)
	}
	return ownerID, nil
}
