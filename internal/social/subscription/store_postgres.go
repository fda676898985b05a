// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # PostgreSQL Repository

// subscriptionRepository implements the [SubscriptionRepository] interface using pgx.
type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository constructs a PostgreSQL backed subscription store.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (repository *subscriptionRepository) Add(context context.Context, subscriberID, channelID string) (bool, error) {
	subscription := schema.SocialSubscription
	// The (subscriberid, channelid) unique index makes double follows a no-op.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, %s) DO NOTHING`,
		subscription.Table,
		subscription.ID, subscription.SubscriberID, subscription.ChannelID, subscription.CreatedAt,
		subscription.SubscriberID, subscription.ChannelID,
	)

	tag, err := repository.pool.Exec(context, query, uuid.New(), subscriberID, channelID)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return false, apperr.NotFound("Channel")
		}
		return false, fmt.Errorf("postgres_subscription_repo_add_failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *subscriptionRepository) Remove(context context.Context, subscriberID, channelID string) (bool, error) {
	subscription := schema.SocialSubscription
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		subscription.Table, subscription.SubscriberID, subscription.ChannelID)

	tag, err := repository.pool.Exec(context, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("postgres_subscription_repo_remove_failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *subscriptionRepository) Exists(context context.Context, subscriberID, channelID string) (bool, error) {
	subscription := schema.SocialSubscription
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		subscription.Table, subscription.SubscriberID, subscription.ChannelID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_subscription_repo_exists_failed: %w", err)
	}
	return exists, nil
}

// listSummaries runs a follow-graph join and hydrates channel cards.
func (repository *subscriptionRepository) listSummaries(context context.Context, query string, key string, limit, offset int) ([]*ChannelSummary, int, error) {
	rows, err := repository.pool.Query(context, query, key, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_subscription_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var summaries []*ChannelSummary
	var totalCount int
	for rows.Next() {
		summary := &ChannelSummary{}
		if err := rows.Scan(&summary.UserID, &summary.Username, &summary.DisplayName, &summary.AvatarURL, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("postgres_subscription_repo_scan_failed: %w", err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, totalCount, nil
}

func (repository *subscriptionRepository) ListSubscribers(context context.Context, channelID string, limit, offset int) ([]*ChannelSummary, int, error) {
	subscription := schema.SocialSubscription
	account := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, COUNT(*) OVER() AS total_count
		FROM %s s
		JOIN %s a ON a.%s = s.%s
		WHERE s.%s = $1 AND a.%s IS NULL
		ORDER BY s.%s DESC
		LIMIT $2 OFFSET $3`,
		account.ID, account.Username, account.DisplayName, account.AvatarURL,
		subscription.Table,
		account.Table, account.ID, subscription.SubscriberID,
		subscription.ChannelID, account.DeletedAt,
		subscription.CreatedAt,
	)
	return repository.listSummaries(context, query, channelID, limit, offset)
}

func (repository *subscriptionRepository) ListSubscriptions(context context.Context, subscriberID string, limit, offset int) ([]*ChannelSummary, int, error) {
	subscription := schema.SocialSubscription
	account := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, COUNT(*) OVER() AS total_count
		FROM %s s
		JOIN %s a ON a.%s = s.%s
		WHERE s.%s = $1 AND a.%s IS NULL
		ORDER BY s.%s DESC
		LIMIT $2 OFFSET $3`,
		account.ID, account.Username, account.DisplayName, account.AvatarURL,
		subscription.Table,
		account.Table, account.ID, subscription.ChannelID,
		subscription.SubscriberID, account.DeletedAt,
		subscription.CreatedAt,
	)
	return repository.listSummaries(context, query, subscriberID, limit, offset)
}

func (repository *subscriptionRepository) CountsFor(context context.Context, channelID string) (int64, int64, int64, error) {
	subscription := schema.SocialSubscription
	content := schema.ContentVideo
	// One round-trip for all three channel-page counters.
	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s WHERE %s = $1),
			(SELECT COUNT(*) FROM %s WHERE %s = $1),
			(SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = TRUE AND %s IS NULL)`,
		subscription.Table, subscription.ChannelID,
		subscription.Table, subscription.SubscriberID,
		content.Table, content.OwnerID, content.IsPublished, content.DeletedAt,
	)

	var subscriberCount, subscribedCount, videoCount int64
	err := repository.pool.QueryRow(context, query, channelID).Scan(&subscriberCount, &subscribedCount, &videoCount)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("postgres_subscription_repo_counts_failed: %w", err)
	}
	return subscriberCount, subscribedCount, videoCount, nil
}
