package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"hrblog/internal/domain/models"
	"hrblog/internal/lib/logger/sl"
	"hrblog/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "blog:"

// CachedBlogRepo is a read-through cache over another BlogRepository. Lists
// and slug lookups are cached; every successful write drops all cached
// entries. Redis failures are logged and the underlying store is used.
// A read that started before a write may store its stale result after the
// invalidation; that entry lives until the ttl expires.
type CachedBlogRepo struct {
	BlogRepository

	log    *slog.Logger
	client redis.Cmdable
	ttl    time.Duration
}

func NewCachedBlogRepository(log *slog.Logger, next BlogRepository, client redis.Cmdable, ttl time.Duration) *CachedBlogRepo {
	return &CachedBlogRepo{
		BlogRepository: next,
		log:            log,
		client:         client,
		ttl:            ttl,
	}
}

func (c *CachedBlogRepo) ListPosts(ctx context.Context, status string) ([]models.BlogPost, error) {
	const op = "repository.cached_blog_repository.ListPosts"
	key := listCacheKey(status)

	var posts []models.BlogPost
	if c.load(ctx, op, key, &posts) {
		return posts, nil
	}

	posts, err := c.BlogRepository.ListPosts(ctx, status)
	if err != nil {
		return nil, err
	}

	c.store(ctx, op, key, posts)
	return posts, nil
}

func (c *CachedBlogRepo) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	const op = "repository.cached_blog_repository.GetBlogPostBySlug"
	key := slugCacheKey(slug)

	var post models.BlogPost
	if c.load(ctx, op, key, &post) {
		return &post, nil
	}

	found, err := c.BlogRepository.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.store(ctx, op, key, found)
	return found, nil
}

func (c *CachedBlogRepo) SaveBlogPost(ctx context.Context, post models.BlogPost) (string, error) {
	id, err := c.BlogRepository.SaveBlogPost(ctx, post)
	if err != nil {
		return "", err
	}

	c.invalidate(ctx, "repository.cached_blog_repository.SaveBlogPost")
	return id, nil
}

func (c *CachedBlogRepo) ReplaceBlogPost(ctx context.Context, post models.BlogPost) error {
	if err := c.BlogRepository.ReplaceBlogPost(ctx, post); err != nil {
		return err
	}

	c.invalidate(ctx, "repository.cached_blog_repository.ReplaceBlogPost")
	return nil
}

func (c *CachedBlogRepo) DeleteBlogPost(ctx context.Context, postID string) error {
	if err := c.BlogRepository.DeleteBlogPost(ctx, postID); err != nil {
		return err
	}

	c.invalidate(ctx, "repository.cached_blog_repository.DeleteBlogPost")
	return nil
}

func (c *CachedBlogRepo) load(ctx context.Context, op, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CacheRequestsTotal.WithLabelValues(metrics.CacheMiss).Inc()
		return false
	case err != nil:
		metrics.CacheRequestsTotal.WithLabelValues(metrics.CacheError).Inc()
		c.log.Warn("cache read failed", slog.String("op", op), slog.String("key", key), sl.Err(err))
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues(metrics.CacheError).Inc()
		c.log.Warn("cache entry corrupt", slog.String("op", op), slog.String("key", key), sl.Err(err))
		return false
	}

	metrics.CacheRequestsTotal.WithLabelValues(metrics.CacheHit).Inc()
	return true
}

func (c *CachedBlogRepo) store(ctx context.Context, op, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", slog.String("op", op), slog.String("key", key), sl.Err(err))
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", slog.String("op", op), slog.String("key", key), sl.Err(err))
	}
}

func (c *CachedBlogRepo) invalidate(ctx context.Context, op string) {
	keys, err := c.client.Keys(ctx, cacheKeyPrefix+"*").Result()
	if err != nil {
		c.log.Warn("cache invalidation failed", slog.String("op", op), sl.Err(err))
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidation failed", slog.String("op", op), sl.Err(err))
	}
}

func listCacheKey(status string) string {
	if status == "" {
		status = "all"
	}
	return cacheKeyPrefix + "list:" + status
}

func slugCacheKey(slug string) string {
	return cacheKeyPrefix + "slug:" + slug
}

var _ BlogRepository = (*CachedBlogRepo)(nil)
