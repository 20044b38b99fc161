package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hrblog/internal/domain/models"
	"hrblog/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	blogPostsTable = "blog_posts"
	slugIndex      = "blog_posts_slug_idx"

	uniqueViolation = "23505"
)

var blogPostColumns = []string{
	"id::text",
	"title",
	"slug",
	"summary",
	"content",
	"image",
	"category",
	"tags",
	"status",
	"author",
	"seo",
	"read_time",
	"date",
	"created_at",
	"updated_at",
}

type BlogRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (b *BlogRepo) ListPosts(ctx context.Context, status string) ([]models.BlogPost, error) {
	const op = "repository.blog_repository.ListPosts"

	builder := b.sb.Select(blogPostColumns...).
		From(blogPostsTable).
		OrderBy("created_at DESC")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	return b.queryPosts(ctx, op, builder)
}

func (b *BlogRepo) GetBlogPostByID(ctx context.Context, postID string) (*models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostByID"

	if _, err := uuid.Parse(postID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return b.getPost(ctx, op, sq.Eq{"id": postID})
}

func (b *BlogRepo) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostBySlug"

	return b.getPost(ctx, op, sq.Eq{"slug": slug})
}

func (b *BlogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "repository.blog_repository.SlugExists"

	query, args, err := b.sb.Select("1").
		From(blogPostsTable).
		Where(sq.Eq{"slug": slug}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var exists bool
	if err := b.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// RelatedPosts returns published posts of the category, newest first.
func (b *BlogRepo) RelatedPosts(ctx context.Context, category, excludeSlug string, limit int) ([]models.BlogPost, error) {
	const op = "repository.blog_repository.RelatedPosts"

	builder := b.sb.Select(blogPostColumns...).
		From(blogPostsTable).
		Where(sq.Eq{"category": category, "status": models.StatusPublished}).
		Where(sq.NotEq{"slug": excludeSlug}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	return b.queryPosts(ctx, op, builder)
}

func (b *BlogRepo) SaveBlogPost(ctx context.Context, post models.BlogPost) (string, error) {
	const op = "repository.blog_repository.SaveBlogPost"

	seo, err := json.Marshal(post.SEO)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.New()

	query, args, err := b.sb.Insert(blogPostsTable).
		Columns(
			"id",
			"title",
			"slug",
			"summary",
			"content",
			"image",
			"category",
			"tags",
			"status",
			"author",
			"seo",
			"read_time",
			"date",
			"created_at",
			"updated_at",
		).
		Values(
			id,
			post.Title,
			post.Slug,
			post.Summary,
			post.Content,
			post.Image,
			post.Category,
			nonNilTags(post.Tags),
			post.Status,
			post.Author,
			seo,
			post.ReadTime,
			post.Date,
			post.CreatedAt,
			post.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := b.db.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapWriteError(err))
	}

	return id.String(), nil
}

func (b *BlogRepo) ReplaceBlogPost(ctx context.Context, post models.BlogPost) error {
	const op = "repository.blog_repository.ReplaceBlogPost"

	if _, err := uuid.Parse(post.ID); err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	seo, err := json.Marshal(post.SEO)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := b.sb.Update(blogPostsTable).
		SetMap(map[string]interface{}{
			"title":      post.Title,
			"slug":       post.Slug,
			"summary":    post.Summary,
			"content":    post.Content,
			"image":      post.Image,
			"category":   post.Category,
			"tags":       nonNilTags(post.Tags),
			"status":     post.Status,
			"author":     post.Author,
			"seo":        seo,
			"read_time":  post.ReadTime,
			"date":       post.Date,
			"created_at": post.CreatedAt,
			"updated_at": post.UpdatedAt,
		}).
		Where(sq.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	result, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapWriteError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

func (b *BlogRepo) DeleteBlogPost(ctx context.Context, postID string) error {
	const op = "repository.blog_repository.DeleteBlogPost"

	if _, err := uuid.Parse(postID); err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	query, args, err := b.sb.Delete(blogPostsTable).
		Where(sq.Eq{"id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	result, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

func (b *BlogRepo) getPost(ctx context.Context, op string, where sq.Eq) (*models.BlogPost, error) {
	query, args, err := b.sb.Select(blogPostColumns...).
		From(blogPostsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	post, err := scanBlogPost(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

func (b *BlogRepo) queryPosts(ctx context.Context, op string, builder sq.SelectBuilder) ([]models.BlogPost, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := make([]models.BlogPost, 0)
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func scanBlogPost(row pgx.Row) (*models.BlogPost, error) {
	var (
		post models.BlogPost
		seo  []byte
	)

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Summary,
		&post.Content,
		&post.Image,
		&post.Category,
		&post.Tags,
		&post.Status,
		&post.Author,
		&seo,
		&post.ReadTime,
		&post.Date,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(seo) > 0 {
		if err := json.Unmarshal(seo, &post.SEO); err != nil {
			return nil, fmt.Errorf("decode seo: %w", err)
		}
	}

	return &post, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == slugIndex {
		return storage.ErrSlugTaken
	}

	return err
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
