package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"hrblog/internal/domain/models"
	"hrblog/internal/lib/logger/sl"
	"hrblog/internal/lib/validate"
	"hrblog/internal/metrics"
	"hrblog/internal/repository"
	"hrblog/internal/storage"
	"hrblog/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
)

const relatedPostsLimit = 3

var ErrValidation = errors.New("validation failed")

// ValidationError carries one message per offending request field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var SystemClock Clock = ClockFunc(time.Now)

type BlogService struct {
	log       *slog.Logger
	repo      repository.BlogRepository
	formatter *Formatter
	slugs     *SlugAllocator
	validate  *validator.Validate
	clock     Clock
}

func NewBlogService(log *slog.Logger, repo repository.BlogRepository, formatter *Formatter, clock Clock) *BlogService {
	if clock == nil {
		clock = SystemClock
	}

	return &BlogService{
		log:       log,
		repo:      repo,
		formatter: formatter,
		slugs:     NewSlugAllocator(repo, clock),
		validate:  validate.New(),
		clock:     clock,
	}
}

// ListPosts returns every post, newest first. An empty status means all statuses.
func (s *BlogService) ListPosts(ctx context.Context, status string) ([]models.BlogPost, error) {
	const op = "blog_service.ListPosts"
	log := s.log.With(
		slog.String("op", op),
		slog.String("status", status),
	)

	posts, err := s.repo.ListPosts(ctx, status)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	for i := range posts {
		coerceTimestamps(&posts[i], now)
	}

	if posts == nil {
		posts = []models.BlogPost{}
	}

	log.Debug("posts listed", slog.Int("count", len(posts)))
	return posts, nil
}

// GetPostBySlug returns the post and up to three published posts of the same category.
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (*dto.BlogPostDetailResponse, error) {
	const op = "blog_service.GetPostBySlug"
	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", slug),
	)

	post, err := s.repo.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	coerceTimestamps(post, now)

	related, err := s.repo.RelatedPosts(ctx, post.Category, post.Slug, relatedPostsLimit)
	if err != nil {
		log.Error("failed to get related posts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &dto.BlogPostDetailResponse{
		Post:         *post,
		RelatedPosts: make([]models.RelatedPost, 0, len(related)),
	}
	for _, r := range related {
		if r.Slug == post.Slug || len(resp.RelatedPosts) == relatedPostsLimit {
			continue
		}
		coerceTimestamps(&r, now)
		resp.RelatedPosts = append(resp.RelatedPosts, r.Related())
	}

	return resp, nil
}

// CreatePost validates, formats and stores a new post authored by user.
func (s *BlogService) CreatePost(ctx context.Context, user models.User, req dto.BlogPostRequest) (*models.BlogPost, error) {
	const op = "blog_service.CreatePost"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", user.ID),
	)

	if err := s.validateRequest(req); err != nil {
		log.Warn("invalid post", sl.Err(err))
		return nil, err
	}

	post := s.formatter.Format(req, user, s.clock.Now())

	if err := s.allocateSlug(ctx, &post, req); err != nil {
		log.Error("failed to allocate slug", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.SaveBlogPost(ctx, post)
	if errors.Is(err, storage.ErrSlugTaken) {
		log.Warn("slug taken concurrently, retrying with suffix", slog.String("slug", post.Slug))
		s.suffix(&post, req)
		id, err = s.repo.SaveBlogPost(ctx, post)
	}
	if err != nil {
		log.Error("failed to save post", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post.ID = id
	metrics.PostMutationsTotal.WithLabelValues(metrics.OpCreate).Inc()

	log.Info("post created", slog.String("post_id", id), slog.String("slug", post.Slug))
	return &post, nil
}

// UpdatePost replaces the post with a record rebuilt from req. The original
// author, creation time and display date are kept. A stored slug that is the
// new base slug plus a collision suffix is kept as is, even if the base is free.
func (s *BlogService) UpdatePost(ctx context.Context, user models.User, postID string, req dto.BlogPostRequest) (*models.BlogPost, error) {
	const op = "blog_service.UpdatePost"
	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID),
		slog.String("user_id", user.ID),
	)

	if err := s.validateRequest(req); err != nil {
		log.Warn("invalid post", sl.Err(err))
		return nil, err
	}

	existing, err := s.repo.GetBlogPostByID(ctx, postID)
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	post := s.formatter.Format(req, user, now)
	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt
	post.Date = existing.Date
	if existing.Author != "" {
		post.Author = existing.Author
	}
	coerceTimestamps(&post, now)

	if sameSlugBase(existing.Slug, post.Slug) {
		s.formatter.Reslug(&post, existing.Slug, canonicalExplicit(req))
	} else if err := s.allocateSlug(ctx, &post, req); err != nil {
		log.Error("failed to allocate slug", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.repo.ReplaceBlogPost(ctx, post)
	if errors.Is(err, storage.ErrSlugTaken) {
		log.Warn("slug taken concurrently, retrying with suffix", slog.String("slug", post.Slug))
		s.suffix(&post, req)
		err = s.repo.ReplaceBlogPost(ctx, post)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to replace post", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PostMutationsTotal.WithLabelValues(metrics.OpUpdate).Inc()

	log.Info("post updated", slog.String("slug", post.Slug))
	return &post, nil
}

// DeletePost removes the post permanently.
func (s *BlogService) DeletePost(ctx context.Context, postID string) error {
	const op = "blog_service.DeletePost"
	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID),
	)

	if _, err := s.repo.GetBlogPostByID(ctx, postID); err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteBlogPost(ctx, postID); err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to delete post", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.PostMutationsTotal.WithLabelValues(metrics.OpDelete).Inc()

	log.Info("post deleted")
	return nil
}

func (s *BlogService) validateRequest(req dto.BlogPostRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	fields := validate.Fields(err)
	if fields == nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	return &ValidationError{Fields: fields}
}

func (s *BlogService) allocateSlug(ctx context.Context, post *models.BlogPost, req dto.BlogPostRequest) error {
	slug, err := s.slugs.Allocate(ctx, post.Slug)
	if err != nil {
		return err
	}

	if slug != post.Slug {
		metrics.SlugCollisionsTotal.Inc()
		s.formatter.Reslug(post, slug, canonicalExplicit(req))
	}

	return nil
}

func (s *BlogService) suffix(post *models.BlogPost, req dto.BlogPostRequest) {
	metrics.SlugCollisionsTotal.Inc()
	s.formatter.Reslug(post, SuffixSlug(post.Slug, s.clock.Now()), canonicalExplicit(req))
}

func canonicalExplicit(req dto.BlogPostRequest) bool {
	return req.SEO != nil && strings.TrimSpace(req.SEO.Canonical) != ""
}

// coerceTimestamps fills timestamps missing from partially written documents.
func coerceTimestamps(post *models.BlogPost, now time.Time) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = now
	}
	if post.Date.IsZero() {
		post.Date = post.CreatedAt
	}
}
