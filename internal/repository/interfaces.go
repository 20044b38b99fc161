package repository

import (
	"context"

	"hrblog/internal/domain/models"
)

type UserRepository interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// BlogRepository is the document store holding blog posts. Implementations
// return storage.ErrPostNotFound for unknown ids and storage.ErrSlugTaken when
// they can detect a duplicate slug on write.
type BlogRepository interface {
	ListPosts(ctx context.Context, status string) ([]models.BlogPost, error)
	GetBlogPostByID(ctx context.Context, postID string) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	RelatedPosts(ctx context.Context, category, excludeSlug string, limit int) ([]models.BlogPost, error)
	SaveBlogPost(ctx context.Context, post models.BlogPost) (string, error)
	ReplaceBlogPost(ctx context.Context, post models.BlogPost) error
	DeleteBlogPost(ctx context.Context, postID string) error
}
