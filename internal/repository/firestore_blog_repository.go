package repository

import (
	"context"
	"errors"
	"fmt"

	"hrblog/internal/domain/models"
	"hrblog/internal/storage"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreBlogRepo keeps posts as documents of one flat collection. The
// document id is the post id.
type FirestoreBlogRepo struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreBlogRepository(client *firestore.Client, collection string) *FirestoreBlogRepo {
	return &FirestoreBlogRepo{
		client:     client,
		collection: collection,
	}
}

func (f *FirestoreBlogRepo) posts() *firestore.CollectionRef {
	return f.client.Collection(f.collection)
}

func (f *FirestoreBlogRepo) ListPosts(ctx context.Context, statusFilter string) ([]models.BlogPost, error) {
	const op = "repository.firestore_blog_repository.ListPosts"

	query := f.posts().Query
	if statusFilter != "" {
		query = query.Where("status", "==", statusFilter)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	posts, err := collect(query.Documents(ctx), 0, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (f *FirestoreBlogRepo) GetBlogPostByID(ctx context.Context, postID string) (*models.BlogPost, error) {
	const op = "repository.firestore_blog_repository.GetBlogPostByID"

	if postID == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	snap, err := f.posts().Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post, err := decodePost(snap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

func (f *FirestoreBlogRepo) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	const op = "repository.firestore_blog_repository.GetBlogPostBySlug"

	posts, err := collect(f.posts().Where("slug", "==", slug).Limit(1).Documents(ctx), 1, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return &posts[0], nil
}

func (f *FirestoreBlogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "repository.firestore_blog_repository.SlugExists"

	iter := f.posts().Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// RelatedPosts needs a composite index on (category, status, createdAt desc).
// The excluded slug is filtered client side, so one extra document is read.
func (f *FirestoreBlogRepo) RelatedPosts(ctx context.Context, category, excludeSlug string, limit int) ([]models.BlogPost, error) {
	const op = "repository.firestore_blog_repository.RelatedPosts"

	query := f.posts().
		Where("category", "==", category).
		Where("status", "==", models.StatusPublished).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit + 1)

	posts, err := collect(query.Documents(ctx), limit, excludeSlug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (f *FirestoreBlogRepo) SaveBlogPost(ctx context.Context, post models.BlogPost) (string, error) {
	const op = "repository.firestore_blog_repository.SaveBlogPost"

	ref, _, err := f.posts().Add(ctx, post)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return ref.ID, nil
}

func (f *FirestoreBlogRepo) ReplaceBlogPost(ctx context.Context, post models.BlogPost) error {
	const op = "repository.firestore_blog_repository.ReplaceBlogPost"

	if post.ID == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	ref := f.posts().Doc(post.ID)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, post)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (f *FirestoreBlogRepo) DeleteBlogPost(ctx context.Context, postID string) error {
	const op = "repository.firestore_blog_repository.DeleteBlogPost"

	if postID == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	if _, err := f.posts().Doc(postID).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// collect drains iter, skipping excludeSlug and stopping after limit posts
// when limit is positive.
func collect(iter *firestore.DocumentIterator, limit int, excludeSlug string) ([]models.BlogPost, error) {
	defer iter.Stop()

	posts := make([]models.BlogPost, 0)
	for limit <= 0 || len(posts) < limit {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		post, err := decodePost(snap)
		if err != nil {
			return nil, err
		}
		if excludeSlug != "" && post.Slug == excludeSlug {
			continue
		}

		posts = append(posts, *post)
	}

	return posts, nil
}

// decodePost tolerates documents written without timestamps; the zero values
// are filled by the service.
func decodePost(snap *firestore.DocumentSnapshot) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := snap.DataTo(&post); err != nil {
		return nil, fmt.Errorf("decode post %s: %w", snap.Ref.ID, err)
	}

	post.ID = snap.Ref.ID

	return &post, nil
}
