package repository_test

import (
	"context"
	"testing"
	"time"

	"hrblog/internal/domain/models"
	"hrblog/internal/repository"
	"hrblog/internal/storage"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/gcloud"
)

const firestoreProjectID = "hrblog-test"

func setupTestFirestore(t *testing.T) *firestore.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping firestore emulator test in short mode")
	}

	ctx := context.Background()

	emulator, err := gcloud.RunFirestore(ctx,
		"gcr.io/google.com/cloudsdktool/cloud-sdk:367.0.0-emulators",
		gcloud.WithProjectID(firestoreProjectID),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = emulator.Terminate(ctx) })

	t.Setenv("FIRESTORE_EMULATOR_HOST", emulator.URI)

	client, err := firestore.NewClient(ctx, firestoreProjectID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestBlogRepo_Firestore(t *testing.T) {
	client := setupTestFirestore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	newRepo := func() (*repository.FirestoreBlogRepo, string) {
		collection := "blogPosts-" + uuid.NewString()
		return repository.NewFirestoreBlogRepository(client, collection), collection
	}

	t.Run("save and get round trip", func(t *testing.T) {
		repo, _ := newRepo()
		post := newPost("Kıdem Tazminatı", "kidem-tazminati", "İş Hukuku", models.StatusPublished, base)

		id, err := repo.SaveBlogPost(ctx, post)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := repo.GetBlogPostByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, post.Title, got.Title)
		assert.Equal(t, post.Tags, got.Tags)
		assert.Equal(t, post.SEO, got.SEO)
		assert.True(t, post.CreatedAt.Equal(got.CreatedAt))

		bySlug, err := repo.GetBlogPostBySlug(ctx, "kidem-tazminati")
		require.NoError(t, err)
		assert.Equal(t, id, bySlug.ID)

		exists, err := repo.SlugExists(ctx, "kidem-tazminati")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists(ctx, "yok")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing documents are not found", func(t *testing.T) {
		repo, _ := newRepo()

		_, err := repo.GetBlogPostByID(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrPostNotFound)

		_, err = repo.GetBlogPostBySlug(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrPostNotFound)

		err = repo.DeleteBlogPost(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrPostNotFound)

		post := newPost("Yok", "yok", "Kariyer", models.StatusPublished, base)
		post.ID = "missing"
		err = repo.ReplaceBlogPost(ctx, post)
		assert.ErrorIs(t, err, storage.ErrPostNotFound)

		_, err = repo.GetBlogPostByID(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrPostNotFound, "replace must not create the document")
	})

	t.Run("replace and delete", func(t *testing.T) {
		repo, _ := newRepo()

		id, err := repo.SaveBlogPost(ctx, newPost("Bordro", "bordro", "Bordro ve Maaş", models.StatusDraft, base))
		require.NoError(t, err)

		updated := newPost("Bordro Rehberi", "bordro-rehberi", "Bordro ve Maaş", models.StatusPublished, base)
		updated.ID = id
		updated.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.ReplaceBlogPost(ctx, updated))

		got, err := repo.GetBlogPostByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "bordro-rehberi", got.Slug)
		assert.Equal(t, models.StatusPublished, got.Status)
		assert.True(t, updated.UpdatedAt.Equal(got.UpdatedAt))

		require.NoError(t, repo.DeleteBlogPost(ctx, id))
		_, err = repo.GetBlogPostByID(ctx, id)
		assert.ErrorIs(t, err, storage.ErrPostNotFound)
	})

	t.Run("list newest first with status filter", func(t *testing.T) {
		repo, _ := newRepo()

		_, err := repo.SaveBlogPost(ctx, newPost("Eski", "eski", "Kariyer", models.StatusPublished, base))
		require.NoError(t, err)
		_, err = repo.SaveBlogPost(ctx, newPost("Yeni", "yeni", "Kariyer", models.StatusPublished, base.Add(time.Hour)))
		require.NoError(t, err)
		_, err = repo.SaveBlogPost(ctx, newPost("Taslak", "taslak", "Kariyer", models.StatusDraft, base.Add(2*time.Hour)))
		require.NoError(t, err)

		all, err := repo.ListPosts(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"taslak", "yeni", "eski"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

		published, err := repo.ListPosts(ctx, models.StatusPublished)
		require.NoError(t, err)
		require.Len(t, published, 2)
		assert.Equal(t, "yeni", published[0].Slug)
	})

	t.Run("related posts exclude the current slug and respect the limit", func(t *testing.T) {
		repo, _ := newRepo()

		for i, slug := range []string{"r1", "r2", "r3", "r4"} {
			_, err := repo.SaveBlogPost(ctx, newPost(slug, slug, "SGK ve Mevzuat", models.StatusPublished, base.Add(time.Duration(i)*time.Hour)))
			require.NoError(t, err)
		}
		_, err := repo.SaveBlogPost(ctx, newPost("draft", "draft", "SGK ve Mevzuat", models.StatusDraft, base.Add(10*time.Hour)))
		require.NoError(t, err)
		_, err = repo.SaveBlogPost(ctx, newPost("other", "other", "Kariyer", models.StatusPublished, base.Add(11*time.Hour)))
		require.NoError(t, err)

		related, err := repo.RelatedPosts(ctx, "SGK ve Mevzuat", "r4", 3)
		require.NoError(t, err)
		require.Len(t, related, 3)
		assert.Equal(t, []string{"r3", "r2", "r1"}, []string{related[0].Slug, related[1].Slug, related[2].Slug})

		related, err = repo.RelatedPosts(ctx, "SGK ve Mevzuat", "none", 3)
		require.NoError(t, err)
		require.Len(t, related, 3)
		assert.Equal(t, "r4", related[0].Slug)
	})

	t.Run("documents without timestamps decode", func(t *testing.T) {
		repo, collection := newRepo()

		_, err := client.Collection(collection).Doc("legacy").Set(ctx, map[string]interface{}{
			"title":    "Eski Yazı",
			"slug":     "eski-yazi",
			"category": "Duyurular",
			"status":   models.StatusPublished,
		})
		require.NoError(t, err)

		got, err := repo.GetBlogPostByID(ctx, "legacy")
		require.NoError(t, err)
		assert.Equal(t, "legacy", got.ID)
		assert.Equal(t, "eski-yazi", got.Slug)
		assert.True(t, got.CreatedAt.IsZero())
		assert.True(t, got.Date.IsZero())
	})
}
