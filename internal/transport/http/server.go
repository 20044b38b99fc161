package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hrblog/internal/domain/models"
	"hrblog/internal/lib/logger/sl"
	"hrblog/internal/lib/validate"
	"hrblog/internal/middleware"
	services "hrblog/internal/services/blog_service"
	"hrblog/internal/storage"
	"hrblog/internal/transport/http/dto"
	"hrblog/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"

	_ "hrblog/docs"
)

type BlogService interface {
	ListPosts(ctx context.Context, status string) ([]models.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*dto.BlogPostDetailResponse, error)
	CreatePost(ctx context.Context, user models.User, req dto.BlogPostRequest) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, user models.User, postID string, req dto.BlogPostRequest) (*models.BlogPost, error)
	DeletePost(ctx context.Context, postID string) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Routers struct {
	log         *slog.Logger
	BlogService BlogService
	checks      map[string]HealthChecker
}

func NewRouter(log *slog.Logger, blogService BlogService) *Routers {
	return &Routers{
		log:         log,
		BlogService: blogService,
		checks:      make(map[string]HealthChecker),
	}
}

// AddHealthCheck registers a dependency reported by the health endpoint.
func (r *Routers) AddHealthCheck(name string, checker HealthChecker) {
	r.checks[name] = checker
}

// Health godoc
// @Summary Service health
// @Description Reports the state of the store and cache connections.
// @Tags system
// @Produce json
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 503 {object} response.Response{data=map[string]string}
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	status := http.StatusOK
	report := make(map[string]string, len(r.checks))

	for name, checker := range r.checks {
		if err := checker.HealthCheck(c.Request().Context()); err != nil {
			r.log.Warn("health check failed", slog.String("dependency", name), sl.Err(err))
			report[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "up"
	}

	return c.JSON(status, response.SuccessResponse(report))
}

// ListPosts godoc
// @Summary List blog posts
// @Description All posts, newest first. Without a status filter drafts are included.
// @Tags posts
// @Produce json
// @Param status query string false "draft or published"
// @Success 200 {array} models.BlogPost
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/posts [get]
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	var query dto.ListPostsQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(query); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.CodeValidationFailed, validate.Fields(err)))
	}

	posts, err := r.BlogService.ListPosts(c.Request().Context(), query.Status)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, posts)
}

// GetPostBySlug godoc
// @Summary Get a post by slug
// @Description The post and up to three published posts of the same category.
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} dto.BlogPostDetailResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/posts/by-slug/{slug} [get]
func (r *Routers) GetPostBySlug(c echo.Context) error {
	const op = "http.routers.GetPostBySlug"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	post, err := r.BlogService.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Description Slug, read time and SEO defaults are derived from the body.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BlogPostRequest true "Post"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/posts [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
	}

	var req dto.BlogPostRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request body", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.BlogService.CreatePost(c.Request().Context(), user, req)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Replace a post
// @Description Rebuilds the whole record. Author, creation time and date are kept.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.BlogPostRequest true "Post"
// @Success 200 {object} response.Response{data=dto.BlogPostMutationResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/posts/{id} [put]
func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	log := r.log.With(
		slog.String("op", op),
		slog.String("post_id", c.Param("id")),
	)

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
	}

	var req dto.BlogPostRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request body", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.BlogService.UpdatePost(c.Request().Context(), user, c.Param("id"), req)
	if err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Post updated", dto.BlogPostMutationResponse{
		ID:   post.ID,
		Slug: post.Slug,
	}))
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/posts/{id} [delete]
func (r *Routers) DeletePost(c echo.Context) error {
	const op = "http.routers.DeletePost"

	log := r.log.With(
		slog.String("op", op),
		slog.String("post_id", c.Param("id")),
	)

	if err := r.BlogService.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return r.writeError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Post deleted", nil))
}

// writeError maps service errors to responses. Unexpected errors are logged
// and answered with a generic body.
func (r *Routers) writeError(c echo.Context, log *slog.Logger, err error) error {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.CodeValidationFailed, verr.Fields))
	case errors.Is(err, services.ErrValidation):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.CodeValidationFailed, nil))
	case errors.Is(err, storage.ErrPostNotFound):
		return c.JSON(http.StatusNotFound, response.ErrPostNotFound)
	default:
		log.Error("request failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
}
