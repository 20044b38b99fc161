package dto

import (
	"hrblog/internal/domain/models"
)

// BlogPostRequest is the body of both create and update. Updates replace the
// whole record, so every required field has to be sent again.
type BlogPostRequest struct {
	Title    string      `json:"title" validate:"notblank,max=200"`
	Content  string      `json:"content" validate:"notblank"`
	Image    string      `json:"image" validate:"notblank,max=2048"`
	Category string      `json:"category" validate:"notblank,category"`
	Summary  string      `json:"summary,omitempty" validate:"max=500"`
	Tags     []string    `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	Status   string      `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	SEO      *SEORequest `json:"seo,omitempty"`
	ReadTime string      `json:"readTime,omitempty" validate:"max=50"`
}

type SEORequest struct {
	Title         string   `json:"title,omitempty" validate:"max=200"`
	Description   string   `json:"description,omitempty" validate:"max=500"`
	Keywords      []string `json:"keywords,omitempty" validate:"max=30,dive,max=50"`
	Canonical     string   `json:"canonical,omitempty" validate:"omitempty,url"`
	OGTitle       string   `json:"ogTitle,omitempty" validate:"max=200"`
	OGDescription string   `json:"ogDescription,omitempty" validate:"max=500"`
	OGImage       string   `json:"ogImage,omitempty" validate:"max=2048"`
	OGType        string   `json:"ogType,omitempty" validate:"max=50"`
	Robots        string   `json:"robots,omitempty" validate:"max=100"`
}

type ListPostsQuery struct {
	Status string `query:"status" json:"status" validate:"omitempty,oneof=draft published"`
}

type BlogPostDetailResponse struct {
	Post         models.BlogPost      `json:"post"`
	RelatedPosts []models.RelatedPost `json:"relatedPosts"`
}

type BlogPostMutationResponse struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}
