package models

import (
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Categories lists the blog categories accepted by the admin panel.
var Categories = []string{
	"İnsan Kaynakları",
	"Bordro ve Maaş",
	"İş Hukuku",
	"SGK ve Mevzuat",
	"Kariyer",
	"Duyurular",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}

	return false
}

type BlogPost struct {
	ID        string    `db:"id" json:"id" firestore:"-"`
	Title     string    `db:"title" json:"title" firestore:"title"`
	Slug      string    `db:"slug" json:"slug" firestore:"slug"`
	Summary   string    `db:"summary" json:"summary" firestore:"summary"`
	Content   string    `db:"content" json:"content" firestore:"content"`
	Image     string    `db:"image" json:"image" firestore:"image"`
	Category  string    `db:"category" json:"category" firestore:"category"`
	Tags      []string  `db:"tags" json:"tags" firestore:"tags"`
	Status    string    `db:"status" json:"status" firestore:"status"`
	Author    string    `db:"author" json:"author" firestore:"author"`
	SEO       SEO       `db:"seo" json:"seo" firestore:"seo"`
	ReadTime  string    `db:"read_time" json:"readTime" firestore:"readTime"`
	Date      time.Time `db:"date" json:"date" firestore:"date"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" firestore:"updatedAt"`
}

type SEO struct {
	Title         string   `json:"title" firestore:"title"`
	Description   string   `json:"description" firestore:"description"`
	Keywords      []string `json:"keywords" firestore:"keywords"`
	Canonical     string   `json:"canonical" firestore:"canonical"`
	OGTitle       string   `json:"ogTitle" firestore:"ogTitle"`
	OGDescription string   `json:"ogDescription" firestore:"ogDescription"`
	OGImage       string   `json:"ogImage" firestore:"ogImage"`
	OGType        string   `json:"ogType" firestore:"ogType"`
	Robots        string   `json:"robots" firestore:"robots"`
}

// RelatedPost is the reduced projection shown under a post.
type RelatedPost struct {
	Title    string    `json:"title"`
	Image    string    `json:"image"`
	Category string    `json:"category"`
	Slug     string    `json:"slug"`
	Date     time.Time `json:"date"`
	Author   string    `json:"author"`
}

func (p BlogPost) Related() RelatedPost {
	return RelatedPost{
		Title:    p.Title,
		Image:    p.Image,
		Category: p.Category,
		Slug:     p.Slug,
		Date:     p.Date,
		Author:   p.Author,
	}
}
