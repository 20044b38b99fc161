package services

import (
	"fmt"
	"html"
	"math"
	"net/url"
	"path"
	"strings"
	"time"

	"hrblog/internal/domain/models"
	"hrblog/internal/transport/http/dto"

	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultWordsPerMinute = 200
	defaultReadTimeFormat = "%d dk okuma"
	descriptionLength     = 160
	fallbackSlug          = "post"

	robotsIndex   = "index, follow"
	robotsNoIndex = "noindex, nofollow"
	ogTypeArticle = "article"
)

type FormatterConfig struct {
	BaseURL        string
	WordsPerMinute int
	ReadTimeFormat string
}

// Formatter turns submitted fields into the record that gets persisted.
// It does no I/O.
type Formatter struct {
	cfg   FormatterConfig
	strip *bluemonday.Policy
}

func NewFormatter(cfg FormatterConfig) *Formatter {
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = defaultWordsPerMinute
	}
	if cfg.ReadTimeFormat == "" {
		cfg.ReadTimeFormat = defaultReadTimeFormat
	}

	strip := bluemonday.StrictPolicy()
	strip.AddSpaceWhenStrippingTag(true)

	return &Formatter{cfg: cfg, strip: strip}
}

func (f *Formatter) Format(req dto.BlogPostRequest, user models.User, now time.Time) models.BlogPost {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	slug := GenerateSlug(title)
	if slug == "" {
		slug = fallbackSlug
	}

	status := req.Status
	if status == "" {
		status = models.StatusPublished
	}

	post := models.BlogPost{
		Title:     title,
		Slug:      slug,
		Summary:   strings.TrimSpace(req.Summary),
		Content:   content,
		Image:     req.Image,
		Category:  req.Category,
		Tags:      cleanTags(req.Tags),
		Status:    status,
		Author:    user.AuthorName(),
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	post.ReadTime = strings.TrimSpace(req.ReadTime)
	if post.ReadTime == "" {
		post.ReadTime = f.ReadTime(content)
	}

	post.SEO = f.seo(post, req.SEO)

	return post
}

// Reslug moves a formatted post to a new slug. A canonical URL that was
// derived from the old slug follows it.
func (f *Formatter) Reslug(post *models.BlogPost, slug string, canonicalExplicit bool) {
	post.Slug = slug
	if !canonicalExplicit {
		post.SEO.Canonical = f.CanonicalURL(slug)
	}
}

func (f *Formatter) ReadTime(content string) string {
	words := len(strings.Fields(f.plainText(content)))

	minutes := int(math.Ceil(float64(words) / float64(f.cfg.WordsPerMinute)))
	if minutes < 1 {
		minutes = 1
	}

	return fmt.Sprintf(f.cfg.ReadTimeFormat, minutes)
}

func (f *Formatter) CanonicalURL(slug string) string {
	u, err := url.Parse(f.cfg.BaseURL)
	if err != nil {
		return strings.TrimRight(f.cfg.BaseURL, "/") + "/blog/" + slug
	}
	u.Path = path.Join("/", u.Path, "blog", slug)

	return u.String()
}

func (f *Formatter) seo(post models.BlogPost, in *dto.SEORequest) models.SEO {
	if in == nil {
		in = &dto.SEORequest{}
	}

	seo := models.SEO{
		Title:         firstNonEmpty(in.Title, post.Title),
		Description:   firstNonEmpty(in.Description, post.Summary, f.excerpt(post.Content)),
		Keywords:      cleanTags(in.Keywords),
		Canonical:     firstNonEmpty(in.Canonical, f.CanonicalURL(post.Slug)),
		OGImage:       firstNonEmpty(in.OGImage, post.Image),
		OGType:        firstNonEmpty(in.OGType, ogTypeArticle),
		Robots:        in.Robots,
		OGTitle:       in.OGTitle,
		OGDescription: in.OGDescription,
	}

	if len(seo.Keywords) == 0 {
		if len(post.Tags) > 0 {
			seo.Keywords = append([]string(nil), post.Tags...)
		} else {
			seo.Keywords = []string{post.Category}
		}
	}

	seo.OGTitle = firstNonEmpty(seo.OGTitle, seo.Title)
	seo.OGDescription = firstNonEmpty(seo.OGDescription, seo.Description)

	if seo.Robots == "" {
		seo.Robots = robotsIndex
		if post.Status == models.StatusDraft {
			seo.Robots = robotsNoIndex
		}
	}

	return seo
}

func (f *Formatter) plainText(content string) string {
	return html.UnescapeString(f.strip.Sanitize(content))
}

func (f *Formatter) excerpt(content string) string {
	text := strings.Join(strings.Fields(f.plainText(content)), " ")

	runes := []rune(text)
	if len(runes) <= descriptionLength {
		return text
	}

	return strings.TrimSpace(string(runes[:descriptionLength]))
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
