package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var turkishReplacer = strings.NewReplacer(
	"ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u",
	"ş", "s", "Ş", "s",
	"ı", "i", "I", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ç", "c", "Ç", "c",
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// epoch milliseconds have had 13 digits since 2001
const minSuffixDigits = 13

// GenerateSlug derives the public identifier of a post from its title.
func GenerateSlug(title string) string {
	slug := strings.TrimSpace(strings.ToLower(title))
	slug = turkishReplacer.Replace(slug)
	slug = nonSlugRun.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// SuffixSlug appends the clock reading in epoch milliseconds.
func SuffixSlug(slug string, now time.Time) string {
	return fmt.Sprintf("%s-%d", slug, now.UnixMilli())
}

// sameSlugBase reports whether stored is candidate or candidate with a collision suffix.
func sameSlugBase(stored, candidate string) bool {
	if stored == candidate {
		return true
	}

	suffix, ok := strings.CutPrefix(stored, candidate+"-")
	if !ok || len(suffix) < minSuffixDigits {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

type SlugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// SlugAllocator resolves collisions with a read-then-write check. Two concurrent
// allocations of the same candidate can both succeed; storage with a unique
// index reports the loser as storage.ErrSlugTaken.
type SlugAllocator struct {
	checker SlugChecker
	clock   Clock
}

func NewSlugAllocator(checker SlugChecker, clock Clock) *SlugAllocator {
	return &SlugAllocator{checker: checker, clock: clock}
}

func (a *SlugAllocator) Allocate(ctx context.Context, candidate string) (string, error) {
	const op = "blog_service.SlugAllocator.Allocate"

	exists, err := a.checker.SlugExists(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return candidate, nil
	}

	return SuffixSlug(candidate, a.clock.Now()), nil
}
