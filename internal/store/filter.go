package store

import (
	"strings"

	"github.com/sidereusnuntius/blogfront/internal/domain"
)

// AllCategories are the category values that disable category filtering.
var AllCategories = []string{"", "Tous", "all"}

// ApplyFilters returns the posts in category whose title, content or excerpt contains query.
// Both comparisons ignore case and the input order is kept.
func ApplyFilters(posts []domain.Post, category, query string) []domain.Post {
	category = strings.TrimSpace(category)
	query = strings.ToLower(strings.TrimSpace(query))

	anyCategory := false
	for _, c := range AllCategories {
		if strings.EqualFold(category, c) {
			anyCategory = true
			break
		}
	}

	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if !anyCategory && !strings.EqualFold(p.Category, category) {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p domain.Post, query string) bool {
	for _, field := range []string{p.Title, p.Content, p.Excerpt} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
