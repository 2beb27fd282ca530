package catalog

import (
	"strings"

	"hoodsync/internal/feed"
)

// ExtractImages collects picture URLs from every column whose name starts
// with "image". Plural columns ("images") hold comma separated lists. URLs
// keep feed order, duplicates are dropped and at most MaxImages are kept.
func ExtractImages(row feed.Row) []string {
	images := make([]string, 0, MaxImages)
	seen := make(map[string]bool)

	add := func(raw string) {
		u := Clean(raw)
		if u == "" || seen[u] || len(images) >= MaxImages {
			return
		}
		seen[u] = true
		images = append(images, u)
	}

	for _, col := range row.Columns {
		key := strings.ToLower(strings.TrimSpace(col))
		if !strings.HasPrefix(key, "image") {
			continue
		}
		value := row.Value(col)
		if strings.HasPrefix(key, "images") {
			for _, part := range strings.Split(value, ",") {
				add(part)
			}
			continue
		}
		add(value)
	}
	return images
}
