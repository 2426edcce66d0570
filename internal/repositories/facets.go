package repositories

import "sort"

// DefaultTags is offered for tag filtering while the catalog has no tags.
var DefaultTags = []string{"Ficção", "Romance", "Aventura", "Clássico", "Fantasia"}

func sortedCategories(values []string) []string {
	out := append([]string{}, values...)
	sort.Strings(out)
	return out
}

// tagsOrDefault returns the sorted distinct non-empty tags, or the default
// vocabulary when the catalog holds no tag at all.
func tagsOrDefault(values []string) []string {
	if len(values) == 0 {
		out := append([]string{}, DefaultTags...)
		sort.Strings(out)
		return out
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
