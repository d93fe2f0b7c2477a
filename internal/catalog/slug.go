package catalog

import "strings"

// Slugify folds a human-readable name into a URL-safe slug: lowercase,
// runs of non-alphanumeric characters collapsed to a single hyphen,
// leading and trailing hyphens stripped.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	hyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		default:
			hyphen = true
		}
	}
	return b.String()
}
