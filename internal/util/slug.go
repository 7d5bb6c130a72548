package util

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify lowercases the name, collapses every run of non-alphanumerics into
// a single hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// UniqueSlug appends an incrementing numeric suffix until exists reports the
// candidate as free. The read-then-write window is closed by the unique index
// on the slug column; a lost race surfaces as a conflict to the caller.
func UniqueSlug(base string, exists func(string) (bool, error)) (string, error) {
	slug := Slugify(base)
	if slug == "" {
		slug = "item"
	}
	candidate := slug
	for i := 1; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}
